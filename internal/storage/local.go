package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"radicado/internal/config"
)

// localStorage implements the Storage interface on the local filesystem.
// Keys map to paths under the configured root; presigned URLs degrade to
// plain base-URL links since there are no credentials to sign with.
type localStorage struct {
	root    string
	baseURL string
}

// NewLocal creates a filesystem-backed storage rooted at cfg.LocalRoot.
func NewLocal(cfg config.StorageConfig) (Storage, error) {
	if cfg.LocalRoot == "" {
		return nil, fmt.Errorf("local storage root is required")
	}
	if err := os.MkdirAll(cfg.LocalRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &localStorage{
		root:    cfg.LocalRoot,
		baseURL: strings.TrimRight(cfg.LocalBaseURL, "/"),
	}, nil
}

func (l *localStorage) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.root, clean), nil
}

// Put writes the object to disk under root/key, creating parent directories.
func (l *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	p, err := l.path(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create object file: %w", err)
	}
	h := md5.New()
	n, err := io.Copy(io.MultiWriter(f, h), r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return ObjectInfo{}, fmt.Errorf("write object: %w", err)
	}

	ct := opt.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(p))
	}
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ETag:         hex.EncodeToString(h.Sum(nil)),
		ContentType:  ct,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens the object file for streaming reads.
func (l *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	info := ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(p)),
		LastModified: st.ModTime(),
	}
	return f, info, nil
}

// Delete removes an object by key. Missing objects are not an error.
func (l *localStorage) Delete(ctx context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PresignGet returns a plain URL under the configured base; local files carry
// no credentials so there is nothing to sign.
func (l *localStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if l.baseURL == "" {
		return "", fmt.Errorf("local storage base url not configured")
	}
	return l.baseURL + "/" + strings.TrimLeft(key, "/"), nil
}
