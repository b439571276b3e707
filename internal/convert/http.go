package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"radicado/internal/config"
)

// httpConverter calls a synchronous format-conversion service. The service is
// treated as untrusted and unreliable: one call, no retries, any failure
// surfaces as ErrConversionFailed.
type httpConverter struct {
	endpoint string
	client   *http.Client
}

// NewHTTP creates a converter client for the configured endpoint.
func NewHTTP(cfg config.ConverterConfig) (Converter, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("converter endpoint is required")
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpConverter{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type convertRequest struct {
	SourceURL      string `json:"source_url"`
	SourceFormat   string `json:"source_format"`
	IdempotencyKey string `json:"idempotency_key"`
}

type convertResponse struct {
	URL string `json:"url"`
}

// Convert submits the source artifact and downloads the converted result.
func (c *httpConverter) Convert(ctx context.Context, req Request) ([]byte, error) {
	body, err := json.Marshal(convertRequest{
		SourceURL:      req.SourceURL,
		SourceFormat:   req.SourceFormat,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrConversionFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrConversionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: converter returned %d", ErrConversionFailed, resp.StatusCode)
	}

	var out convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrConversionFailed, err)
	}
	if out.URL == "" {
		return nil, fmt.Errorf("%w: converter returned no artifact url", ErrConversionFailed)
	}

	return c.download(ctx, out.URL)
}

func (c *httpConverter) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build download: %v", ErrConversionFailed, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download: %v", ErrConversionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download returned %d", ErrConversionFailed, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read artifact: %v", ErrConversionFailed, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty artifact", ErrConversionFailed)
	}
	return b, nil
}
