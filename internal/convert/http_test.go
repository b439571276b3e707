package convert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"radicado/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPConverter_Convert(t *testing.T) {
	var artifactURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/convert", func(w http.ResponseWriter, r *http.Request) {
		var req convertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "html", req.SourceFormat)
		assert.NotEmpty(t, req.IdempotencyKey)
		assert.Equal(t, req.IdempotencyKey, r.Header.Get("Idempotency-Key"))
		json.NewEncoder(w).Encode(convertResponse{URL: artifactURL})
	})
	mux.HandleFunc("/artifact.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 converted"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	artifactURL = srv.URL + "/artifact.pdf"

	conv, err := NewHTTP(config.ConverterConfig{Endpoint: srv.URL + "/convert", TimeoutSec: 5})
	require.NoError(t, err)

	b, err := conv.Convert(context.Background(), Request{
		SourceURL:      "http://example.invalid/draft.html",
		SourceFormat:   "html",
		IdempotencyKey: "idem-1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 converted", string(b))
}

func TestHTTPConverter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	conv, err := NewHTTP(config.ConverterConfig{Endpoint: srv.URL, TimeoutSec: 5})
	require.NoError(t, err)

	_, err = conv.Convert(context.Background(), Request{SourceURL: "x", SourceFormat: "html"})
	assert.ErrorIs(t, err, ErrConversionFailed)
}

func TestHTTPConverter_EmptyArtifactURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(convertResponse{})
	}))
	defer srv.Close()

	conv, err := NewHTTP(config.ConverterConfig{Endpoint: srv.URL, TimeoutSec: 5})
	require.NoError(t, err)

	_, err = conv.Convert(context.Background(), Request{SourceURL: "x", SourceFormat: "html"})
	assert.ErrorIs(t, err, ErrConversionFailed)
}

func TestHTTPConverter_Unreachable(t *testing.T) {
	conv, err := NewHTTP(config.ConverterConfig{Endpoint: "http://127.0.0.1:1/convert", TimeoutSec: 1})
	require.NoError(t, err)

	_, err = conv.Convert(context.Background(), Request{SourceURL: "x", SourceFormat: "html"})
	assert.ErrorIs(t, err, ErrConversionFailed)
}

func TestNewHTTP_RequiresEndpoint(t *testing.T) {
	_, err := NewHTTP(config.ConverterConfig{})
	assert.Error(t, err)
}
