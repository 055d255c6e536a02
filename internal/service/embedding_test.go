package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newEmbeddingServer(t *testing.T, vector []float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Input)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": vector, "index": 0},
			},
		})
	}))
}

func TestEmbeddingService_Embed(t *testing.T) {
	srv := newEmbeddingServer(t, []float64{0.1, 0.2, 0.3})
	defer srv.Close()

	svc := NewEmbeddingService(&EmbeddingConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Model:      "text-embedding-3-large",
		Dimensions: 3,
	})

	vec, err := svc.Embed(context.Background(), "a thunderstorm")
	require.NoError(t, err)
	require.Len(t, vec, 3)
	require.InDelta(t, 0.2, vec[1], 1e-12)
}

func TestEmbeddingService_RejectsWrongLength(t *testing.T) {
	srv := newEmbeddingServer(t, []float64{0.1, 0.2})
	defer srv.Close()

	svc := NewEmbeddingService(&EmbeddingConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Model:      "text-embedding-3-large",
		Dimensions: 3,
	})

	_, err := svc.Embed(context.Background(), "a thunderstorm")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected embedding length")
}

func TestEmbeddingService_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := NewEmbeddingService(&EmbeddingConfig{APIKey: "bad", BaseURL: srv.URL, Model: "m"})

	_, err := svc.Embed(context.Background(), "text")
	require.Error(t, err)
}
