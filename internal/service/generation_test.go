package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerationService_Generate(t *testing.T) {
	audio := []byte("fake-mp3-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sound-generation", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("xi-api-key"))

		var req soundGenerationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a thunderstorm", req.Text)
		require.Equal(t, 10, req.DurationSeconds)
		require.InDelta(t, 0.3, req.PromptInfluence, 1e-9)

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer srv.Close()

	svc := NewGenerationService(&GenerationConfig{
		APIKey:          "test-key",
		BaseURL:         srv.URL,
		DurationSeconds: 10,
		PromptInfluence: 0.3,
	})

	got, err := svc.Generate(context.Background(), "a thunderstorm")
	require.NoError(t, err)
	require.Equal(t, audio, got)
}

func TestGenerationService_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"text too long"}`))
	}))
	defer srv.Close()

	svc := NewGenerationService(&GenerationConfig{APIKey: "k", BaseURL: srv.URL})

	_, err := svc.Generate(context.Background(), "a thunderstorm")
	require.Error(t, err)
	require.Contains(t, err.Error(), "422")
}

func TestGenerationService_EmptyAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewGenerationService(&GenerationConfig{APIKey: "k", BaseURL: srv.URL})

	_, err := svc.Generate(context.Background(), "a thunderstorm")
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty audio")
}
