package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ankit1478/sfx-backend/internal/domain"
	"github.com/Ankit1478/sfx-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeExtractor struct {
	phrases []string
	err     error
}

func (f *fakeExtractor) ExtractPhrases(ctx context.Context, text string) ([]string, error) {
	return f.phrases, f.err
}

type fakePipeline struct {
	got     []string
	results []service.Result
	err     error
}

func (f *fakePipeline) ProcessPhrases(ctx context.Context, phrases []string) ([]service.Result, error) {
	f.got = phrases
	return f.results, f.err
}

func newTestRouter(h *SoundEffectHandler) *gin.Engine {
	r := gin.New()
	r.POST("/api/v1/extract-sfx", h.Extract)
	r.POST("/api/v1/sound-effects", h.Process)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestExtract(t *testing.T) {
	extractor := &fakeExtractor{phrases: []string{"a thunderstorm", "door slam"}}
	h := NewSoundEffectHandler(extractor, &fakePipeline{}, nil)

	w := postJSON(t, newTestRouter(h), "/api/v1/extract-sfx", gin.H{"text": "thunder rolled as the door slammed"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Phrases []string `json:"phrases"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, []string{"a thunderstorm", "door slam"}, resp.Phrases)
}

func TestExtract_MissingText(t *testing.T) {
	h := NewSoundEffectHandler(&fakeExtractor{}, &fakePipeline{}, nil)
	w := postJSON(t, newTestRouter(h), "/api/v1/extract-sfx", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcess(t *testing.T) {
	pipeline := &fakePipeline{results: []service.Result{
		{Phrase: "a thunderstorm", AssetURL: "https://cdn.test/a.mp3", Reused: false},
		{Phrase: "rain falling", AssetURL: "https://cdn.test/a.mp3", Reused: true, Similarity: 0.95},
	}}
	h := NewSoundEffectHandler(&fakeExtractor{}, pipeline, nil)

	w := postJSON(t, newTestRouter(h), "/api/v1/sound-effects", gin.H{
		"phrases": []string{"a thunderstorm", "rain falling"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"a thunderstorm", "rain falling"}, pipeline.got)

	var resp struct {
		SoundEffects []service.Result `json:"sound_effects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.SoundEffects, 2)
	require.True(t, resp.SoundEffects[1].Reused)
}

func TestProcess_ValidationErrorIsBadRequest(t *testing.T) {
	for _, err := range []error{
		domain.ErrNoPhrases,
		domain.NewPhraseError("", domain.StageValidate, domain.ErrEmptyPhrase),
	} {
		pipeline := &fakePipeline{err: err}
		h := NewSoundEffectHandler(&fakeExtractor{}, pipeline, nil)

		w := postJSON(t, newTestRouter(h), "/api/v1/sound-effects", gin.H{"phrases": []string{}})
		require.Equal(t, http.StatusBadRequest, w.Code, "error %v", err)
	}
}

func TestProcess_PartialResultsTravelWithError(t *testing.T) {
	pipeline := &fakePipeline{
		results: []service.Result{{Phrase: "a thunderstorm", AssetURL: "https://cdn.test/a.mp3"}},
		err:     errors.New("sound generation failed: status 500"),
	}
	h := NewSoundEffectHandler(&fakeExtractor{}, pipeline, nil)

	w := postJSON(t, newTestRouter(h), "/api/v1/sound-effects", gin.H{
		"phrases": []string{"a thunderstorm", "rain falling"},
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Error        string           `json:"error"`
		SoundEffects []service.Result `json:"sound_effects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.Error, "sound generation failed")
	require.Len(t, resp.SoundEffects, 1)
}
