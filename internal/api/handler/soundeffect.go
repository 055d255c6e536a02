package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Ankit1478/sfx-backend/internal/domain"
	"github.com/Ankit1478/sfx-backend/internal/repository"
	"github.com/Ankit1478/sfx-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// PhraseExtractor is the extraction capability the handler consumes.
type PhraseExtractor interface {
	ExtractPhrases(ctx context.Context, text string) ([]string, error)
}

// PhraseProcessor is the dedup pipeline capability the handler consumes.
type PhraseProcessor interface {
	ProcessPhrases(ctx context.Context, phrases []string) ([]service.Result, error)
}

// SoundEffectHandler handles phrase extraction and batch sound-effect
// processing endpoints.
type SoundEffectHandler struct {
	extractor PhraseExtractor
	pipeline  PhraseProcessor
	repo      *repository.SoundEffectRepository
}

// NewSoundEffectHandler creates a new sound-effect handler.
func NewSoundEffectHandler(extractor PhraseExtractor, pipeline PhraseProcessor, repo *repository.SoundEffectRepository) *SoundEffectHandler {
	return &SoundEffectHandler{
		extractor: extractor,
		pipeline:  pipeline,
		repo:      repo,
	}
}

type extractRequest struct {
	Text string `json:"text" binding:"required"`
}

// Extract handles POST /api/v1/extract-sfx.
func (h *SoundEffectHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	phrases, err := h.extractor.ExtractPhrases(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract SFX phrases: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"phrases": phrases})
}

type processRequest struct {
	Phrases []string `json:"phrases"`
}

// Process handles POST /api/v1/sound-effects, the batch dedup operation.
func (h *SoundEffectHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	results, err := h.pipeline.ProcessPhrases(c.Request.Context(), req.Phrases)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNoPhrases) || errors.Is(err, domain.ErrEmptyPhrase) {
			status = http.StatusBadRequest
		}
		body := gin.H{"error": "Failed to save sound effects: " + err.Error()}
		if len(results) > 0 {
			// Partial-results mode: successes travel with the error
			body["sound_effects"] = results
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sound_effects": results})
}

// List handles GET /api/v1/sound-effects.
func (h *SoundEffectHandler) List(c *gin.Context) {
	limit := 50
	offset := 0
	if v, ok := c.GetQuery("limit"); ok {
		if n, err := parsePositiveInt(v); err == nil {
			limit = n
		}
	}
	if v, ok := c.GetQuery("offset"); ok {
		if n, err := parsePositiveInt(v); err == nil {
			offset = n
		}
	}

	effects, err := h.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sound effects: " + err.Error()})
		return
	}

	type entry struct {
		Phrase    string `json:"phrase"`
		AssetURL  string `json:"asset_url"`
		CreatedAt string `json:"created_at"`
	}
	out := make([]entry, 0, len(effects))
	for _, e := range effects {
		out = append(out, entry{
			Phrase:    e.Phrase,
			AssetURL:  e.AssetURL,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	total, err := h.repo.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count sound effects: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sound_effects": out,
		"total":         total,
	})
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.New("not a positive integer")
		}
		n = n*10 + int(r-'0')
	}
	if s == "" {
		return 0, errors.New("empty")
	}
	return n, nil
}
