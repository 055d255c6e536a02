package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Generator synthesizes audio bytes for a phrase.
type Generator interface {
	Generate(ctx context.Context, phrase string) ([]byte, error)
}

// GenerationService synthesizes sound effects through the ElevenLabs
// sound-generation API. Duration and prompt influence are fixed configuration
// constants, never per-phrase.
type GenerationService struct {
	client          *resty.Client
	endpoint        string
	durationSeconds int
	promptInfluence float64
}

// GenerationConfig holds configuration for the generation service.
type GenerationConfig struct {
	APIKey          string
	BaseURL         string
	DurationSeconds int
	PromptInfluence float64
}

// NewGenerationService creates a new sound-generation service.
func NewGenerationService(cfg *GenerationConfig) *GenerationService {
	client := resty.New()
	client.SetHeader("xi-api-key", cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Synthesis is slow for long durations
	client.SetTimeout(120 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io/v1"
	}

	return &GenerationService{
		client:          client,
		endpoint:        baseURL + "/sound-generation",
		durationSeconds: cfg.DurationSeconds,
		promptInfluence: cfg.PromptInfluence,
	}
}

type soundGenerationRequest struct {
	Text            string  `json:"text"`
	DurationSeconds int     `json:"duration_seconds"`
	PromptInfluence float64 `json:"prompt_influence"`
}

// Generate synthesizes audio for a phrase and returns the raw MP3 bytes.
func (s *GenerationService) Generate(ctx context.Context, phrase string) ([]byte, error) {
	req := soundGenerationRequest{
		Text:            phrase,
		DurationSeconds: s.durationSeconds,
		PromptInfluence: s.promptInfluence,
	}

	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(s.endpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to call sound generation API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return nil, fmt.Errorf("sound generation API error: HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
	}

	audio := httpResp.Body()
	if len(audio) == 0 {
		return nil, fmt.Errorf("sound generation API returned empty audio")
	}

	return audio, nil
}
