package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ankit1478/sfx-backend/internal/domain"
	"github.com/go-resty/resty/v2"
)

// Embedder turns text into a fixed-length embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.Vector, error)
	Model() string
}

// EmbeddingService generates embeddings through the OpenAI embeddings API.
type EmbeddingService struct {
	client     *resty.Client
	endpoint   string
	model      string
	dimensions int
}

// EmbeddingConfig holds configuration for the embedding service.
type EmbeddingConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// NewEmbeddingService creates a new embedding service.
func NewEmbeddingService(cfg *EmbeddingConfig) *EmbeddingService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(30 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &EmbeddingService{
		client:     client,
		endpoint:   baseURL + "/embeddings",
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Model returns the embedding model name being used.
func (s *EmbeddingService) Model() string {
	return s.model
}

type embeddingRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	EncodingFormat string `json:"encoding_format"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Embed generates an embedding for a single text. The returned vector length
// is validated against the configured dimensions so a model mismatch is caught
// here, before it can poison the similarity scan.
func (s *EmbeddingService) Embed(ctx context.Context, text string) (domain.Vector, error) {
	req := embeddingRequest{
		Model:          s.model,
		Input:          text,
		EncodingFormat: "float",
	}

	var resp embeddingResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to call embeddings API: %w", err)
	}

	if httpResp.StatusCode() != 200 {
		if resp.Error != nil {
			return nil, fmt.Errorf("embeddings API error: %s", resp.Error.Message)
		}
		return nil, fmt.Errorf("embeddings API error: status %d", httpResp.StatusCode())
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	vector := domain.Vector(resp.Data[0].Embedding)
	if s.dimensions > 0 && len(vector) != s.dimensions {
		return nil, fmt.Errorf("unexpected embedding length: got %d, expected %d", len(vector), s.dimensions)
	}

	return vector, nil
}
