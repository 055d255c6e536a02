package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const extractionPrompt = "I need you to identify parts from the following passage that I can use to create SFX sounds with. Only include the part that I can use to create the SFX sound in a list.\n\n%s"

// ExtractionService pulls SFX-suitable phrases out of free text using an LLM
// chat completion.
type ExtractionService struct {
	client   *resty.Client
	endpoint string
	model    string
}

// ExtractionConfig holds configuration for the extraction service.
type ExtractionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewExtractionService creates a new extraction service.
func NewExtractionService(cfg *ExtractionConfig) *ExtractionService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &ExtractionService{
		client:   client,
		endpoint: baseURL + "/chat/completions",
		model:    cfg.Model,
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ExtractPhrases returns one short phrase per non-empty line of the model's
// response. List markers the model tends to prepend are stripped.
func (s *ExtractionService) ExtractPhrases(ctx context.Context, text string) ([]string, error) {
	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(extractionPrompt, text)},
		},
		MaxTokens: 100,
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to call completion API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return nil, fmt.Errorf("completion API error: HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return nil, fmt.Errorf("completion API error: HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	phrases := parsePhraseList(resp.Choices[0].Message.Content)
	if len(phrases) == 0 {
		return nil, fmt.Errorf("no phrases extracted from text")
	}

	return phrases, nil
}

// parsePhraseList splits a model response into phrases, one per line, dropping
// empties and leading bullet or numbering markers.
func parsePhraseList(content string) []string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	phrases := make([]string, 0, len(lines))
	for _, line := range lines {
		phrase := strings.TrimSpace(line)
		phrase = strings.TrimLeft(phrase, "-*• \t")
		if idx := strings.IndexAny(phrase, "."); idx > 0 && idx <= 2 && isDigits(phrase[:idx]) {
			phrase = strings.TrimSpace(phrase[idx+1:])
		}
		if phrase == "" {
			continue
		}
		phrases = append(phrases, phrase)
	}
	return phrases
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
