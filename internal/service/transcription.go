package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// Transcription is the text of an audio file with per-word timestamps.
type Transcription struct {
	Text  string          `json:"text"`
	Words []WordTimestamp `json:"words"`
}

// WordTimestamp marks where one word occurs in the audio.
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TranscriptionService transcribes audio through the Whisper API.
type TranscriptionService struct {
	client   *resty.Client
	endpoint string
	model    string
}

// TranscriptionConfig holds configuration for the transcription service.
type TranscriptionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewTranscriptionService creates a new transcription service.
func NewTranscriptionService(cfg *TranscriptionConfig) *TranscriptionService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetTimeout(120 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}

	return &TranscriptionService{
		client:   client,
		endpoint: baseURL + "/audio/transcriptions",
		model:    model,
	}
}

type transcriptionResponse struct {
	Text  string          `json:"text"`
	Words []WordTimestamp `json:"words"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Transcribe transcribes the audio read from r, returning verbose output with
// word-level timestamps. The caller owns the underlying file and its cleanup.
func (s *TranscriptionService) Transcribe(ctx context.Context, filename string, r io.Reader) (*Transcription, error) {
	var resp transcriptionResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, r).
		SetFormData(map[string]string{
			"model":                     s.model,
			"response_format":           "verbose_json",
			"timestamp_granularities[]": "word",
		}).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to call transcription API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return nil, fmt.Errorf("transcription API error: HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return nil, fmt.Errorf("transcription API error: HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
	}

	return &Transcription{
		Text:  resp.Text,
		Words: resp.Words,
	}, nil
}
