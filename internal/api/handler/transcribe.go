package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Ankit1478/sfx-backend/internal/logger"
	"github.com/Ankit1478/sfx-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Transcriber is the transcription capability the handler consumes.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, r io.Reader) (*service.Transcription, error)
}

// TranscribeHandler handles audio transcription uploads.
type TranscribeHandler struct {
	transcriber Transcriber
	uploadDir   string
}

// NewTranscribeHandler creates a new transcription handler. Uploads are
// spooled to uploadDir and removed after the call, success or not.
func NewTranscribeHandler(transcriber Transcriber, uploadDir string) *TranscribeHandler {
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	return &TranscribeHandler{
		transcriber: transcriber,
		uploadDir:   uploadDir,
	}
}

// Transcribe handles POST /api/v1/transcribe.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio file is required"})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	tmpPath := filepath.Join(h.uploadDir, uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save uploaded file"})
		return
	}
	// The uploaded temp file is deleted regardless of transcription outcome.
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			logger.FromContext(c.Request.Context()).WithError(err).Error("Failed to delete uploaded file")
		}
	}()

	f, err := os.Open(tmpPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	result, err := h.transcriber.Transcribe(c.Request.Context(), file.Filename, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transcribe audio: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcription": gin.H{
		"transcription": result.Text,
		"timestamps":    result.Words,
	}})
}
