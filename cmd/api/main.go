package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ankit1478/sfx-backend/internal/api"
	"github.com/Ankit1478/sfx-backend/internal/api/handler"
	"github.com/Ankit1478/sfx-backend/internal/config"
	"github.com/Ankit1478/sfx-backend/internal/logger"
	"github.com/Ankit1478/sfx-backend/internal/repository"
	"github.com/Ankit1478/sfx-backend/internal/service"
	"github.com/Ankit1478/sfx-backend/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		File:        cfg.Log.File,
		ServiceName: "sfx-backend",
	})
	logger.SetDefault(appLogger)

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	soundEffectRepo := repository.NewSoundEffectRepository(db)

	objectStorage, err := storage.NewStorage(&storage.S3Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}

	ctx := context.Background()
	if s3Storage, ok := objectStorage.(*storage.S3Storage); ok {
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
	}

	embeddingService := service.NewEmbeddingService(&service.EmbeddingConfig{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.EmbeddingModel,
		Dimensions: cfg.OpenAI.EmbeddingDimensions,
	})

	extractionService := service.NewExtractionService(&service.ExtractionConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.ExtractionModel,
	})

	generationService := service.NewGenerationService(&service.GenerationConfig{
		APIKey:          cfg.ElevenLabs.APIKey,
		BaseURL:         cfg.ElevenLabs.BaseURL,
		DurationSeconds: cfg.ElevenLabs.DurationSeconds,
		PromptInfluence: cfg.ElevenLabs.PromptInfluence,
	})

	transcriptionService := service.NewTranscriptionService(&service.TranscriptionConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.TranscriptionModel,
	})

	dedupService := service.NewDedupService(
		soundEffectRepo,
		objectStorage,
		embeddingService,
		generationService,
		appLogger,
		&service.DedupConfig{
			ReuseThreshold: cfg.Dedup.ReuseThreshold,
			EmbedWorkers:   cfg.Dedup.EmbedWorkers,
			PartialResults: cfg.Dedup.PartialResults,
		},
	)

	router := api.SetupRouter(api.Dependencies{
		SoundEffects: handler.NewSoundEffectHandler(extractionService, dedupService, soundEffectRepo),
		Transcribe:   handler.NewTranscribeHandler(transcriptionService, "uploads"),
	}, cfg, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
