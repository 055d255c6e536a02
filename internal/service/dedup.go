package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Ankit1478/sfx-backend/internal/domain"
	"github.com/Ankit1478/sfx-backend/internal/logger"
	"github.com/Ankit1478/sfx-backend/internal/similarity"
	"github.com/Ankit1478/sfx-backend/internal/storage"
	"github.com/google/uuid"
)

// RecordStore is the persistence surface the pipeline needs: bulk load at
// batch start, append on generation. Nothing is ever updated or deleted.
type RecordStore interface {
	LoadAll(ctx context.Context) ([]domain.SoundEffect, error)
	Create(ctx context.Context, effect *domain.SoundEffect) error
}

// DedupService decides, per phrase, whether an existing audio asset is close
// enough to reuse, and generates plus persists a new one otherwise. One call
// to ProcessPhrases is one batch sharing one in-memory record snapshot.
type DedupService struct {
	records   RecordStore
	storage   storage.ObjectStorage
	embedder  Embedder
	generator Generator
	logger    *logger.Logger

	reuseThreshold float64
	embedWorkers   int
	partialResults bool
}

// DedupConfig holds configuration for the dedup pipeline.
type DedupConfig struct {
	// ReuseThreshold is the similarity score a candidate must strictly exceed
	// for its asset to be reused.
	ReuseThreshold float64

	// EmbedWorkers bounds the concurrency of the embedding phase.
	EmbedWorkers int

	// PartialResults switches batch failure semantics from fail-fast (the
	// whole batch errors if any phrase fails) to returning the successful
	// subset alongside the joined error.
	PartialResults bool
}

// Result is the per-phrase outcome of a batch.
type Result struct {
	Phrase     string  `json:"phrase"`
	AssetURL   string  `json:"asset_url"`
	Reused     bool    `json:"reused"`
	Similarity float64 `json:"similarity,omitempty"`
}

// NewDedupService creates a new dedup pipeline.
func NewDedupService(
	records RecordStore,
	objectStorage storage.ObjectStorage,
	embedder Embedder,
	generator Generator,
	log *logger.Logger,
	cfg *DedupConfig,
) *DedupService {
	workers := cfg.EmbedWorkers
	if workers <= 0 {
		workers = 1
	}
	return &DedupService{
		records:        records,
		storage:        objectStorage,
		embedder:       embedder,
		generator:      generator,
		logger:         log,
		reuseThreshold: cfg.ReuseThreshold,
		embedWorkers:   workers,
		partialResults: cfg.PartialResults,
	}
}

func (s *DedupService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// ProcessPhrases runs one batch. Results are in input order; in the default
// fail-fast mode any phrase failure fails the whole batch with an error
// joining every per-phrase failure, though every phrase is still attempted.
//
// The batch runs in two phases. Embeddings are computed through a bounded
// worker pool since they never touch the record snapshot. Matching,
// generation, and persistence then run strictly sequentially in input order
// against one snapshot that is extended after every new record, so two
// near-identical phrases in the same batch cannot both generate.
func (s *DedupService) ProcessPhrases(ctx context.Context, phrases []string) ([]Result, error) {
	// Validate before any external call.
	if len(phrases) == 0 {
		return nil, domain.ErrNoPhrases
	}
	for i, phrase := range phrases {
		if strings.TrimSpace(phrase) == "" {
			return nil, fmt.Errorf("phrase at index %d: %w", i, domain.ErrEmptyPhrase)
		}
	}

	batchID := uuid.New().String()
	ctx = logger.WithFields(ctx, logger.Fields{logger.FieldBatchID: batchID})
	start := time.Now()

	// One snapshot per batch. Records created by earlier phrases in this
	// batch are appended so later phrases can match against them.
	existing, err := s.records.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load record snapshot: %w", err)
	}

	snapshot := make([]similarity.Candidate, 0, len(existing)+len(phrases))
	for _, rec := range existing {
		snapshot = append(snapshot, similarity.Candidate{
			Phrase:    rec.Phrase,
			Embedding: rec.Embedding,
			AssetURL:  rec.AssetURL,
		})
	}

	s.log(ctx).WithFields(logger.Fields{
		"phrases": len(phrases),
		"records": len(snapshot),
	}).Info("Starting dedup batch")

	embeddings, embedErrs := s.embedAll(ctx, phrases)

	results := make([]Result, 0, len(phrases))
	var failures []error

	for i, phrase := range phrases {
		if embedErrs[i] != nil {
			failures = append(failures, domain.NewPhraseError(phrase, domain.StageEmbed, embedErrs[i]))
			continue
		}

		result, candidate, err := s.processPhrase(ctx, phrase, embeddings[i], snapshot)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if candidate != nil {
			snapshot = append(snapshot, *candidate)
		}
		results = append(results, *result)
	}

	s.log(ctx).WithFields(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		"succeeded":            len(results),
		"failed":               len(failures),
	}).Info("Dedup batch completed")

	if len(failures) > 0 {
		err := errors.Join(failures...)
		if s.partialResults {
			return results, err
		}
		return nil, err
	}

	return results, nil
}

// embedAll computes all embeddings through a bounded worker pool. Failures
// are reported per index so one bad phrase never blocks the rest.
func (s *DedupService) embedAll(ctx context.Context, phrases []string) ([]domain.Vector, []error) {
	embeddings := make([]domain.Vector, len(phrases))
	errs := make([]error, len(phrases))

	indexChan := make(chan int, len(phrases))
	for i := range phrases {
		indexChan <- i
	}
	close(indexChan)

	workers := s.embedWorkers
	if workers > len(phrases) {
		workers = len(phrases)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexChan {
				if ctx.Err() != nil {
					errs[i] = ctx.Err()
					continue
				}
				embeddings[i], errs[i] = s.embedder.Embed(ctx, phrases[i])
			}
		}()
	}
	wg.Wait()

	return embeddings, errs
}

// processPhrase matches one embedded phrase against the snapshot and either
// reuses the best match or generates, uploads, and records a new asset. The
// returned candidate is non-nil only when a new record was created.
func (s *DedupService) processPhrase(ctx context.Context, phrase string, embedding domain.Vector, snapshot []similarity.Candidate) (*Result, *similarity.Candidate, error) {
	start := time.Now()
	decision := similarity.FindBestMatch(snapshot, embedding, s.reuseThreshold)

	if decision.Reuse {
		s.log(ctx).WithFields(logger.Fields{
			logger.FieldPhrase:     phrase,
			logger.FieldDecision:   "reuse",
			logger.FieldSimilarity: decision.Best.Score,
			"matched_phrase":       decision.Best.Phrase,
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
		}).Info("Reusing existing sound effect")

		return &Result{
			Phrase:     phrase,
			AssetURL:   decision.Best.AssetURL,
			Reused:     true,
			Similarity: decision.Best.Score,
		}, nil, nil
	}

	bestScore := 0.0
	if decision.Best != nil {
		bestScore = decision.Best.Score
	}
	s.log(ctx).WithFields(logger.Fields{
		logger.FieldPhrase:     phrase,
		logger.FieldDecision:   "generate",
		logger.FieldSimilarity: bestScore,
	}).Info("Generating new sound effect")

	audio, err := s.generator.Generate(ctx, phrase)
	if err != nil {
		return nil, nil, domain.NewPhraseError(phrase, domain.StageGenerate, err)
	}

	// The asset must be durably stored before its record is written, so a
	// record can never reference a missing blob.
	key := storageKey(phrase)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(audio), int64(len(audio)), "audio/mpeg"); err != nil {
		return nil, nil, domain.NewPhraseError(phrase, domain.StageStore, err)
	}
	assetURL := s.storage.GetURL(key)

	record := &domain.SoundEffect{
		Phrase:         phrase,
		Embedding:      embedding,
		AssetURL:       assetURL,
		StorageKey:     key,
		EmbeddingModel: s.embedder.Model(),
		CreatedAt:      time.Now(),
	}

	if err := s.records.Create(ctx, record); err != nil {
		// Roll back the orphaned blob; the record write is the commit point.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log(ctx).WithFields(logger.Fields{
				"storage_key": key,
			}).WithError(delErr).Error("Failed to roll back asset upload")
		}
		return nil, nil, domain.NewPhraseError(phrase, domain.StageRecord, err)
	}

	s.log(ctx).WithFields(logger.Fields{
		logger.FieldPhrase:     phrase,
		logger.FieldSize:       len(audio),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info("Created new sound effect")

	return &Result{
			Phrase:   phrase,
			AssetURL: assetURL,
		}, &similarity.Candidate{
			Phrase:    phrase,
			Embedding: embedding,
			AssetURL:  assetURL,
		}, nil
}

// storageKey derives a collision-resistant object key. The uuid fragment
// disambiguates repeated generations of the same literal phrase, even within
// the same millisecond.
func storageKey(phrase string) string {
	return fmt.Sprintf("sound_effects/%s_%d_%s.mp3",
		slugify(phrase), time.Now().UnixMilli(), uuid.New().String()[:8])
}

// slugify reduces a phrase to a short, object-key-safe fragment.
func slugify(phrase string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(phrase) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
		if b.Len() >= 48 {
			break
		}
	}
	if b.Len() == 0 {
		return "sfx"
	}
	return b.String()
}
