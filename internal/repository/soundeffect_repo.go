package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ankit1478/sfx-backend/internal/domain"
	"gorm.io/gorm"
)

// SoundEffectRepository handles persisted sound-effect records. The store is
// append-only from the pipeline's perspective: records are created once per
// distinct phrase and never updated or deleted.
type SoundEffectRepository struct {
	db *gorm.DB
}

// NewSoundEffectRepository creates a new SoundEffectRepository bound to db.
func NewSoundEffectRepository(db *gorm.DB) *SoundEffectRepository {
	return &SoundEffectRepository{db: db}
}

// LoadAll returns every persisted record in creation order. The typed model
// plus the Vector scanner make this a validated deserialization boundary: a
// record whose embedding column holds malformed JSON fails the load instead of
// leaking an undefined value into similarity math.
func (r *SoundEffectRepository) LoadAll(ctx context.Context) ([]domain.SoundEffect, error) {
	var effects []domain.SoundEffect
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&effects).Error; err != nil {
		return nil, fmt.Errorf("failed to load sound effect records: %w", err)
	}
	return effects, nil
}

// Create inserts a new record keyed by its exact phrase string.
func (r *SoundEffectRepository) Create(ctx context.Context, effect *domain.SoundEffect) error {
	if err := r.db.WithContext(ctx).Create(effect).Error; err != nil {
		return fmt.Errorf("failed to create sound effect record: %w", err)
	}
	return nil
}

// GetByPhrase retrieves a record by its exact phrase key.
func (r *SoundEffectRepository) GetByPhrase(ctx context.Context, phrase string) (*domain.SoundEffect, error) {
	var effect domain.SoundEffect
	if err := r.db.WithContext(ctx).First(&effect, "phrase = ?", phrase).Error; err != nil {
		return nil, err
	}
	return &effect, nil
}

// ExistsByPhrase checks whether a record exists for the exact phrase key.
func (r *SoundEffectRepository) ExistsByPhrase(ctx context.Context, phrase string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.SoundEffect{}).
		Where("phrase = ?", phrase).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns records with pagination, newest first.
func (r *SoundEffectRepository) List(ctx context.Context, limit, offset int) ([]domain.SoundEffect, error) {
	var effects []domain.SoundEffect
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&effects).Error; err != nil {
		return nil, err
	}
	return effects, nil
}

// Count returns the number of persisted records.
func (r *SoundEffectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.SoundEffect{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IsNotFound reports whether err is the record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
