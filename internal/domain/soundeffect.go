package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Vector is an embedding vector stored as JSON in the database.
// Two vectors are only comparable when they have the same length.
type Vector []float64

// Value implements the driver.Valuer interface for database serialization.
func (v Vector) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (v *Vector) Scan(value interface{}) error {
	if value == nil {
		*v = Vector{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan Vector")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, v)
}

// SoundEffect is one generated audio asset keyed by the exact phrase that
// produced it. Records are append-only: created once per distinct phrase and
// never updated or deleted. The phrase key is only a storage address; reuse
// decisions are made by embedding similarity, not by key equality.
type SoundEffect struct {
	Phrase         string    `gorm:"type:text;primaryKey" json:"phrase"`
	Embedding      Vector    `gorm:"type:text;not null" json:"embedding,omitempty"`
	AssetURL       string    `gorm:"type:text;not null" json:"asset_url"`
	StorageKey     string    `gorm:"type:text" json:"storage_key,omitempty"`
	EmbeddingModel string    `gorm:"type:text" json:"embedding_model,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the database table name for SoundEffect.
func (SoundEffect) TableName() string {
	return "sound_effects"
}
