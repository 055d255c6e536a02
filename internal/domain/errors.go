package domain

import (
	"errors"
	"fmt"
)

// Static errors.
var (
	// ErrNoPhrases is returned when a batch contains no phrases.
	ErrNoPhrases = errors.New("phrases are required")

	// ErrEmptyPhrase is returned when a batch contains an empty or
	// whitespace-only phrase.
	ErrEmptyPhrase = errors.New("phrase cannot be empty")

	// ErrVectorLengthMismatch is returned when two vectors of different or
	// zero length are compared. The vectors are incomparable: either the
	// embedding models differ or a record is corrupted.
	ErrVectorLengthMismatch = errors.New("vectors are of unequal or zero length")

	// ErrZeroVector is returned when a compared vector has zero norm, which
	// would make cosine similarity undefined.
	ErrZeroVector = errors.New("vector has zero norm")
)

// Stage identifies the pipeline stage at which a phrase failed.
type Stage string

const (
	StageValidate Stage = "validate"
	StageEmbed    Stage = "embed"
	StageMatch    Stage = "match"
	StageGenerate Stage = "generate"
	StageStore    Stage = "store"
	StageRecord   Stage = "record"
)

// PhraseError tags a failure with the phrase and pipeline stage that produced
// it, so a caller can retry only the failed subset of a batch.
type PhraseError struct {
	Phrase string
	Stage  Stage
	Err    error
}

func (e *PhraseError) Error() string {
	return fmt.Sprintf("phrase %q failed at stage %s: %v", e.Phrase, e.Stage, e.Err)
}

func (e *PhraseError) Unwrap() error {
	return e.Err
}

// NewPhraseError wraps err with phrase and stage information.
func NewPhraseError(phrase string, stage Stage, err error) *PhraseError {
	return &PhraseError{Phrase: phrase, Stage: stage, Err: err}
}
