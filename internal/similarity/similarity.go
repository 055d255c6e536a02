// Package similarity implements cosine-similarity matching of embedding
// vectors against a candidate set. This is the decision core of the semantic
// dedup cache: a full linear scan, no index, no early exit.
package similarity

import (
	"math"

	"github.com/Ankit1478/sfx-backend/internal/domain"
)

// Candidate is one existing record considered for reuse.
type Candidate struct {
	Phrase    string
	Embedding domain.Vector
	AssetURL  string
}

// Match is the best candidate found for a query vector.
type Match struct {
	Phrase   string
	Score    float64
	AssetURL string
}

// Decision is the outcome of a best-match scan. Reuse is true only when the
// best score strictly exceeds the threshold.
type Decision struct {
	Best  *Match
	Reuse bool
}

// Cosine computes the cosine similarity between two vectors of equal,
// non-zero length. Accumulation is done in float64. A zero-norm vector makes
// the measure undefined and is reported as an error rather than producing NaN.
func Cosine(a, b domain.Vector) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, domain.ErrVectorLengthMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0, domain.ErrZeroVector
	}

	return dot / denom, nil
}

// FindBestMatch scans every candidate and returns the one with the strictly
// greatest similarity to query. Ties keep the first-seen candidate, so the
// result is stable with respect to candidate order. Candidates with a missing
// or length-mismatched embedding are skipped: one corrupted record must not
// abort matching against the rest.
func FindBestMatch(candidates []Candidate, query domain.Vector, threshold float64) Decision {
	var best *Match

	for _, c := range candidates {
		score, err := Cosine(c.Embedding, query)
		if err != nil {
			continue
		}

		if best == nil || score > best.Score {
			best = &Match{
				Phrase:   c.Phrase,
				Score:    score,
				AssetURL: c.AssetURL,
			}
		}
	}

	return Decision{
		Best:  best,
		Reuse: best != nil && best.Score > threshold,
	}
}
