package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/Ankit1478/sfx-backend/internal/domain"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    domain.Vector
		b    domain.Vector
		want float64
	}{
		{
			name: "identical vectors",
			a:    domain.Vector{0.1, 0.2, 0.3},
			b:    domain.Vector{0.1, 0.2, 0.3},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    domain.Vector{1, 0},
			b:    domain.Vector{0, 1},
			want: 0.0,
		},
		{
			name: "opposite vectors",
			a:    domain.Vector{1, 2},
			b:    domain.Vector{-1, -2},
			want: -1.0,
		},
		{
			name: "scaled vectors are directionally identical",
			a:    domain.Vector{1, 2, 3},
			b:    domain.Vector{2, 4, 6},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosine_Bounds(t *testing.T) {
	vectors := []struct {
		a, b domain.Vector
	}{
		{domain.Vector{0.3, -0.7, 0.2}, domain.Vector{-0.1, 0.9, 0.4}},
		{domain.Vector{5, 5, 5}, domain.Vector{1, 0, 2}},
		{domain.Vector{0.001, 0.002}, domain.Vector{1000, -2000}},
	}

	for _, v := range vectors {
		got, err := Cosine(v.a, v.b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got < -1.0-1e-9 || got > 1.0+1e-9 {
			t.Errorf("Cosine(%v, %v) = %v, out of [-1, 1]", v.a, v.b, got)
		}
	}
}

func TestCosine_Symmetric(t *testing.T) {
	a := domain.Vector{0.2, -0.5, 0.8, 0.1}
	b := domain.Vector{-0.3, 0.4, 0.2, 0.9}

	ab, err := Cosine(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := Cosine(b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("Cosine is not symmetric: %v != %v", ab, ba)
	}
}

func TestCosine_Errors(t *testing.T) {
	tests := []struct {
		name    string
		a       domain.Vector
		b       domain.Vector
		wantErr error
	}{
		{
			name:    "length mismatch",
			a:       domain.Vector{1, 2, 3},
			b:       domain.Vector{1, 2},
			wantErr: domain.ErrVectorLengthMismatch,
		},
		{
			name:    "both empty",
			a:       domain.Vector{},
			b:       domain.Vector{},
			wantErr: domain.ErrVectorLengthMismatch,
		},
		{
			name:    "nil vector",
			a:       nil,
			b:       domain.Vector{1, 2},
			wantErr: domain.ErrVectorLengthMismatch,
		},
		{
			name:    "zero norm left",
			a:       domain.Vector{0, 0, 0},
			b:       domain.Vector{1, 2, 3},
			wantErr: domain.ErrZeroVector,
		},
		{
			name:    "zero norm right",
			a:       domain.Vector{1, 2, 3},
			b:       domain.Vector{0, 0, 0},
			wantErr: domain.ErrZeroVector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Cosine(tt.a, tt.b)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Cosine() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindBestMatch_EmptyCandidates(t *testing.T) {
	decision := FindBestMatch(nil, domain.Vector{1, 0}, 0.9)
	if decision.Reuse {
		t.Error("expected no reuse for empty candidate set")
	}
	if decision.Best != nil {
		t.Errorf("expected nil best match, got %+v", decision.Best)
	}
}

func TestFindBestMatch_SkipsMalformedCandidates(t *testing.T) {
	candidates := []Candidate{
		{Phrase: "ok", Embedding: domain.Vector{1, 0, 0}, AssetURL: "url-ok"},
		{Phrase: "wrong length", Embedding: domain.Vector{1, 0, 0, 0, 0}, AssetURL: "url-bad"},
		{Phrase: "missing embedding", Embedding: nil, AssetURL: "url-nil"},
		{Phrase: "zero norm", Embedding: domain.Vector{0, 0, 0}, AssetURL: "url-zero"},
	}

	decision := FindBestMatch(candidates, domain.Vector{1, 0, 0}, 0.9)
	if decision.Best == nil {
		t.Fatal("expected a best match")
	}
	if decision.Best.Phrase != "ok" {
		t.Errorf("expected only the well-formed candidate to be considered, got %q", decision.Best.Phrase)
	}
	if !decision.Reuse {
		t.Error("expected reuse for an exact-direction match")
	}
}

func TestFindBestMatch_ThresholdIsStrict(t *testing.T) {
	query := domain.Vector{1, 0}

	// cos(angle) == 0.9 exactly.
	atThreshold := domain.Vector{0.9, math.Sqrt(1 - 0.81)}
	decision := FindBestMatch([]Candidate{{Phrase: "boundary", Embedding: atThreshold, AssetURL: "u"}}, query, 0.9)
	if decision.Best == nil {
		t.Fatal("expected a best match")
	}
	if math.Abs(decision.Best.Score-0.9) > 1e-12 {
		t.Fatalf("expected score 0.9, got %v", decision.Best.Score)
	}
	if decision.Reuse {
		t.Error("similarity exactly at threshold must not be reuse")
	}

	// Nudge just above the threshold.
	above := domain.Vector{0.9000001, math.Sqrt(1 - 0.9000001*0.9000001)}
	decision = FindBestMatch([]Candidate{{Phrase: "above", Embedding: above, AssetURL: "u"}}, query, 0.9)
	if !decision.Reuse {
		t.Error("similarity just above threshold must be reuse")
	}
}

func TestFindBestMatch_TiesKeepFirstSeen(t *testing.T) {
	same := domain.Vector{1, 1}
	candidates := []Candidate{
		{Phrase: "first", Embedding: same, AssetURL: "url-first"},
		{Phrase: "second", Embedding: same, AssetURL: "url-second"},
	}

	decision := FindBestMatch(candidates, domain.Vector{1, 1}, 0.9)
	if decision.Best == nil {
		t.Fatal("expected a best match")
	}
	if decision.Best.Phrase != "first" {
		t.Errorf("tie must keep first-seen candidate, got %q", decision.Best.Phrase)
	}
}

func TestFindBestMatch_SelectsGreatest(t *testing.T) {
	candidates := []Candidate{
		{Phrase: "far", Embedding: domain.Vector{0, 1}, AssetURL: "url-far"},
		{Phrase: "near", Embedding: domain.Vector{0.95, 0.3122}, AssetURL: "url-near"},
		{Phrase: "middle", Embedding: domain.Vector{0.5, 0.866}, AssetURL: "url-middle"},
	}

	decision := FindBestMatch(candidates, domain.Vector{1, 0}, 0.9)
	if decision.Best == nil {
		t.Fatal("expected a best match")
	}
	if decision.Best.Phrase != "near" {
		t.Errorf("expected the closest candidate, got %q", decision.Best.Phrase)
	}
}
