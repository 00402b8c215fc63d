package integrity

import (
	"fmt"
	"time"

	"github.com/algo-verite/engine/internal/pyramid"
	"github.com/algo-verite/engine/internal/signature"
)

// #region types

// Status is the outcome of an integrity check.
type Status string

const (
	StatusNotFound  Status = "NOT_FOUND"
	StatusIntact    Status = "INTACT"
	StatusCorrupted Status = "CORRUPTED"
)

// Record is an archived analysis reduced to what replay needs: the name
// the signature was derived under, the base sequence, and the signature
// root recorded at analysis time.
type Record struct {
	Name          string
	Sequence      []int
	RootSignature string
}

// Result reports one verification.
type Result struct {
	Status              Status    `json:"status"`
	Name                string    `json:"name"`
	Confidence          float64   `json:"confidence"`
	OriginalSignature   string    `json:"original_signature,omitempty"`
	RecomputedSignature string    `json:"recomputed_signature,omitempty"`
	VerifiedAt          time.Time `json:"verified_at"`
}

// Archive is the lookup surface verification runs against.
type Archive interface {
	Lookup(name string) (Record, bool, error)
}

// #endregion types

// #region verify

// VerifyRecord replays the pyramid construction for a record and compares
// the recomputed signature root against the archived one. The timestamp
// never participates in the root, so replay at any time is exact.
func VerifyRecord(rec Record, now time.Time) (Result, error) {
	p, err := pyramid.Build(rec.Sequence)
	if err != nil {
		return Result{}, fmt.Errorf("replay %s: %w", rec.Name, err)
	}

	sig := signature.Compute(rec.Name, p, now)

	result := Result{
		Name:                rec.Name,
		OriginalSignature:   rec.RootSignature,
		RecomputedSignature: sig.Root,
		VerifiedAt:          now,
	}
	if sig.Root == rec.RootSignature {
		result.Status = StatusIntact
		result.Confidence = 1.0
	} else {
		result.Status = StatusCorrupted
		result.Confidence = 0.0
	}

	return result, nil
}

// Verify looks a record up in the archive and replays it. A missing name
// yields StatusNotFound, not an error.
func Verify(archive Archive, name string, now time.Time) (Result, error) {
	rec, ok, err := archive.Lookup(name)
	if err != nil {
		return Result{}, fmt.Errorf("lookup %s: %w", name, err)
	}
	if !ok {
		return Result{Status: StatusNotFound, Name: name, VerifiedAt: now}, nil
	}
	return VerifyRecord(rec, now)
}

// #endregion verify
