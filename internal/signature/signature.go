package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/algo-verite/engine/internal/pyramid"
)

// Marker prefixes every root signature.
const Marker = "VERITE-"

// rootLen and convergenceLen are the hex-digit lengths kept from each digest.
const (
	rootLen        = 16
	convergenceLen = 16
)

// #region signature-struct

// Signature is the reproducible integrity fingerprint of a named pyramid.
// GeneratedAt is metadata only and never enters the hashed payload.
type Signature struct {
	Root            string    `json:"root"`
	ConvergenceHash string    `json:"convergence_hash"`
	Apex            int       `json:"apex"`
	Floor           int       `json:"floor"`
	TotalLevels     int       `json:"total_levels"`
	Symmetry        float64   `json:"symmetry"`
	HarmonyRatio    float64   `json:"harmony_ratio"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// #endregion signature-struct

// #region compute

// Compute derives the signature for a named pyramid. Pure except for the
// GeneratedAt timestamp: identical name and pyramid always produce the
// same Root and ConvergenceHash.
//
// The root digest covers the name followed by every ascending value in
// canonical level order (apex level first). Level order is semantically
// significant: reordering levels changes the digest.
func Compute(name string, p *pyramid.Pyramid, now time.Time) Signature {
	apex := p.Apex()
	floor := p.Floor()
	base := p.Base()
	metrics := pyramid.Compute(p)

	var sb strings.Builder
	sb.WriteString(name)
	for _, v := range p.AscendingValues() {
		sb.WriteString(strconv.Itoa(v))
	}
	rootDigest := sha256.Sum256([]byte(sb.String()))

	convPayload := fmt.Sprintf("%d:%d:%d:%d", apex, floor, base[0], base[len(base)-1])
	convDigest := sha256.Sum256([]byte(convPayload))

	return Signature{
		Root:            Marker + hex.EncodeToString(rootDigest[:])[:rootLen],
		ConvergenceHash: hex.EncodeToString(convDigest[:])[:convergenceLen],
		Apex:            apex,
		Floor:           floor,
		TotalLevels:     p.TotalLevels(),
		Symmetry:        metrics.Symmetry,
		HarmonyRatio:    pyramid.HarmonyRatio(apex, floor),
		GeneratedAt:     now,
	}
}

// #endregion compute
