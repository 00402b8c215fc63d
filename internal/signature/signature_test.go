package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/algo-verite/engine/internal/pyramid"
)

func buildPyramid(t *testing.T, base []int) *pyramid.Pyramid {
	t.Helper()
	p, err := pyramid.Build(base)
	if err != nil {
		t.Fatalf("build %v: %v", base, err)
	}
	return p
}

func TestCompute_Deterministic(t *testing.T) {
	p := buildPyramid(t, []int{3, 5, 7, 9})

	a := Compute("PAT_1234", p, time.Unix(0, 0))
	b := Compute("PAT_1234", p, time.Unix(1_700_000_000, 0))

	// The timestamp is metadata only.
	if a.Root != b.Root {
		t.Fatalf("roots differ across timestamps: %s vs %s", a.Root, b.Root)
	}
	if a.ConvergenceHash != b.ConvergenceHash {
		t.Fatalf("convergence hashes differ: %s vs %s", a.ConvergenceHash, b.ConvergenceHash)
	}
	if !b.GeneratedAt.Equal(time.Unix(1_700_000_000, 0)) {
		t.Fatalf("generated-at not carried: %v", b.GeneratedAt)
	}
}

func TestCompute_RootFormat(t *testing.T) {
	sig := Compute("PAT_1234", buildPyramid(t, []int{3, 5, 7, 9}), time.Now())

	if !strings.HasPrefix(sig.Root, Marker) {
		t.Fatalf("root %q missing %q prefix", sig.Root, Marker)
	}
	if got := len(strings.TrimPrefix(sig.Root, Marker)); got != 16 {
		t.Fatalf("root digest length = %d, want 16", got)
	}
	if len(sig.ConvergenceHash) != 16 {
		t.Fatalf("convergence hash length = %d, want 16", len(sig.ConvergenceHash))
	}
}

func TestCompute_RootPayload(t *testing.T) {
	p := buildPyramid(t, []int{1, 2, 3, 4, 5})

	// Canonical order: ascending values apex level first.
	sum := sha256.Sum256([]byte("X" + "48" + "20" + "28" + "8" + "12" + "16" + "3" + "5" + "7" + "9"))
	want := Marker + hex.EncodeToString(sum[:])[:16]

	if sig := Compute("X", p, time.Now()); sig.Root != want {
		t.Fatalf("root = %s, want %s", sig.Root, want)
	}
}

func TestCompute_NameChangesRoot(t *testing.T) {
	p := buildPyramid(t, []int{3, 5, 7, 9})
	if Compute("A", p, time.Now()).Root == Compute("B", p, time.Now()).Root {
		t.Fatal("different names must produce different roots")
	}
}

func TestCompute_ConvergencePayload(t *testing.T) {
	p := buildPyramid(t, []int{3, 5, 7, 9})
	sig := Compute("PAT", p, time.Now())

	// apex:floor:first:last
	sum := sha256.Sum256([]byte("48:0:3:9"))
	if want := hex.EncodeToString(sum[:])[:16]; sig.ConvergenceHash != want {
		t.Fatalf("convergence = %s, want %s", sig.ConvergenceHash, want)
	}

	if sig.Apex != 48 || sig.Floor != 0 {
		t.Fatalf("apex=%d floor=%d, want 48/0", sig.Apex, sig.Floor)
	}
	if sig.TotalLevels != 7 {
		t.Fatalf("total levels = %d, want 7", sig.TotalLevels)
	}
}
