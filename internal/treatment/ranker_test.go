package treatment

import (
	"math"
	"testing"

	"github.com/algo-verite/engine/internal/assess"
	"github.com/algo-verite/engine/internal/reference"
)

func testAssessment() assess.Assessment {
	return assess.Assessment{
		Severity:          0.4,
		RecoveryPotential: 0.278,
		Resilience:        0.82,
		BiologicalHarmony: 0.5,
		HealthState:       assess.StateStable,
	}
}

func TestRank_FluProtocol(t *testing.T) {
	r := NewRanker(reference.Defaults())

	got := r.Rank("FLU", []string{"FEVER", "COUGH"}, 35, testAssessment())
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2 (flu protocol lists two treatments)", len(got))
	}
	if got[0].Name != "ANTIVIRAL" || got[1].Name != "ANTIINFLAMMATORY" {
		t.Fatalf("ranking = [%s %s], want [ANTIVIRAL ANTIINFLAMMATORY]", got[0].Name, got[1].Name)
	}
	if got[0].Protocol != "PROTOCOL_STANDARD_FLU" {
		t.Fatalf("protocol = %s, want PROTOCOL_STANDARD_FLU", got[0].Protocol)
	}
	if got[0].GlobalScore < got[1].GlobalScore {
		t.Fatal("candidates not in descending score order")
	}
}

func TestRank_GlobalScoreFormula(t *testing.T) {
	r := NewRanker(reference.Defaults())
	a := testAssessment()

	got := r.Rank("MIGRAINE", []string{"HEADACHE"}, 35, a)
	if len(got) != 1 || got[0].Name != "ANALGESIC" {
		t.Fatalf("migraine candidates = %v", got)
	}

	// ANALGESIC: efficacy 0.4, delay 1. Compatibility factors:
	// ADULT response 0.7, harmony 0.5, min(0.82/0.85,1), overlap 1/2.
	compat := (0.7 + 0.5 + 0.82/0.85 + 0.5) / 4
	want := 0.4*0.4 + 0.4*compat + 0.2*(1-0.1)
	if math.Abs(got[0].GlobalScore-want) > 1e-9 {
		t.Fatalf("score = %v, want %v", got[0].GlobalScore, want)
	}
	if math.Abs(got[0].Compatibility-compat) > 1e-9 {
		t.Fatalf("compatibility = %v, want %v", got[0].Compatibility, compat)
	}
}

func TestRank_TopThreeCap(t *testing.T) {
	r := NewRanker(reference.Defaults())

	// The pneumonia protocol lists three treatments; all fit under the cap.
	got := r.Rank("PNEUMONIA", []string{"HIGH_FEVER", "DYSPNEA"}, 35, testAssessment())
	if len(got) != MaxCandidates {
		t.Fatalf("candidates = %d, want %d", len(got), MaxCandidates)
	}
}

func TestRank_UnknownPathology(t *testing.T) {
	r := NewRanker(reference.Defaults())
	if got := r.Rank("NOPE", nil, 35, testAssessment()); len(got) != 0 {
		t.Fatalf("unknown pathology yielded candidates: %v", got)
	}
}

func TestRank_CaseInsensitive(t *testing.T) {
	r := NewRanker(reference.Defaults())
	if got := r.Rank("flu", nil, 35, testAssessment()); len(got) != 2 {
		t.Fatalf("lowercase pathology candidates = %d, want 2", len(got))
	}
}

func TestSymptomOverlap(t *testing.T) {
	r := NewRanker(reference.Defaults())

	// ANTIVIRAL targets FEVER and FATIGUE.
	cases := []struct {
		symptoms []string
		want     float64
	}{
		{[]string{"FEVER", "FATIGUE"}, 1.0},
		{[]string{"FEVER"}, 0.5},
		{[]string{"COUGH"}, 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := r.symptomOverlap("ANTIVIRAL", tc.symptoms); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("overlap(%v) = %v, want %v", tc.symptoms, got, tc.want)
		}
	}

	// Treatments without a target mapping score a neutral 0.5.
	if got := r.symptomOverlap("UNMAPPED", []string{"FEVER"}); got != 0.5 {
		t.Fatalf("unmapped overlap = %v, want 0.5", got)
	}
}
