package treatment

import (
	"sort"
	"strings"

	"github.com/algo-verite/engine/internal/assess"
	"github.com/algo-verite/engine/internal/reference"
	"github.com/algo-verite/engine/internal/sequence"
)

// MaxCandidates caps how many ranked treatments are returned.
const MaxCandidates = 3

// #region candidate

// Candidate is one scored treatment option for a patient.
type Candidate struct {
	Name              string   `json:"name"`
	Protocol          string   `json:"protocol"`
	BaseEfficacy      float64  `json:"base_efficacy"`
	Compatibility     float64  `json:"compatibility"`
	GlobalScore       float64  `json:"global_score"`
	ExpectedDelayDays int      `json:"expected_delay_days"`
	Indications       []string `json:"indications"`
}

// #endregion candidate

// #region ranker

// Ranker scores the fixed protocol catalogue against a patient's composite
// assessment. Stateless apart from the immutable tables.
type Ranker struct {
	tables reference.Tables
}

// NewRanker creates a ranker bound to a set of reference tables.
func NewRanker(tables reference.Tables) *Ranker {
	return &Ranker{tables: tables}
}

// Rank collects every treatment from every protocol matching the pathology,
// scores each, and returns the top candidates by global score. An empty
// result (no matching protocol) is not an error: the prediction engine
// substitutes its default plan.
func (r *Ranker) Rank(pathology string, symptoms []string, age int, a assess.Assessment) []Candidate {
	code := strings.ToUpper(pathology)

	var candidates []Candidate
	for protoName, proto := range r.tables.Protocols {
		if !containsCode(proto.Pathologies, code) {
			continue
		}
		for _, name := range proto.Treatments {
			ref, _ := r.tables.Treatment(name)

			compat := r.compatibility(ref, name, symptoms, age, a)
			score := 0.4*ref.Efficacy + 0.4*compat + 0.2*(1-float64(ref.ActionDelayDays)/10)

			candidates = append(candidates, Candidate{
				Name:              name,
				Protocol:          protoName,
				BaseEfficacy:      ref.Efficacy,
				Compatibility:     compat,
				GlobalScore:       score,
				ExpectedDelayDays: ref.ActionDelayDays,
				Indications:       r.tables.Indications(name),
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].GlobalScore != candidates[j].GlobalScore {
			return candidates[i].GlobalScore > candidates[j].GlobalScore
		}
		return candidates[i].Name < candidates[j].Name // deterministic tie-break
	})

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates
}

// #endregion ranker

// #region compatibility

// compatibility averages four personalization factors: the profile's
// treatment response, the biological harmony, the resilience ratio against
// the treatment's compatibility attribute, and the symptom-target overlap.
func (r *Ranker) compatibility(ref reference.TreatmentRef, name string, symptoms []string, age int, a assess.Assessment) float64 {
	profile, _ := r.tables.Profile(sequence.AgeGroup(age))

	resilienceRatio := 1.0
	if ref.Compatibility > 0 {
		resilienceRatio = a.Resilience / ref.Compatibility
		if resilienceRatio > 1 {
			resilienceRatio = 1
		}
	}

	factors := []float64{
		profile.TreatmentResponse,
		a.BiologicalHarmony,
		resilienceRatio,
		r.symptomOverlap(name, symptoms),
	}

	sum := 0.0
	for _, f := range factors {
		sum += f
	}
	return sum / float64(len(factors))
}

// symptomOverlap is the fraction of a treatment's target symptoms covered
// by the patient's symptoms, capped at 1. Treatments with no target mapping
// score a neutral 0.5.
func (r *Ranker) symptomOverlap(name string, symptoms []string) float64 {
	targets := r.tables.Targets(name)
	if len(targets) == 0 {
		return 0.5
	}

	matches := 0
	for _, sym := range symptoms {
		if containsCode(targets, strings.ToUpper(sym)) {
			matches++
		}
	}

	overlap := float64(matches) / float64(len(targets))
	if overlap > 1 {
		return 1
	}
	return overlap
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// #endregion compatibility
