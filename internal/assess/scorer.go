package assess

import (
	"strings"

	"github.com/algo-verite/engine/internal/pyramid"
	"github.com/algo-verite/engine/internal/reference"
)

// #region types

// Input bundles everything the scorer needs for one patient condition.
type Input struct {
	Symptoms      []string
	SymptomCodes  []int
	PathologySeq  []int
	ProfileSeq    []int
	Pyramid       *pyramid.Pyramid
	Age           int
	Comorbidities int
	Immunity      float64
}

// Assessment is the composite condition bundle derived for one patient.
type Assessment struct {
	Severity            float64     `json:"severity"`
	RecoveryPotential   float64     `json:"recovery_potential"`
	Resilience          float64     `json:"resilience"`
	BiologicalHarmony   float64     `json:"biological_harmony"`
	HealthState         HealthState `json:"health_state"`
	AggravatingFactors  []string    `json:"aggravating_factors"`
	FavorableIndicators []string    `json:"favorable_indicators"`
}

// Scorer folds structural metrics and reference tables into composite
// domain scores. Stateless apart from the immutable tables.
type Scorer struct {
	tables reference.Tables
}

// NewScorer creates a scorer bound to a set of reference tables.
func NewScorer(tables reference.Tables) *Scorer {
	return &Scorer{tables: tables}
}

// #endregion types

// #region assess

// Assess computes the full composite assessment for one condition.
func (s *Scorer) Assess(in Input) Assessment {
	severity := s.Severity(in)
	resilience := s.Resilience(in)

	adjusted := severity * (1 - resilience*0.3)

	return Assessment{
		Severity:            severity,
		RecoveryPotential:   RecoveryPotential(in.Pyramid),
		Resilience:          resilience,
		BiologicalHarmony:   pyramid.BiologicalHarmony(in.Pyramid),
		HealthState:         ClassifyState(adjusted),
		AggravatingFactors:  s.AggravatingFactors(in),
		FavorableIndicators: FavorableIndicators(in.Pyramid),
	}
}

// #endregion assess

// #region severity

// Severity averages the mean normalized symptom severity with the pathology
// baseline, then adds a capped comorbidity penalty.
func (s *Scorer) Severity(in Input) float64 {
	if len(in.SymptomCodes) == 0 || len(in.PathologySeq) == 0 {
		return 0.5
	}

	symptomSum := 0
	for _, c := range in.SymptomCodes {
		symptomSum += c
	}
	symptomSeverity := float64(symptomSum) / (float64(len(in.SymptomCodes)) * 100)
	pathologySeverity := float64(in.PathologySeq[0]) / 100

	base := (symptomSeverity + pathologySeverity) / 2
	return clamp01(base + ComorbidityPenalty(in.Comorbidities))
}

// ComorbidityPenalty is the shared severity/duration penalty term:
// 0.1 per comorbidity, capped at 0.3.
func ComorbidityPenalty(count int) float64 {
	p := 0.1 * float64(count)
	if p > 0.3 {
		return 0.3
	}
	return p
}

// #endregion severity

// #region recovery

// RecoveryPotential averages the apex/floor harmony with a structural
// stability factor. A zero floor counts as 1 to avoid division by zero.
func RecoveryPotential(p *pyramid.Pyramid) float64 {
	if p.AscendingLevels() == 0 || p.DescendingLevels() == 0 {
		return 0.5
	}

	apex := p.Apex()
	floor := p.Floor()
	if floor == 0 {
		floor = 1
	}

	diff := apex - floor
	if diff < 0 {
		diff = -diff
	}
	max := apex
	if floor > max {
		max = floor
	}
	rel := float64(diff) / float64(max)
	if rel > 1 {
		rel = 1
	}
	harmony := 1.0 - rel

	stability := 1.0 - float64(p.DescendingLevels())/(2*float64(len(p.Base())))

	return clamp01((harmony + stability) / 2)
}

// #endregion recovery

// #region resilience

// Resilience weighs the profile baseline, the pyramid symmetry, and the
// immunity level 0.4/0.3/0.3.
func (s *Scorer) Resilience(in Input) float64 {
	baseline := 0.5
	if len(in.ProfileSeq) > 0 {
		baseline = float64(in.ProfileSeq[0]) / 100
	}

	symmetry := pyramid.Compute(in.Pyramid).Symmetry

	return clamp01(0.4*baseline + 0.3*symmetry + 0.3*in.Immunity)
}

// #endregion resilience

// #region factors

// AggravatingFactors evaluates the fixed aggravation rules for a patient.
func (s *Scorer) AggravatingFactors(in Input) []string {
	var factors []string

	if in.Comorbidities >= 3 {
		factors = append(factors, "Multiple comorbidities")
	}
	if in.Age >= 65 {
		factors = append(factors, "Advanced age")
	}
	if in.Immunity <= 0.4 {
		factors = append(factors, "Immunodepression")
	}
	for _, sym := range in.Symptoms {
		switch strings.ToUpper(sym) {
		case "SEVERE_DYSPNEA":
			factors = append(factors, "Severe respiratory distress")
		case "HIGH_FEVER":
			factors = append(factors, "Persistent high fever")
		}
	}

	return factors
}

// FavorableIndicators evaluates the fixed favorable-signal rules for a
// built pyramid.
func FavorableIndicators(p *pyramid.Pyramid) []string {
	var indicators []string

	if pyramid.BiologicalHarmony(p) > 0.8 {
		indicators = append(indicators, "High biological harmony")
	}
	if RecoveryPotential(p) > 0.7 {
		indicators = append(indicators, "High recovery potential")
	}
	if p.DescendingLevels() <= 3 {
		indicators = append(indicators, "Fast convergence toward stability")
	}

	return indicators
}

// #endregion factors

// #region helpers

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
