package predict

import (
	"math"
	"time"

	"github.com/algo-verite/engine/internal/assess"
	"github.com/algo-verite/engine/internal/pyramid"
	"github.com/algo-verite/engine/internal/reference"
	"github.com/algo-verite/engine/internal/sequence"
	"github.com/algo-verite/engine/internal/treatment"
)

// #region types

// TrajectoryPoint is the predicted condition for one day of the illness.
type TrajectoryPoint struct {
	Day      int                `json:"day"`
	Severity float64            `json:"severity"`
	State    assess.HealthState `json:"state"`
	Actions  []string           `json:"actions"`
}

// Prediction is the recovery forecast for one patient.
type Prediction struct {
	DurationDays       int               `json:"duration_days"`
	PredictedDate      time.Time         `json:"predicted_recovery_date"`
	SuccessProbability float64           `json:"success_probability"`
	Confidence         float64           `json:"confidence"`
	FavorableFactors   []string          `json:"favorable_factors"`
	Risks              []string          `json:"risks"`
	Recommendations    []string          `json:"recommendations"`
	Trajectory         []TrajectoryPoint `json:"trajectory"`
}

// Engine converts composite scores and the ranked treatments into a
// recovery prediction. Stateless apart from the immutable tables.
type Engine struct {
	tables reference.Tables
}

// NewEngine creates a prediction engine bound to a set of reference tables.
func NewEngine(tables reference.Tables) *Engine {
	return &Engine{tables: tables}
}

// #endregion types

// #region predict

// Predict builds the full recovery forecast. With no treatment candidates
// it returns the documented default prediction instead of failing.
func (e *Engine) Predict(
	pathology string,
	a assess.Assessment,
	candidates []treatment.Candidate,
	age, comorbidities int,
	p *pyramid.Pyramid,
	now time.Time,
) Prediction {
	if len(candidates) == 0 {
		return DefaultPrediction(now)
	}

	best := candidates[0]
	duration := e.Duration(pathology, a, best.GlobalScore, age, comorbidities)
	probability := e.SuccessProbability(a, best.GlobalScore, age, comorbidities)

	return Prediction{
		DurationDays:       duration,
		PredictedDate:      now.AddDate(0, 0, duration),
		SuccessProbability: probability,
		Confidence:         Confidence(a, candidates, p),
		FavorableFactors:   FavorableFactors(a),
		Risks:              Risks(a, age, comorbidities),
		Recommendations:    Recommendations(a, probability),
		Trajectory:         Trajectory(a.Severity, a.Resilience, duration),
	}
}

// DefaultPrediction is returned when no treatment candidate exists.
func DefaultPrediction(now time.Time) Prediction {
	return Prediction{
		DurationDays:       14,
		PredictedDate:      now.AddDate(0, 0, 14),
		SuccessProbability: 0.5,
		Confidence:         0.3,
		FavorableFactors:   []string{"Insufficient data for a precise analysis"},
		Risks:              []string{"Non-specific treatment recommended"},
		Recommendations:    []string{"Medical consultation recommended to refine the diagnosis"},
	}
}

// #endregion predict

// #region duration

// Duration predicts the illness length in days, never below 1. The base
// duration comes from the pathology table; severity lengthens it while
// resilience and treatment efficacy shorten it, with fixed penalties for
// seniors and comorbidities.
func (e *Engine) Duration(pathology string, a assess.Assessment, bestScore float64, age, comorbidities int) int {
	ref, _ := e.tables.Pathology(pathology)

	seniorPenalty := 0.0
	if age >= 65 {
		seniorPenalty = 0.2
	}

	factor := 1 +
		0.5*a.Severity -
		0.3*a.Resilience -
		0.4*bestScore +
		seniorPenalty +
		assess.ComorbidityPenalty(comorbidities)

	days := int(math.Round(float64(ref.MeanDurationDays) * factor))
	if days < 1 {
		return 1
	}
	return days
}

// #endregion duration

// #region probability

// SuccessProbability averages five recovery factors, then applies the
// severity and comorbidity adjustments, clamped to [0,1].
func (e *Engine) SuccessProbability(a assess.Assessment, bestScore float64, age, comorbidities int) float64 {
	profile, _ := e.tables.Profile(sequence.AgeGroup(age))

	factors := []float64{
		a.RecoveryPotential,
		bestScore,
		a.Resilience,
		a.BiologicalHarmony,
		profile.RecoveryBaseline,
	}
	sum := 0.0
	for _, f := range factors {
		sum += f
	}
	probability := sum / float64(len(factors))

	switch {
	case a.Severity > 0.8:
		probability *= 0.8
	case a.Severity < 0.3:
		probability *= 1.1
	}
	if comorbidities >= 2 {
		probability *= 0.9
	}

	return clamp01(probability)
}

// #endregion probability

// #region confidence

// Confidence averages the analysis stability signals: harmony, best
// treatment score (0.3 when none), data coherence, and the structural
// stability flag.
func Confidence(a assess.Assessment, candidates []treatment.Candidate, p *pyramid.Pyramid) float64 {
	bestScore := 0.3
	if len(candidates) > 0 {
		bestScore = candidates[0].GlobalScore
	}

	stability := 0.7
	if StructurallyStable(p) {
		stability = 1.0
	}

	return (a.BiologicalHarmony + bestScore + (1.0 - a.Severity*0.3) + stability) / 4
}

// StructurallyStable reports whether the descending floor level has at
// most two distinct values. An empty descending branch is stable.
func StructurallyStable(p *pyramid.Pyramid) bool {
	if p.DescendingLevels() == 0 {
		return true
	}
	distinct := map[int]struct{}{}
	for _, v := range p.FloorLevel() {
		distinct[v] = struct{}{}
	}
	return len(distinct) <= 2
}

// GlobalConfidence is the overall confidence for a whole analysis:
// harmony, best treatment score (0.3 when none), prediction confidence,
// the structural stability flag, and the coherence between recovery
// potential and predicted success.
func GlobalConfidence(a assess.Assessment, candidates []treatment.Candidate, pred Prediction, p *pyramid.Pyramid) float64 {
	bestScore := 0.3
	if len(candidates) > 0 {
		bestScore = candidates[0].GlobalScore
	}

	stability := 0.7
	if StructurallyStable(p) {
		stability = 1.0
	}

	coherence := 1.0 - math.Abs(a.RecoveryPotential-pred.SuccessProbability)

	return (a.BiologicalHarmony + bestScore + pred.Confidence + stability + coherence) / 5
}

// #endregion confidence

// #region trajectory

// Trajectory predicts the day-by-day severity curve from day 0 through the
// predicted duration: exponential decay plus a linear resilience-driven
// improvement, classified with the ordinal health-state thresholds.
func Trajectory(severity, resilience float64, durationDays int) []TrajectoryPoint {
	points := make([]TrajectoryPoint, 0, durationDays+1)

	for day := 0; day <= durationDays; day++ {
		score := severity
		if day > 0 {
			score = severity*math.Pow(0.9, float64(day)) - 0.15*resilience*float64(day)
			if score < 0 {
				score = 0
			}
		}
		score = clamp01(score)

		state := assess.ClassifyState(score)
		points = append(points, TrajectoryPoint{
			Day:      day,
			Severity: score,
			State:    state,
			Actions:  dayActions(day, state, score),
		})
	}

	return points
}

func dayActions(day int, state assess.HealthState, score float64) []string {
	actions := []string{"Symptom monitoring", "Adequate hydration"}

	switch {
	case day == 0:
		actions = append(actions, "Treatment start", "Strict rest")
	case state == assess.StateCritical || state == assess.StateSerious:
		actions = append(actions, "Close medical monitoring", "Vital signs check")
	case state == assess.StateModerate:
		actions = append(actions, "Relative rest", "Activity adjustment")
	case score < 0.3:
		actions = append(actions, "Gradual return to activity", "Rehabilitation")
	}

	if day%3 == 0 {
		actions = append(actions, "Progress evaluation")
	}

	return actions
}

// #endregion trajectory

// #region factor-lists

// FavorableFactors lists recovery-positive signals from an assessment.
func FavorableFactors(a assess.Assessment) []string {
	var factors []string

	if a.Resilience > 0.7 {
		factors = append(factors, "Strong patient resilience")
	}
	if a.BiologicalHarmony > 0.8 {
		factors = append(factors, "High biological harmony")
	}
	if a.RecoveryPotential > 0.7 {
		factors = append(factors, "High recovery potential")
	}
	if a.Severity < 0.4 {
		factors = append(factors, "Moderate condition severity")
	}
	if len(factors) == 0 {
		factors = append(factors, "Analysis in progress - factors to be determined")
	}

	return factors
}

// Risks lists recovery-negative signals from an assessment and profile.
func Risks(a assess.Assessment, age, comorbidities int) []string {
	var risks []string

	if a.Severity > 0.7 {
		risks = append(risks, "Severe medical condition")
	}
	if a.Resilience < 0.4 {
		risks = append(risks, "Low patient resilience")
	}
	if a.BiologicalHarmony < 0.5 {
		risks = append(risks, "Biological imbalance detected")
	}
	if comorbidities > 2 {
		risks = append(risks, "Multiple comorbidities")
	}
	if age >= 65 {
		risks = append(risks, "Advanced age (risk factor)")
	}
	if len(risks) == 0 {
		risks = append(risks, "Moderate risks - standard monitoring recommended")
	}

	return risks
}

// Recommendations lists prediction-specific guidance.
func Recommendations(a assess.Assessment, probability float64) []string {
	var recs []string

	if a.Resilience < 0.5 {
		recs = append(recs, "Immune system reinforcement recommended")
	}
	if a.BiologicalHarmony < 0.6 {
		recs = append(recs, "Holistic approach to restore biological balance")
	}
	if probability < 0.6 {
		recs = append(recs, "Contingency plan advised", "Enhanced monitoring required")
	}
	if a.HealthState == assess.StateCritical || a.HealthState == assess.StateSerious {
		recs = append(recs, "Specialized medical care recommended")
	}

	return recs
}

// #endregion factor-lists

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
