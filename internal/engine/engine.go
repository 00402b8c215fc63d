package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/algo-verite/engine/internal/assess"
	"github.com/algo-verite/engine/internal/careplan"
	"github.com/algo-verite/engine/internal/predict"
	"github.com/algo-verite/engine/internal/pyramid"
	"github.com/algo-verite/engine/internal/reference"
	"github.com/algo-verite/engine/internal/sequence"
	"github.com/algo-verite/engine/internal/signature"
	"github.com/algo-verite/engine/internal/treatment"
)

// Version identifies the analysis pipeline revision stored with results.
const Version = "1.0.0"

// #region types

// Profile carries the patient attributes that feed the encoding.
type Profile struct {
	Age           int     `json:"age"`
	Comorbidities int     `json:"comorbidities"`
	ImmunityLevel float64 `json:"immunity_level"`
}

// PatientInput is the complete input for one analysis.
type PatientInput struct {
	ID        string   `json:"id,omitempty"`
	Pathology string   `json:"pathology"`
	Symptoms  []string `json:"symptoms"`
	Profile   Profile  `json:"profile"`
}

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PrognosticFactors summarizes the key drivers of the prognosis.
type PrognosticFactors struct {
	KeyResilience     float64 `json:"key_resilience"`
	KeyHarmony        float64 `json:"key_harmony"`
	KeySeverity       float64 `json:"key_severity"`
	RecoveryIndicator float64 `json:"recovery_indicator"`
	OverallState      string  `json:"overall_state"`
	GlobalPrognosis   float64 `json:"global_prognosis"`
	AggravatingCount  int     `json:"aggravating_factors"`
	FavorableCount    int     `json:"favorable_indicators"`
}

// Analysis is the full result for one patient.
type Analysis struct {
	PatientID        string                `json:"patient_id"`
	AnalyzedAt       time.Time             `json:"analyzed_at"`
	Assessment       assess.Assessment     `json:"current_condition"`
	Metrics          pyramid.Metrics       `json:"structural_metrics"`
	Signature        signature.Signature   `json:"signature"`
	BaseSequence     []int                 `json:"base_sequence"`
	Treatments       []treatment.Candidate `json:"recommended_treatments"`
	Prediction       predict.Prediction    `json:"recovery_prediction"`
	CarePlan         careplan.Plan         `json:"care_plan"`
	Prognostic       PrognosticFactors     `json:"prognostic_factors"`
	FollowUp         []string              `json:"follow_up_recommendations"`
	GlobalConfidence float64               `json:"global_confidence"`
	Warnings         []string              `json:"warnings"`
	PipelineVersion  string                `json:"pipeline_version"`
}

// Engine wires the full pipeline: encoding, pyramid construction,
// scoring, treatment ranking, prediction and care planning.
type Engine struct {
	tables    reference.Tables
	codec     *sequence.Codec
	scorer    *assess.Scorer
	ranker    *treatment.Ranker
	predictor *predict.Engine
	planner   *careplan.Builder
	log       *zap.Logger
	now       func() time.Time
}

// New creates an engine over a set of reference tables. A nil logger is
// replaced with a no-op one; the clock defaults to time.Now.
func New(tables reference.Tables, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		tables:    tables,
		codec:     sequence.NewCodec(tables),
		scorer:    assess.NewScorer(tables),
		ranker:    treatment.NewRanker(tables),
		predictor: predict.NewEngine(tables),
		planner:   careplan.NewBuilder(tables),
		log:       log,
		now:       time.Now,
	}
}

// WithClock overrides the engine clock, for deterministic results.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Tables exposes the reference tables the engine was built with.
func (e *Engine) Tables() reference.Tables { return e.tables }

// #endregion types

// #region analyze

// Analyze runs the full pipeline for one patient.
func (e *Engine) Analyze(in PatientInput) (*Analysis, error) {
	if err := e.validate(in); err != nil {
		return nil, err
	}

	pathology := strings.ToUpper(in.Pathology)
	patientID := in.ID
	if patientID == "" {
		patientID = PatientID(in)
	}
	now := e.now()

	symptomCodes := e.codec.EncodeSymptoms(in.Symptoms)
	pathologySeq, _ := e.codec.EncodePathology(pathology)
	profileSeq, _ := e.codec.EncodeProfile(in.Profile.Age, in.Profile.Comorbidities, in.Profile.ImmunityLevel)

	base := e.codec.BuildBase(in.Symptoms, pathology, in.Profile.Age, in.Profile.Comorbidities, in.Profile.ImmunityLevel)
	p, err := pyramid.Build(base)
	if err != nil {
		return nil, fmt.Errorf("build pyramid: %w", err)
	}

	metrics := pyramid.Compute(p)
	sig := signature.Compute(patientID, p, now)

	assessment := e.scorer.Assess(assess.Input{
		Symptoms:      in.Symptoms,
		SymptomCodes:  symptomCodes,
		PathologySeq:  pathologySeq,
		ProfileSeq:    profileSeq,
		Pyramid:       p,
		Age:           in.Profile.Age,
		Comorbidities: in.Profile.Comorbidities,
		Immunity:      in.Profile.ImmunityLevel,
	})

	candidates := e.ranker.Rank(pathology, in.Symptoms, in.Profile.Age, assessment)
	prediction := e.predictor.Predict(pathology, assessment, candidates,
		in.Profile.Age, in.Profile.Comorbidities, p, now)
	plan := e.planner.Build(pathology, prediction, candidates,
		in.Profile.Age, in.Profile.Comorbidities)

	result := &Analysis{
		PatientID:        patientID,
		AnalyzedAt:       now,
		Assessment:       assessment,
		Metrics:          metrics,
		Signature:        sig,
		BaseSequence:     base,
		Treatments:       candidates,
		Prediction:       prediction,
		CarePlan:         plan,
		Prognostic:       Prognostic(assessment),
		FollowUp:         careplan.FollowUpRecommendations(prediction, in.Profile.Comorbidities),
		GlobalConfidence: predict.GlobalConfidence(assessment, candidates, prediction, p),
		Warnings:         Warnings(assessment, prediction),
		PipelineVersion:  Version,
	}

	e.log.Info("patient analyzed",
		zap.String("patient_id", patientID),
		zap.String("pathology", pathology),
		zap.String("health_state", string(assessment.HealthState)),
		zap.Int("predicted_duration_days", prediction.DurationDays),
		zap.Float64("success_probability", prediction.SuccessProbability))

	return result, nil
}

// Recommend runs only the scoring and ranking stages.
func (e *Engine) Recommend(in PatientInput) ([]treatment.Candidate, error) {
	if err := e.validate(in); err != nil {
		return nil, err
	}

	pathology := strings.ToUpper(in.Pathology)
	symptomCodes := e.codec.EncodeSymptoms(in.Symptoms)
	pathologySeq, _ := e.codec.EncodePathology(pathology)
	profileSeq, _ := e.codec.EncodeProfile(in.Profile.Age, in.Profile.Comorbidities, in.Profile.ImmunityLevel)

	base := e.codec.BuildBase(in.Symptoms, pathology, in.Profile.Age, in.Profile.Comorbidities, in.Profile.ImmunityLevel)
	p, err := pyramid.Build(base)
	if err != nil {
		return nil, fmt.Errorf("build pyramid: %w", err)
	}

	assessment := e.scorer.Assess(assess.Input{
		Symptoms:      in.Symptoms,
		SymptomCodes:  symptomCodes,
		PathologySeq:  pathologySeq,
		ProfileSeq:    profileSeq,
		Pyramid:       p,
		Age:           in.Profile.Age,
		Comorbidities: in.Profile.Comorbidities,
		Immunity:      in.Profile.ImmunityLevel,
	})

	return e.ranker.Rank(pathology, in.Symptoms, in.Profile.Age, assessment), nil
}

func (e *Engine) validate(in PatientInput) error {
	if strings.TrimSpace(in.Pathology) == "" {
		return &ValidationError{Field: "pathology", Reason: "required"}
	}
	if !e.tables.HasPathology(in.Pathology) {
		return &ValidationError{Field: "pathology", Reason: fmt.Sprintf("unknown pathology %q", in.Pathology)}
	}
	if in.Profile.Age < 0 {
		return &ValidationError{Field: "profile.age", Reason: "must not be negative"}
	}
	if in.Profile.Comorbidities < 0 {
		return &ValidationError{Field: "profile.comorbidities", Reason: "must not be negative"}
	}
	if in.Profile.ImmunityLevel < 0 || in.Profile.ImmunityLevel > 1 {
		return &ValidationError{Field: "profile.immunity_level", Reason: "must be in [0,1]"}
	}
	return nil
}

// PatientID derives a stable pseudonymous identifier from the pathology
// and profile. The same input always maps to the same identifier.
func PatientID(in PatientInput) string {
	seed := fmt.Sprintf("%s|%d|%d|%.2f",
		strings.ToUpper(in.Pathology),
		in.Profile.Age, in.Profile.Comorbidities, in.Profile.ImmunityLevel)
	sum := sha256.Sum256([]byte(seed))
	return "PAT_" + hex.EncodeToString(sum[:])[:8]
}

// Prognostic folds an assessment into the summary prognostic factors.
// The global prognosis weighs recovery potential at 0.4 and inverse
// severity and resilience at 0.3 each.
func Prognostic(a assess.Assessment) PrognosticFactors {
	return PrognosticFactors{
		KeyResilience:     a.Resilience,
		KeyHarmony:        a.BiologicalHarmony,
		KeySeverity:       a.Severity,
		RecoveryIndicator: a.RecoveryPotential,
		OverallState:      a.HealthState.Meta().Label,
		GlobalPrognosis: a.RecoveryPotential*0.4 +
			(1-a.Severity)*0.3 +
			a.Resilience*0.3,
		AggravatingCount: len(a.AggravatingFactors),
		FavorableCount:   len(a.FavorableIndicators),
	}
}

// Warnings lists the alert-level findings of an analysis.
func Warnings(a assess.Assessment, pred predict.Prediction) []string {
	var warnings []string

	if a.HealthState == assess.StateCritical || a.HealthState == assess.StateSerious {
		warnings = append(warnings, "Concerning health state - medical monitoring required")
	}
	if pred.SuccessProbability < 0.4 {
		warnings = append(warnings, "Guarded prognosis - specialized care needed")
	}
	if len(a.AggravatingFactors) >= 3 {
		warnings = append(warnings, "Multiple risk factors - increased vigilance needed")
	}
	if a.Resilience < 0.3 {
		warnings = append(warnings, "Low resilience detected - potentially prolonged recovery")
	}

	return warnings
}

// #endregion analyze

// #region cohort

// CohortEntry is one patient's outcome inside a cohort analysis. Err is
// set instead of Analysis when that patient's input was rejected.
type CohortEntry struct {
	PatientID string    `json:"patient_id"`
	Analysis  *Analysis `json:"analysis,omitempty"`
	Err       string    `json:"error,omitempty"`
}

// CohortStats aggregates a cohort analysis.
type CohortStats struct {
	TotalPatients          int     `json:"total_patients"`
	SuccessfulAnalyses     int     `json:"successful_analyses"`
	SuccessRate            float64 `json:"success_rate"`
	MeanDurationDays       float64 `json:"mean_duration_days"`
	MeanSuccessProbability float64 `json:"mean_success_probability"`
	MeanConfidence         float64 `json:"mean_confidence"`
}

// CohortResult is the outcome of analyzing a group of patients.
type CohortResult struct {
	Stats           CohortStats  `json:"cohort_analysis"`
	Analyses        []CohortEntry `json:"detailed_analyses"`
	Recommendations []string     `json:"cohort_recommendations"`
}

// AnalyzeCohort analyzes every patient in the group. Individual failures
// are recorded per entry and do not abort the run.
func (e *Engine) AnalyzeCohort(patients []PatientInput) CohortResult {
	entries := make([]CohortEntry, 0, len(patients))
	var succeeded []*Analysis

	for _, in := range patients {
		a, err := e.Analyze(in)
		if err != nil {
			id := in.ID
			if id == "" {
				id = "UNKNOWN"
			}
			entries = append(entries, CohortEntry{PatientID: id, Err: err.Error()})
			continue
		}
		entries = append(entries, CohortEntry{PatientID: a.PatientID, Analysis: a})
		succeeded = append(succeeded, a)
	}

	stats := CohortStats{
		TotalPatients:      len(patients),
		SuccessfulAnalyses: len(succeeded),
	}
	if len(patients) > 0 {
		stats.SuccessRate = float64(len(succeeded)) / float64(len(patients))
	}
	if len(succeeded) > 0 {
		var duration, success, confidence float64
		for _, a := range succeeded {
			duration += float64(a.Prediction.DurationDays)
			success += a.Prediction.SuccessProbability
			confidence += a.Prediction.Confidence
		}
		n := float64(len(succeeded))
		stats.MeanDurationDays = duration / n
		stats.MeanSuccessProbability = success / n
		stats.MeanConfidence = confidence / n
	}

	return CohortResult{
		Stats:           stats,
		Analyses:        entries,
		Recommendations: cohortRecommendations(succeeded),
	}
}

func cohortRecommendations(analyses []*Analysis) []string {
	if len(analyses) == 0 {
		return []string{"Insufficient data to generate recommendations"}
	}

	var recs []string

	scores := map[string][]float64{}
	for _, a := range analyses {
		for _, c := range a.Treatments {
			scores[c.Name] = append(scores[c.Name], c.GlobalScore)
		}
	}
	if len(scores) > 0 {
		names := make([]string, 0, len(scores))
		for name := range scores {
			names = append(names, name)
		}
		sort.Strings(names)

		bestName, bestMean := "", -1.0
		for _, name := range names {
			m := mean(scores[name])
			if m > bestMean {
				bestName, bestMean = name, m
			}
		}
		recs = append(recs, fmt.Sprintf("Most effective treatment: %s (mean score: %.3f)", bestName, bestMean))
	}

	var severity float64
	for _, a := range analyses {
		severity += a.Assessment.Severity
	}
	severity /= float64(len(analyses))
	switch {
	case severity > 0.7:
		recs = append(recs, "High-risk cohort - intensive monitoring recommended")
	case severity < 0.3:
		recs = append(recs, "Low-risk cohort - standard care appropriate")
	}

	return recs
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// #endregion cohort
