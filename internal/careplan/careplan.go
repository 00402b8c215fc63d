package careplan

import (
	"fmt"

	"github.com/algo-verite/engine/internal/assess"
	"github.com/algo-verite/engine/internal/predict"
	"github.com/algo-verite/engine/internal/reference"
	"github.com/algo-verite/engine/internal/treatment"
)

// #region types

// Checkpoint is one scheduled follow-up point in a care plan.
type Checkpoint struct {
	Day       int      `json:"day"`
	Objective string   `json:"objective"`
	Actions   []string `json:"actions"`
	Criteria  []string `json:"evaluation_criteria"`
}

// Contingency describes the fallback when the main treatment stalls.
type Contingency struct {
	Alternative string   `json:"alternative_treatment"`
	Trigger     string   `json:"trigger"`
	Conditions  []string `json:"activation_conditions,omitempty"`
	Actions     []string `json:"actions"`
}

// Plan is the personalized care plan built from the prediction and the
// ranked treatments.
type Plan struct {
	MainTreatment       string       `json:"main_treatment"`
	Protocol            string       `json:"protocol"`
	DurationDays        int          `json:"recommended_duration_days"`
	Posology            string       `json:"recommended_posology"`
	Schedule            []Checkpoint `json:"follow_up_schedule"`
	ImprovementCriteria []string     `json:"improvement_criteria"`
	ImmediateActions    []string     `json:"immediate_actions"`
	Contingency         Contingency  `json:"contingency"`
	ComplementaryAdvice []string     `json:"complementary_advice"`
}

// Builder assembles care plans from prediction output. Stateless apart
// from the immutable tables.
type Builder struct {
	tables reference.Tables
}

// NewBuilder creates a care plan builder bound to a set of reference tables.
func NewBuilder(tables reference.Tables) *Builder {
	return &Builder{tables: tables}
}

// #endregion types

// #region build

// Build assembles the care plan. With no treatment candidates it returns
// the documented default plan instead of failing.
func (b *Builder) Build(
	pathology string,
	pred predict.Prediction,
	candidates []treatment.Candidate,
	age, comorbidities int,
) Plan {
	if len(candidates) == 0 {
		return DefaultPlan()
	}

	best := candidates[0]

	return Plan{
		MainTreatment:       best.Name,
		Protocol:            best.Protocol,
		DurationDays:        pred.DurationDays,
		Posology:            b.Posology(best.Name, age),
		Schedule:            Schedule(pred.DurationDays, pred.Trajectory),
		ImprovementCriteria: ImprovementCriteria(pathology),
		ImmediateActions:    ImmediateActions(pathology, pred.SuccessProbability),
		Contingency:         PlanContingency(candidates, pred.DurationDays),
		ComplementaryAdvice: ComplementaryAdvice(pathology, age),
	}
}

// DefaultPlan is returned when no treatment candidate exists.
func DefaultPlan() Plan {
	return Plan{
		MainTreatment: "Symptomatic care",
		Protocol:      "PROTOCOL_STANDARD",
		DurationDays:  7,
		Posology:      "According to symptoms",
		Schedule: []Checkpoint{
			{Day: 3, Objective: "D3: General condition evaluation", Actions: []string{"General condition evaluation"}},
		},
		ImprovementCriteria: []string{"Reduction of the main symptoms"},
		ImmediateActions:    []string{"Rest", "Hydration", "Monitoring"},
		Contingency:         Contingency{Actions: []string{"Consult if the condition worsens"}},
		ComplementaryAdvice: []string{"Medical consultation for a precise diagnosis"},
	}
}

// #endregion build

// #region posology

// Posology resolves the recommended posology for a treatment, with the
// senior adjustment for antibiotics and anti-inflammatories.
func (b *Builder) Posology(treatmentName string, age int) string {
	base := b.tables.Posology(treatmentName)

	if age >= 65 {
		switch treatmentName {
		case "ANTIBIOTIC", "ANTIINFLAMMATORY":
			return base + " (dose adjusted for senior)"
		}
	}

	return base
}

// #endregion posology

// #region schedule

// Schedule selects the strategic checkpoint days from the predicted
// trajectory and attaches per-day objectives and evaluation criteria.
func Schedule(durationDays int, trajectory []predict.TrajectoryPoint) []Checkpoint {
	byDay := make(map[int]predict.TrajectoryPoint, len(trajectory))
	for _, pt := range trajectory {
		byDay[pt.Day] = pt
	}

	var schedule []Checkpoint
	for _, day := range checkpointDays(durationDays) {
		pt, ok := byDay[day]
		if !ok {
			continue
		}
		schedule = append(schedule, Checkpoint{
			Day:       day,
			Objective: dayObjective(day, pt.State),
			Actions:   pt.Actions,
			Criteria:  evaluationCriteria(day),
		})
	}

	return schedule
}

func checkpointDays(durationDays int) []int {
	switch {
	case durationDays <= 3:
		days := make([]int, 0, durationDays)
		for d := 1; d <= durationDays; d++ {
			days = append(days, d)
		}
		return days
	case durationDays <= 7:
		return []int{1, 3, durationDays}
	default:
		return []int{1, 3, 7, durationDays / 2, durationDays}
	}
}

func dayObjective(day int, state assess.HealthState) string {
	objectives := map[assess.HealthState]string{
		assess.StateCritical:  "Condition stabilization",
		assess.StateSerious:   "Improvement of the main symptoms",
		assess.StateModerate:  "Reduction of symptom intensity",
		assess.StateStable:    "Consolidation of the improvement",
		assess.StateExcellent: "Complete recovery",
	}

	base, ok := objectives[state]
	if !ok {
		base = "Continued improvement"
	}

	switch {
	case day == 1:
		return "D1: " + base
	case day <= 3:
		return fmt.Sprintf("D%d: Treatment response evaluation", day)
	default:
		return fmt.Sprintf("D%d: %s", day, base)
	}
}

func evaluationCriteria(day int) []string {
	criteria := []string{
		"Symptom intensity",
		"Vital signs",
		"Treatment tolerance",
	}
	if day >= 3 {
		criteria = append(criteria, "Functional improvement", "Quality of life")
	}
	if day >= 7 {
		criteria = append(criteria, "Complication prevention")
	}
	return criteria
}

// #endregion schedule

// #region criteria-actions

// ImprovementCriteria lists the signals to watch for, general plus
// pathology-specific.
func ImprovementCriteria(pathology string) []string {
	criteria := []string{
		"Reduction of symptom intensity",
		"Improvement of vital signs",
		"Return of appetite and sleep",
		"Increased energy level",
	}

	specific := map[string][]string{
		"FLU":        {"Fever resolution", "Improvement of general condition"},
		"COVID":      {"Respiratory improvement", "Return of smell/taste"},
		"BRONCHITIS": {"Cough reduction", "Improved expectoration"},
		"PNEUMONIA":  {"Radiological normalization", "Disappearance of crackles"},
		"MIGRAINE":   {"Headache cessation", "Return to normal activities"},
	}

	return append(criteria, specific[pathology]...)
}

// ImmediateActions lists the actions to take right away, tiered by the
// predicted success probability.
func ImmediateActions(pathology string, probability float64) []string {
	actions := []string{
		"Start of the recommended treatment",
		"Monitoring of key parameters",
		"Patient briefing on the care plan",
	}

	if probability < 0.7 {
		actions = append(actions,
			"Preparation of a contingency plan",
			"Enhanced monitoring during the first days")
	}
	if probability < 0.5 {
		actions = append(actions,
			"Specialist consultation recommended",
			"Hospital evaluation to be considered")
	}

	switch pathology {
	case "COVID", "PNEUMONIA":
		actions = append(actions, "Pulse oximetry monitoring")
	case "MIGRAINE":
		actions = append(actions, "Quiet and dark environment")
	}

	return actions
}

// PlanContingency picks the fallback: the second-ranked treatment when
// one exists, standard supportive care otherwise.
func PlanContingency(candidates []treatment.Candidate, durationDays int) Contingency {
	if len(candidates) > 1 {
		trigger := durationDays / 2
		if trigger > 3 {
			trigger = 3
		}
		return Contingency{
			Alternative: candidates[1].Name,
			Trigger:     fmt.Sprintf("If no improvement after %d days", trigger),
			Conditions: []string{
				"Worsening of symptoms",
				"Appearance of new symptoms",
				"No improvement after the defined delay",
			},
			Actions: []string{"Full reevaluation", "Protocol change", "Medical consultation"},
		}
	}

	return Contingency{
		Alternative: "Standard supportive care",
		Trigger:     "If the condition deteriorates at any time",
		Conditions: []string{
			"Significant worsening",
			"Appearance of complication signs",
		},
		Actions: []string{"Urgent medical consultation", "Diagnosis review", "Specialized care"},
	}
}

// ComplementaryAdvice lists general plus pathology- and age-specific advice.
func ComplementaryAdvice(pathology string, age int) []string {
	advice := []string{
		"Rest adapted to the health condition",
		"Sufficient hydration",
		"Balanced and adapted nutrition",
	}

	switch pathology {
	case "FLU", "COVID":
		advice = append(advice, "Isolation to prevent transmission")
	case "BRONCHITIS", "PNEUMONIA":
		advice = append(advice, "Avoidance of respiratory irritants")
	case "MIGRAINE":
		advice = append(advice, "Management of stress and trigger factors")
	}

	if age >= 65 {
		advice = append(advice,
			"Particular attention to fall prevention",
			"Environment adaptation")
	}

	return advice
}

// FollowUpRecommendations lists the follow-up guidance attached to a
// full analysis.
func FollowUpRecommendations(pred predict.Prediction, comorbidities int) []string {
	recs := []string{
		fmt.Sprintf("Medical follow-up for %d days", pred.DurationDays),
		"Immediate reporting of any worsening",
		"Strict adherence to the prescribed treatment",
		"Keeping a symptom diary",
	}

	if pred.SuccessProbability < 0.7 {
		recs = append(recs,
			"Close monitoring recommended",
			"Plan a control consultation at D+3")
	}
	if pred.SuccessProbability < 0.5 {
		recs = append(recs,
			"Consider hospitalization if the condition stagnates",
			"Set up intensive supportive care")
	}
	if comorbidities > 0 {
		recs = append(recs, "Particular monitoring of comorbidities")
	}

	return recs
}

// #endregion criteria-actions
