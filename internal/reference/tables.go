package reference

import "strings"

// #region defaults

// Fallback records substituted when an internal lookup misses. Kept as
// package-level values so every call site shares the same defaults.
var (
	defaultPathology = PathologyRef{BaseSeverity: 0.5, MeanDurationDays: 10, Resilience: 0.5}
	defaultTreatment = TreatmentRef{Efficacy: 0.5, ActionDelayDays: 5, Compatibility: 0.5}
	defaultProfile   = ProfileRef{Resilience: 0.7, TreatmentResponse: 0.7, RecoveryBaseline: 0.7}
)

// DefaultSymptomWeight is the severity assumed for unrecognized symptom codes.
const DefaultSymptomWeight = 0.3

// #endregion defaults

// #region accessors

// Pathology returns the reference record for an uppercase pathology code.
// defaulted reports whether the fallback record was substituted.
func (t Tables) Pathology(code string) (ref PathologyRef, defaulted bool) {
	if r, ok := t.Pathologies[strings.ToUpper(code)]; ok {
		return r, false
	}
	return defaultPathology, true
}

// HasPathology reports whether a pathology code is present in the table.
// Used by entry-point validation, which is strict where internal lookups are not.
func (t Tables) HasPathology(code string) bool {
	_, ok := t.Pathologies[strings.ToUpper(code)]
	return ok
}

// Treatment returns the reference record for a treatment code.
func (t Tables) Treatment(code string) (ref TreatmentRef, defaulted bool) {
	if r, ok := t.Treatments[strings.ToUpper(code)]; ok {
		return r, false
	}
	return defaultTreatment, true
}

// Profile returns the reference record for a profile group key.
func (t Tables) Profile(group string) (ref ProfileRef, defaulted bool) {
	if r, ok := t.Profiles[strings.ToUpper(group)]; ok {
		return r, false
	}
	return defaultProfile, true
}

// SymptomWeight returns the presumed severity weight for a symptom code.
func (t Tables) SymptomWeight(code string) (weight float64, defaulted bool) {
	if w, ok := t.SymptomSeverity[strings.ToUpper(code)]; ok {
		return w, false
	}
	return DefaultSymptomWeight, true
}

// Targets returns the symptom codes a treatment is mapped against,
// or nil when the treatment has no target mapping.
func (t Tables) Targets(treatment string) []string {
	return t.TreatmentTargets[strings.ToUpper(treatment)]
}

// Indications returns the fixed indication strings for a treatment.
func (t Tables) Indications(treatment string) []string {
	if ind, ok := t.TreatmentIndications[strings.ToUpper(treatment)]; ok {
		return ind
	}
	return []string{"Symptomatic treatment"}
}

// Posology returns the recommended dosage text for a treatment.
func (t Tables) Posology(treatment string) string {
	if p, ok := t.Posologies[strings.ToUpper(treatment)]; ok {
		return p
	}
	return "As medically prescribed"
}

// #endregion accessors

// #region default-tables

// Defaults returns the compiled-in reference tables.
func Defaults() Tables {
	return Tables{
		Pathologies: map[string]PathologyRef{
			"FLU": {
				BaseSeverity: 0.4, MeanDurationDays: 7, Resilience: 0.8,
				TypicalSymptoms: []string{"FEVER", "COUGH", "FATIGUE", "MUSCLE_PAIN"},
			},
			"COVID": {
				BaseSeverity: 0.7, MeanDurationDays: 14, Resilience: 0.6,
				TypicalSymptoms: []string{"FEVER", "COUGH", "DYSPNEA", "ANOSMIA", "FATIGUE"},
			},
			"BRONCHITIS": {
				BaseSeverity: 0.5, MeanDurationDays: 10, Resilience: 0.7,
				TypicalSymptoms: []string{"COUGH", "EXPECTORATION", "DYSPNEA"},
			},
			"PNEUMONIA": {
				BaseSeverity: 0.8, MeanDurationDays: 21, Resilience: 0.5,
				TypicalSymptoms: []string{"HIGH_FEVER", "WET_COUGH", "CHEST_PAIN", "DYSPNEA"},
			},
			"MIGRAINE": {
				BaseSeverity: 0.3, MeanDurationDays: 2, Resilience: 0.9,
				TypicalSymptoms: []string{"HEADACHE", "PHOTOPHOBIA", "NAUSEA"},
			},
		},
		Treatments: map[string]TreatmentRef{
			"ANTIVIRAL":        {Efficacy: 0.7, ActionDelayDays: 2, Compatibility: 0.8, Pathologies: []string{"FLU", "COVID"}},
			"ANTIBIOTIC":       {Efficacy: 0.8, ActionDelayDays: 3, Compatibility: 0.7, Pathologies: []string{"BRONCHITIS", "PNEUMONIA"}},
			"ANTIINFLAMMATORY": {Efficacy: 0.6, ActionDelayDays: 1, Compatibility: 0.9, Pathologies: []string{"FLU", "COVID", "BRONCHITIS", "PNEUMONIA"}},
			"IMMUNOSTIMULANT":  {Efficacy: 0.5, ActionDelayDays: 5, Compatibility: 0.95, Pathologies: []string{"FLU", "COVID"}},
			"ANALGESIC":        {Efficacy: 0.4, ActionDelayDays: 1, Compatibility: 0.85, Pathologies: []string{"MIGRAINE", "FLU"}},
			"BRONCHODILATOR":   {Efficacy: 0.7, ActionDelayDays: 2, Compatibility: 0.8, Pathologies: []string{"BRONCHITIS", "PNEUMONIA"}},
		},
		Profiles: map[string]ProfileRef{
			"YOUNG":             {Resilience: 0.9, TreatmentResponse: 0.8, RecoveryBaseline: 0.85, AgeMin: 0, AgeMax: 25},
			"ADULT":             {Resilience: 0.7, TreatmentResponse: 0.7, RecoveryBaseline: 0.7, AgeMin: 26, AgeMax: 60},
			"SENIOR":            {Resilience: 0.5, TreatmentResponse: 0.6, RecoveryBaseline: 0.5, AgeMin: 61, AgeMax: 120},
			"IMMUNOCOMPROMISED": {Resilience: 0.3, TreatmentResponse: 0.4, RecoveryBaseline: 0.3, AgeMin: 0, AgeMax: 120},
		},
		Protocols: map[string]ProtocolRef{
			"PROTOCOL_STANDARD_FLU": {
				Pathologies: []string{"FLU"}, Treatments: []string{"ANTIVIRAL", "ANTIINFLAMMATORY"},
				MeanDurationDays: 7, ExpectedEfficacy: 0.75,
				Conditions: []string{"FEVER_BELOW_39C", "NO_RESPIRATORY_DISTRESS"},
			},
			"PROTOCOL_INTENSIVE_COVID": {
				Pathologies: []string{"COVID"}, Treatments: []string{"ANTIVIRAL", "ANTIINFLAMMATORY", "IMMUNOSTIMULANT"},
				MeanDurationDays: 14, ExpectedEfficacy: 0.65,
				Conditions: []string{"ALL_CONFIRMED_CASES"},
			},
			"PROTOCOL_BRONCHITIS": {
				Pathologies: []string{"BRONCHITIS"}, Treatments: []string{"ANTIBIOTIC", "BRONCHODILATOR"},
				MeanDurationDays: 10, ExpectedEfficacy: 0.80,
				Conditions: []string{"PURULENT_EXPECTORATION"},
			},
			"PROTOCOL_PNEUMONIA": {
				Pathologies: []string{"PNEUMONIA"}, Treatments: []string{"ANTIBIOTIC", "ANTIINFLAMMATORY", "BRONCHODILATOR"},
				MeanDurationDays: 21, ExpectedEfficacy: 0.70,
				Conditions: []string{"RADIOGRAPHIC_CONFIRMATION"},
			},
			"PROTOCOL_MIGRAINE": {
				Pathologies: []string{"MIGRAINE"}, Treatments: []string{"ANALGESIC"},
				MeanDurationDays: 2, ExpectedEfficacy: 0.85,
				Conditions: []string{"HEADACHE_WITHOUT_COMPLICATIONS"},
			},
		},
		SymptomSeverity: map[string]float64{
			"MILD_FEVER":     0.3,
			"FEVER":          0.5,
			"HIGH_FEVER":     0.8,
			"COUGH":          0.3,
			"WET_COUGH":      0.4,
			"DRY_COUGH":      0.3,
			"DYSPNEA":        0.7,
			"SEVERE_DYSPNEA": 0.9,
			"MUSCLE_PAIN":    0.3,
			"HEADACHE":       0.4,
			"FATIGUE":        0.3,
			"ANOSMIA":        0.2,
			"NAUSEA":         0.4,
		},
		TreatmentTargets: map[string][]string{
			"ANTIVIRAL":        {"FEVER", "FATIGUE"},
			"ANTIBIOTIC":       {"HIGH_FEVER", "PURULENT_EXPECTORATION"},
			"ANTIINFLAMMATORY": {"MUSCLE_PAIN", "HEADACHE", "FEVER"},
			"IMMUNOSTIMULANT":  {"FATIGUE"},
			"ANALGESIC":        {"HEADACHE", "MUSCLE_PAIN"},
			"BRONCHODILATOR":   {"DYSPNEA", "COUGH"},
		},
		TreatmentIndications: map[string][]string{
			"ANTIVIRAL":        {"Early onset of illness", "Typical viral symptoms"},
			"ANTIBIOTIC":       {"Suspected bacterial infection", "Purulent expectoration"},
			"ANTIINFLAMMATORY": {"Significant inflammation", "Muscle pain"},
			"IMMUNOSTIMULANT":  {"Weak immune defenses", "Slow recovery"},
			"ANALGESIC":        {"Moderate to severe pain", "Persistent headaches"},
			"BRONCHODILATOR":   {"Breathing discomfort", "Wheezing"},
		},
		Posologies: map[string]string{
			"ANTIVIRAL":        "1 tablet twice daily for 5 days",
			"ANTIBIOTIC":       "1 tablet three times daily for 7-10 days",
			"ANTIINFLAMMATORY": "1 tablet 2-3 times daily as needed for pain",
			"IMMUNOSTIMULANT":  "1 dose daily for 10 days",
			"ANALGESIC":        "1-2 tablets according to pain intensity",
			"BRONCHODILATOR":   "2 inhalations four times daily",
		},
	}
}

// #endregion default-tables
