package reference

// #region pathology

// PathologyRef holds the static baseline attributes for one pathology code.
type PathologyRef struct {
	BaseSeverity     float64  `yaml:"base_severity" json:"base_severity"`
	MeanDurationDays int      `yaml:"mean_duration_days" json:"mean_duration_days"`
	Resilience       float64  `yaml:"resilience" json:"resilience"`
	TypicalSymptoms  []string `yaml:"typical_symptoms" json:"typical_symptoms"`
}

// #endregion pathology

// #region treatment

// TreatmentRef holds the static attributes for one treatment code.
type TreatmentRef struct {
	Efficacy        float64  `yaml:"efficacy" json:"efficacy"`
	ActionDelayDays int      `yaml:"action_delay_days" json:"action_delay_days"`
	Compatibility   float64  `yaml:"compatibility" json:"compatibility"`
	Pathologies     []string `yaml:"pathologies" json:"pathologies"`
}

// #endregion treatment

// #region profile

// ProfileRef holds the static attributes for one patient profile group.
type ProfileRef struct {
	Resilience        float64 `yaml:"resilience" json:"resilience"`
	TreatmentResponse float64 `yaml:"treatment_response" json:"treatment_response"`
	RecoveryBaseline  float64 `yaml:"recovery_baseline" json:"recovery_baseline"`
	AgeMin            int     `yaml:"age_min" json:"age_min"`
	AgeMax            int     `yaml:"age_max" json:"age_max"`
}

// #endregion profile

// #region protocol

// ProtocolRef associates a pathology set with an ordered treatment list.
type ProtocolRef struct {
	Pathologies      []string `yaml:"pathologies" json:"pathologies"`
	Treatments       []string `yaml:"treatments" json:"treatments"`
	MeanDurationDays int      `yaml:"mean_duration_days" json:"mean_duration_days"`
	ExpectedEfficacy float64  `yaml:"expected_efficacy" json:"expected_efficacy"`
	Conditions       []string `yaml:"conditions" json:"conditions"`
}

// #endregion protocol

// #region tables

// Tables bundles every static reference table the engine consumes.
// Loaded once at engine construction and never mutated afterwards.
type Tables struct {
	Pathologies map[string]PathologyRef `yaml:"pathologies" json:"pathologies"`
	Treatments  map[string]TreatmentRef `yaml:"treatments" json:"treatments"`
	Profiles    map[string]ProfileRef   `yaml:"profiles" json:"profiles"`
	Protocols   map[string]ProtocolRef  `yaml:"protocols" json:"protocols"`

	// SymptomSeverity maps an uppercase symptom code to its presumed
	// severity weight in [0,1].
	SymptomSeverity map[string]float64 `yaml:"symptom_severity" json:"symptom_severity"`

	// TreatmentTargets maps a treatment code to the symptom codes it targets.
	TreatmentTargets map[string][]string `yaml:"treatment_targets" json:"treatment_targets"`

	// TreatmentIndications maps a treatment code to its fixed indication strings.
	TreatmentIndications map[string][]string `yaml:"treatment_indications" json:"treatment_indications"`

	// Posologies maps a treatment code to its recommended dosage text.
	Posologies map[string]string `yaml:"posologies" json:"posologies"`
}

// #endregion tables
