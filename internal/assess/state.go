package assess

// #region health-state

// HealthState is the ordinal classification of a patient's condition.
type HealthState string

const (
	StateCritical  HealthState = "CRITICAL"
	StateSerious   HealthState = "SERIOUS"
	StateModerate  HealthState = "MODERATE"
	StateStable    HealthState = "STABLE"
	StateExcellent HealthState = "EXCELLENT"
)

// StateMeta is the immutable metadata record attached to each state.
type StateMeta struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

var stateMeta = map[HealthState]StateMeta{
	StateCritical:  {Score: 0.1, Label: "Critical"},
	StateSerious:   {Score: 0.3, Label: "Serious"},
	StateModerate:  {Score: 0.6, Label: "Moderate"},
	StateStable:    {Score: 0.8, Label: "Stable"},
	StateExcellent: {Score: 0.95, Label: "Excellent"},
}

// Meta returns the metadata record for a state. Unknown states resolve
// to the moderate record.
func (s HealthState) Meta() StateMeta {
	if m, ok := stateMeta[s]; ok {
		return m
	}
	return stateMeta[StateModerate]
}

// ClassifyState buckets a severity-like score into the five ordinal states,
// highest severity first.
func ClassifyState(score float64) HealthState {
	switch {
	case score >= 0.8:
		return StateCritical
	case score >= 0.6:
		return StateSerious
	case score >= 0.4:
		return StateModerate
	case score >= 0.2:
		return StateStable
	default:
		return StateExcellent
	}
}

// #endregion health-state
