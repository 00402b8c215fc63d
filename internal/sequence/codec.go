package sequence

import "github.com/algo-verite/engine/internal/reference"

// #region codec

// Codec converts domain inputs into the fixed-order integer sequences the
// pyramid builder consumes. All encodings are deterministic functions of
// the input and the reference tables.
type Codec struct {
	tables reference.Tables
}

// NewCodec creates a codec bound to a set of reference tables.
func NewCodec(tables reference.Tables) *Codec {
	return &Codec{tables: tables}
}

// #endregion codec

// #region age-group

// AgeGroup maps an age to its profile group key.
func AgeGroup(age int) string {
	switch {
	case age <= 25:
		return "YOUNG"
	case age <= 60:
		return "ADULT"
	default:
		return "SENIOR"
	}
}

// #endregion age-group

// #region encoders

// EncodeSymptoms converts a symptom list to severity-weighted codes
// (weight x 100 per symptom). An empty list encodes as [0].
func (c *Codec) EncodeSymptoms(symptoms []string) []int {
	if len(symptoms) == 0 {
		return []int{0}
	}
	codes := make([]int, 0, len(symptoms))
	for _, s := range symptoms {
		w, _ := c.tables.SymptomWeight(s)
		codes = append(codes, int(w*100))
	}
	return codes
}

// EncodePathology converts a pathology code into its three-element
// reference sequence. defaulted reports whether the fallback pathology
// record was substituted.
func (c *Codec) EncodePathology(code string) (seq []int, defaulted bool) {
	ref, defaulted := c.tables.Pathology(code)
	return []int{
		int(ref.BaseSeverity * 100),
		ref.MeanDurationDays,
		int(ref.Resilience * 100),
	}, defaulted
}

// EncodeProfile converts patient profile attributes into their four-element
// sequence. The comorbidity term is capped so a long comorbidity list cannot
// dominate the base.
func (c *Codec) EncodeProfile(age, comorbidities int, immunity float64) (seq []int, defaulted bool) {
	ref, defaulted := c.tables.Profile(AgeGroup(age))

	comorbidityCode := comorbidities * 20
	if comorbidityCode > 100 {
		comorbidityCode = 100
	}

	return []int{
		int(ref.Resilience * 100),
		int(ref.TreatmentResponse * 100),
		int(immunity * 100),
		comorbidityCode,
	}, defaulted
}

// BuildBase concatenates the three encoded dimensions into the pyramid
// base sequence, in fixed symptom->pathology->profile order.
func (c *Codec) BuildBase(symptoms []string, pathology string, age, comorbidities int, immunity float64) []int {
	symSeq := c.EncodeSymptoms(symptoms)
	pathoSeq, _ := c.EncodePathology(pathology)
	profSeq, _ := c.EncodeProfile(age, comorbidities, immunity)

	base := make([]int, 0, len(symSeq)+len(pathoSeq)+len(profSeq))
	base = append(base, symSeq...)
	base = append(base, pathoSeq...)
	base = append(base, profSeq...)
	return base
}

// #endregion encoders
