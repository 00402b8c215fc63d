package pyramid

import "math"

// #region type

// Type classifies the overall character of a pyramid structure.
type Type string

const (
	TypePerfect    Type = "PERFECT"
	TypeStable     Type = "STABLE"
	TypeUnstable   Type = "UNSTABLE"
	TypeHarmonious Type = "HARMONIOUS"
	TypeChaotic    Type = "CHAOTIC"
)

// Classify buckets a pyramid by its symmetry and stability scores.
func Classify(m Metrics) Type {
	switch {
	case m.Symmetry > 0.9 && m.Stability > 0.9:
		return TypePerfect
	case m.Stability > 0.7:
		return TypeStable
	case m.Symmetry > 0.8:
		return TypeHarmonious
	case m.Stability < 0.3:
		return TypeUnstable
	default:
		return TypeChaotic
	}
}

// #endregion type

// #region patterns

// DetectPatterns lists the structural patterns present in a pyramid's base
// and metrics.
func DetectPatterns(p *Pyramid, m Metrics) []string {
	var patterns []string

	if isFibonacciLike(p.base) {
		patterns = append(patterns, "Fibonacci-like sequence")
	}
	if isGeometric(p.base) {
		patterns = append(patterns, "Geometric progression")
	}
	if isArithmetic(p.base) {
		patterns = append(patterns, "Arithmetic progression")
	}
	if m.Convergence > 0.7 {
		patterns = append(patterns, "Fast convergence")
	}
	if m.Symmetry > 0.8 {
		patterns = append(patterns, "Harmonious structure")
	}

	return patterns
}

func isFibonacciLike(seq []int) bool {
	if len(seq) < 3 {
		return false
	}
	for i := 2; i < len(seq); i++ {
		if seq[i] != seq[i-1]+seq[i-2] {
			return false
		}
	}
	return true
}

func isGeometric(seq []int) bool {
	if len(seq) < 2 {
		return false
	}
	ratios := make([]float64, 0, len(seq)-1)
	for i := 1; i < len(seq); i++ {
		if seq[i-1] == 0 {
			return false
		}
		ratios = append(ratios, float64(seq[i])/float64(seq[i-1]))
	}
	return stddev(ratios) < 0.1
}

func isArithmetic(seq []int) bool {
	if len(seq) < 2 {
		return false
	}
	diffs := make([]float64, 0, len(seq)-1)
	for i := 1; i < len(seq); i++ {
		diffs = append(diffs, float64(seq[i]-seq[i-1]))
	}
	return stddev(diffs) < 0.1
}

func stddev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))

	variance := 0.0
	for _, v := range vals {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(vals))
	return math.Sqrt(variance)
}

// #endregion patterns

// #region recommendations

// Recommendations suggests structural adjustments based on metrics and type.
func Recommendations(m Metrics, t Type) []string {
	var recs []string

	if t == TypeUnstable {
		recs = append(recs, "Unstable structure - reinforce coherence")
	}
	if m.Symmetry < 0.6 {
		recs = append(recs, "Asymmetry detected - balance construction and deconstruction")
	}
	if m.Convergence < 0.3 {
		recs = append(recs, "Slow convergence - simplify the base structure")
	}
	if m.Entropy > 2.0 {
		recs = append(recs, "High entropy - reduce random complexity")
	}
	if len(recs) == 0 {
		recs = append(recs, "Optimal structure - keep current configuration")
	}

	return recs
}

// #endregion recommendations
