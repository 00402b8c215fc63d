package pyramid

import "fmt"

// #region comparison

// Comparison reports how similar two pyramid structures are.
type Comparison struct {
	Similarity  float64  `json:"similarity"`
	Relation    string   `json:"relation"`
	Differences []string `json:"differences"`
}

// Compare scores the structural similarity of two pyramids: half from
// element-wise base distance, half from ascending-branch height.
func Compare(a, b *Pyramid) Comparison {
	sim := (baseSimilarity(a, b) + structureSimilarity(a, b)) / 2

	return Comparison{
		Similarity:  sim,
		Relation:    relation(sim),
		Differences: differences(a, b),
	}
}

func baseSimilarity(a, b *Pyramid) float64 {
	if len(a.base) != len(b.base) {
		return 0.3
	}

	diff := 0
	maxVal := 0
	for i := range a.base {
		d := a.base[i] - b.base[i]
		if d < 0 {
			d = -d
		}
		diff += d
		if a.base[i] > maxVal {
			maxVal = a.base[i]
		}
		if b.base[i] > maxVal {
			maxVal = b.base[i]
		}
	}

	maxDiff := maxVal * len(a.base)
	if maxDiff == 0 {
		return 1.0
	}
	return 1.0 - float64(diff)/float64(maxDiff)
}

func structureSimilarity(a, b *Pyramid) float64 {
	ha, hb := a.AscendingLevels(), b.AscendingLevels()
	max := ha
	if hb > max {
		max = hb
	}
	if max < 1 {
		max = 1
	}
	diff := ha - hb
	if diff < 0 {
		diff = -diff
	}
	return 1.0 - float64(diff)/float64(max)
}

func relation(sim float64) string {
	switch {
	case sim >= 0.9:
		return "STRUCTURAL_IDENTITY"
	case sim >= 0.7:
		return "STRONG_AFFINITY"
	case sim >= 0.5:
		return "MODERATE_RELATION"
	case sim >= 0.3:
		return "WEAK_CONNECTION"
	default:
		return "DISSIMILARITY"
	}
}

func differences(a, b *Pyramid) []string {
	var diffs []string

	if len(a.base) != len(b.base) {
		diffs = append(diffs, "Different base length")
	}
	if a.AscendingLevels() != b.AscendingLevels() {
		diffs = append(diffs, "Different ascending height")
	}
	if a.DescendingLevels() != b.DescendingLevels() {
		diffs = append(diffs, "Different descending depth")
	}
	if a.Floor() != b.Floor() {
		diffs = append(diffs, fmt.Sprintf("Different convergence points (%d vs %d)", a.Floor(), b.Floor()))
	}

	return diffs
}

// #endregion comparison
