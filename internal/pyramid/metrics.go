package pyramid

import "math"

// #region metrics-struct

// Metrics holds the structural measurements derived from one pyramid.
// All scores except Entropy are in [0,1]; Entropy is >= 0.
type Metrics struct {
	Height      int     `json:"height"`
	Width       int     `json:"width"`
	Stability   float64 `json:"stability"`
	Symmetry    float64 `json:"symmetry"`
	Convergence float64 `json:"convergence"`
	Entropy     float64 `json:"entropy"`
}

// #endregion metrics-struct

// #region compute

// Compute derives the structural metrics of a built pyramid.
func Compute(p *Pyramid) Metrics {
	ascH := p.AscendingLevels()
	descH := p.DescendingLevels()

	height := ascH
	if descH > height {
		height = descH
	}

	return Metrics{
		Height:      height,
		Width:       len(p.base),
		Stability:   stability(p),
		Symmetry:    symmetry(ascH, descH),
		Convergence: float64(descH) / float64(len(p.base)),
		Entropy:     Entropy(p.base),
	}
}

// symmetry compares branch heights. Both branches always perform exactly
// len(base)-1 reduction steps, so this is 1.0 for every built pyramid;
// the formula is kept for compatibility and nothing downstream assumes
// it varies.
func symmetry(ascH, descH int) float64 {
	max := ascH
	if descH > max {
		max = descH
	}
	if max < 1 {
		max = 1
	}
	diff := ascH - descH
	if diff < 0 {
		diff = -diff
	}
	return 1.0 - float64(diff)/float64(max)
}

// stability measures how settled the descending floor level is: a single
// value is perfectly stable, otherwise low variation relative to the mean
// scores higher. Clamped at zero.
func stability(p *Pyramid) float64 {
	floor := p.FloorLevel()
	if len(floor) <= 1 {
		return 1.0
	}

	mean := 0.0
	for _, v := range floor {
		mean += float64(v)
	}
	mean /= float64(len(floor))

	variance := 0.0
	for _, v := range floor {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(floor))
	sd := math.Sqrt(variance)

	div := mean
	if div == 0 {
		div = 1
	}
	s := 1.0 - sd/div
	if s < 0 {
		return 0
	}
	return s
}

// Entropy computes the Shannon entropy of a sequence normalized to a
// probability distribution. Zero entries are excluded from the log term;
// a sequence summing to zero has entropy zero.
func Entropy(seq []int) float64 {
	sum := 0
	for _, v := range seq {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	h := 0.0
	for _, v := range seq {
		if v == 0 {
			continue
		}
		prob := float64(v) / float64(sum)
		h -= prob * math.Log(prob)
	}
	return h
}

// #endregion compute

// #region harmony

// HarmonyRatio scores how close the apex/floor ratio sits to the golden
// ratio complement (0.618). Returns 0 when the floor is zero.
func HarmonyRatio(apex, floor int) float64 {
	if floor == 0 {
		return 0
	}
	lo, hi := apex, floor
	if lo > hi {
		lo, hi = hi, lo
	}
	ratio := float64(lo) / float64(hi)
	return 1.0 - math.Abs(ratio-0.618)
}

// BiologicalHarmony compares the mean of all ascending values against the
// mean of all descending values. Defaults to 0.5 when either branch is
// empty or either mean is zero.
func BiologicalHarmony(p *Pyramid) float64 {
	asc := p.AscendingValues()
	desc := p.DescendingValues()
	if len(asc) == 0 || len(desc) == 0 {
		return 0.5
	}

	meanAsc := 0.0
	for _, v := range asc {
		meanAsc += float64(v)
	}
	meanAsc /= float64(len(asc))

	meanDesc := 0.0
	for _, v := range desc {
		meanDesc += float64(v)
	}
	meanDesc /= float64(len(desc))

	if meanAsc == 0 || meanDesc == 0 {
		return 0.5
	}

	max := meanAsc
	if meanDesc > max {
		max = meanDesc
	}
	h := 1.0 - math.Abs(meanAsc-meanDesc)/max
	if h < 0 {
		return 0
	}
	if h > 1 {
		return 1
	}
	return h
}

// #endregion harmony
