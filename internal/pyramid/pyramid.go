package pyramid

import "errors"

// ErrEmptySequence is returned when Build is given a zero-length base.
var ErrEmptySequence = errors.New("pyramid: empty base sequence")

// #region pyramid-struct

// Pyramid holds the paired triangular reductions of a base sequence.
// Both branches are stored in single backing arrays addressed by
// (level, offset), so the whole structure is one allocation per branch.
//
// Ascending levels are indexed apex-first: Ascending(0) is the single-value
// apex level, Ascending(AscendingLevels()-1) is the level built directly
// from the base. Descending levels are indexed base-first: Descending(0)
// is built from the base and the last level is the single-value floor.
type Pyramid struct {
	base []int
	asc  branch
	desc branch
}

// branch is a ragged triangular array: values holds every level
// back-to-back, offsets[k] is the start of level k (len = levels+1).
type branch struct {
	values  []int
	offsets []int
}

func (b branch) levels() int {
	return len(b.offsets) - 1
}

func (b branch) level(k int) []int {
	return b.values[b.offsets[k]:b.offsets[k+1]]
}

// #endregion pyramid-struct

// #region build

// Build constructs the full pyramid for a non-empty base sequence.
// The ascending branch combines adjacent pairs by sum, the descending
// branch by absolute difference; each reduces until one element remains.
// A length-1 base yields empty branches with apex = floor = base[0].
func Build(base []int) (*Pyramid, error) {
	n := len(base)
	if n == 0 {
		return nil, ErrEmptySequence
	}

	p := &Pyramid{base: append([]int(nil), base...)}

	levels := n - 1
	total := n * (n - 1) / 2 // sum of level lengths n-1, n-2, ..., 1

	// Ascending: level k (apex-first) has length k+1 and starts at k(k+1)/2.
	p.asc = branch{
		values:  make([]int, total),
		offsets: make([]int, levels+1),
	}
	for k := 0; k <= levels; k++ {
		p.asc.offsets[k] = k * (k + 1) / 2
	}
	prev := p.base
	for k := levels - 1; k >= 0; k-- {
		cur := p.asc.level(k)
		for i := range cur {
			cur[i] = prev[i] + prev[i+1]
		}
		prev = cur
	}

	// Descending: level k (base-first) has length n-1-k.
	p.desc = branch{
		values:  make([]int, total),
		offsets: make([]int, levels+1),
	}
	off := 0
	for k := 0; k <= levels; k++ {
		p.desc.offsets[k] = off
		off += n - 1 - k
	}
	prev = p.base
	for k := 0; k < levels; k++ {
		cur := p.desc.level(k)
		for i := range cur {
			d := prev[i] - prev[i+1]
			if d < 0 {
				d = -d
			}
			cur[i] = d
		}
		prev = cur
	}

	return p, nil
}

// #endregion build

// #region accessors

// Base returns the base sequence. Callers must not mutate it.
func (p *Pyramid) Base() []int { return p.base }

// AscendingLevels returns the number of ascending reduction levels.
func (p *Pyramid) AscendingLevels() int { return p.asc.levels() }

// DescendingLevels returns the number of descending reduction levels.
func (p *Pyramid) DescendingLevels() int { return p.desc.levels() }

// Ascending returns ascending level k, apex-first.
func (p *Pyramid) Ascending(k int) []int { return p.asc.level(k) }

// Descending returns descending level k, base-first.
func (p *Pyramid) Descending(k int) []int { return p.desc.level(k) }

// Apex returns the final single value of the ascending branch,
// or the base value for a length-1 base.
func (p *Pyramid) Apex() int {
	if p.asc.levels() == 0 {
		return p.base[0]
	}
	return p.asc.level(0)[0]
}

// Floor returns the final single value of the descending branch,
// or the base value for a length-1 base.
func (p *Pyramid) Floor() int {
	if p.desc.levels() == 0 {
		return p.base[0]
	}
	return p.desc.level(p.desc.levels() - 1)[0]
}

// FloorLevel returns the last descending level, or the base when the
// descending branch is empty.
func (p *Pyramid) FloorLevel() []int {
	if p.desc.levels() == 0 {
		return p.base
	}
	return p.desc.level(p.desc.levels() - 1)
}

// FlattenAscending returns every ascending value in level order,
// apex level first. The order is canonical: it feeds the root signature.
func (p *Pyramid) FlattenAscending() []int {
	return append([]int(nil), p.asc.values...)
}

// AscendingValues returns the backing slice of all ascending values in
// level order without copying. Callers must not mutate it.
func (p *Pyramid) AscendingValues() []int { return p.asc.values }

// DescendingValues returns the backing slice of all descending values in
// level order without copying. Callers must not mutate it.
func (p *Pyramid) DescendingValues() []int { return p.desc.values }

// TotalLevels returns the level count including the base itself.
func (p *Pyramid) TotalLevels() int {
	return p.asc.levels() + p.desc.levels() + 1
}

// #endregion accessors
