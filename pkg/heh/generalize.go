package heh

import "github.com/bastiangx/hehify/pkg/syllable"

// Generalize smooths runs of catalog syllables with syllable.IsMarker as
// the membership test.
func Generalize(syllables []syllable.Syllable, level float64) []syllable.Syllable {
	return GeneralizeFunc(syllables, level, syllable.IsMarker)
}

// GeneralizeFunc smooths runs of syllables selected by isMarker so that a
// short differing marker between equal neighbours takes the neighbour's
// value. The input is not modified.
//
// One round is a forward pass followed by a backward pass over adjacent
// pairs. A differing marker is overwritten by the previous one when the
// current run is longer than SmoothingThreshold, when the threshold is below
// 3 and the syllable one step further in the walking direction equals the
// previous one, or, at
// threshold 0 only, when the previous text is strictly longer. Rounds repeat
// until nothing changes, which makes the result a fixpoint.
func GeneralizeFunc(syllables []syllable.Syllable, level float64, isMarker func(syllable.Syllable) bool) []syllable.Syllable {
	out := make([]syllable.Syllable, len(syllables))
	copy(out, syllables)
	n := len(out)
	if n < 2 {
		return out
	}

	g := generalizer{seq: out, threshold: SmoothingThreshold(level, n), isMarker: isMarker}
	for round := 0; round <= n; round++ {
		if !g.round() {
			break
		}
	}
	return out
}

// surroundLimit is the threshold at or above which a marker between two
// equal neighbours is left alone.
const surroundLimit = 3

type generalizer struct {
	seq       []syllable.Syllable
	threshold int
	isMarker  func(syllable.Syllable) bool
	changed   bool
}

// round runs both passes and reports whether anything was overwritten.
func (g *generalizer) round() bool {
	g.changed = false
	n := len(g.seq)

	reps := 0
	for i := 1; i < n; i++ {
		reps = g.step(i-1, i, i+1, reps)
	}
	reps = 0
	for i := n - 1; i > 0; i-- {
		reps = g.step(i, i-1, i-2, reps)
	}
	return g.changed
}

// step compares seq[cur] against seq[prev]; around is the index one step
// past cur in the walking direction and may be out of range.
func (g *generalizer) step(prev, cur, around, reps int) int {
	p, c := g.seq[prev], g.seq[cur]
	switch {
	case c.Equal(p):
		return reps + 1
	case !g.isMarker(c):
		return reps
	case g.isMarker(p) && g.shouldOverwrite(p, c, around, reps):
		g.seq[cur] = p
		g.changed = true
		return reps + 1
	default:
		return 0
	}
}

func (g *generalizer) shouldOverwrite(p, c syllable.Syllable, around, reps int) bool {
	if reps > g.threshold {
		return true
	}
	if g.threshold < surroundLimit && around >= 0 && around < len(g.seq) && g.seq[around].Equal(p) {
		return true
	}
	return g.threshold == 0 && p.Len() > c.Len()
}
