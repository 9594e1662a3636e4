package heh

import (
	"math"

	"github.com/bastiangx/hehify/pkg/errors"
)

const (
	DefaultRate  = 0.25
	DefaultLevel = 0.2
)

// Settings controls how aggressively text is rewritten.
type Settings struct {
	// Rate is the probability that a word is rewritten at all.
	Rate float64
	// Level is the fraction of a word's syllables eligible for replacement.
	// At least one syllable of a rewritten word is always replaced.
	Level float64
	// Seed makes output reproducible when set.
	Seed *int64
	// ReseedPerWord reseeds the generator before every word instead of once
	// per Transform call. Every word then draws the same value.
	ReseedPerWord bool
}

// DefaultSettings returns the stock rate and level with no seed.
func DefaultSettings() Settings {
	return Settings{Rate: DefaultRate, Level: DefaultLevel}
}

// WithSeed returns a copy of s seeded with seed.
func (s Settings) WithSeed(seed int64) Settings {
	s.Seed = &seed
	return s
}

// Validate rejects rate or level outside [0, 1].
func (s Settings) Validate() error {
	if math.IsNaN(s.Rate) || s.Rate < 0 || s.Rate > 1 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "rate %v outside [0,1]", s.Rate)
	}
	if math.IsNaN(s.Level) || s.Level < 0 || s.Level > 1 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "level %v outside [0,1]", s.Level)
	}
	return nil
}

// Budget is the number of syllables replaced in a rewritten word of n
// syllables: ceil(level*n), at least 1 and at most n.
func Budget(level float64, n int) int {
	if n <= 0 {
		return 0
	}
	b := int(math.Ceil(level * float64(n)))
	return min(max(b, 1), n)
}

// SmoothingThreshold is the run length the generalizer needs before it
// overwrites a differing marker: ceil((1-level)*n).
func SmoothingThreshold(level float64, n int) int {
	return int(math.Ceil((1 - level) * float64(n)))
}
