package heh

import (
	"math/rand"
	"time"

	"github.com/bastiangx/hehify/pkg/syllable"
)

// source is the generator view of one top-level call. Seeded settings get
// a private generator seeded once per call (or before every word with
// ReseedPerWord); otherwise the transformer's shared generator is held
// under its lock until release.
type source struct {
	rng     *rand.Rand
	seed    int64
	perWord bool
	unlock  func()
}

func (t *Transformer) source() *source {
	if s := t.settings.Seed; s != nil {
		return &source{
			rng:     rand.New(rand.NewSource(*s)),
			seed:    *s,
			perWord: t.settings.ReseedPerWord,
		}
	}
	t.mu.Lock()
	return &source{rng: t.rng, unlock: t.mu.Unlock}
}

func (s *source) float64() float64 {
	if s.perWord {
		s.rng.Seed(s.seed)
	}
	return s.rng.Float64()
}

func (s *source) release() {
	if s.unlock != nil {
		s.unlock()
		s.unlock = nil
	}
}

// TransformWord rewrites one word with explicit settings and generator.
// A nil rng is replaced by a time-seeded one; a seed in settings takes
// precedence over rng. Settings are not validated.
func TransformWord(word string, settings Settings, rng *rand.Rand) string {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	t := &Transformer{settings: settings, catalog: syllable.Catalog(), rng: rng}
	return t.TransformWord(word)
}
