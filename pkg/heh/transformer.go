/*
Package heh rewrites text by replacing syllables of words with marker
syllables from the catalog ("ха", "хех", ...), keeping the casing pattern,
syllable count and open/closed endings close to the original.

A Transformer owns its random generator and settings:

	tr, err := heh.New(heh.DefaultSettings().WithSeed(42))
	if err != nil {
		return err
	}
	out, stats := tr.Transform("Привет, как дела?")

The word-level pipeline is: one random draw decides whether the word is
rewritten at all, the word is split into syllables, the syllables most
similar to a catalog entry are replaced within the level budget, the
result is generalized and joined, and doubled marker consonants are
collapsed.
*/
package heh

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/bastiangx/hehify/pkg/lexicon"
	"github.com/bastiangx/hehify/pkg/syllable"
	"github.com/charmbracelet/log"
)

// Transformer rewrites words and texts under fixed Settings.
// It is safe for concurrent use.
type Transformer struct {
	settings  Settings
	catalog   []syllable.Syllable
	cache     *lexicon.Cache
	protected *lexicon.Protected
	rng       *rand.Rand
	mu        sync.Mutex
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithCache memoizes syllable splits in c.
func WithCache(c *lexicon.Cache) Option {
	return func(t *Transformer) { t.cache = c }
}

// WithProtected leaves the words in p untouched.
func WithProtected(p *lexicon.Protected) Option {
	return func(t *Transformer) { t.protected = p }
}

// WithRand sets the generator used when Settings carries no seed.
func WithRand(r *rand.Rand) Option {
	return func(t *Transformer) { t.rng = r }
}

// New validates settings and builds a Transformer.
func New(settings Settings, opts ...Option) (*Transformer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	t := &Transformer{
		settings: settings,
		catalog:  syllable.Catalog(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return t, nil
}

// Settings returns the settings the transformer was built with.
func (t *Transformer) Settings() Settings {
	return t.settings
}

// WithSettings returns a transformer with different settings that shares
// the cache and protected set of t. Its unseeded generator is independent.
func (t *Transformer) WithSettings(settings Settings) (*Transformer, error) {
	return New(settings, WithCache(t.cache), WithProtected(t.protected))
}

// Cache returns the syllable cache, or nil when caching is off.
func (t *Transformer) Cache() *lexicon.Cache {
	return t.cache
}

// Stats summarizes one Transform call.
type Stats struct {
	Words     int
	Changed   int
	Replaced  int
	Protected int
}

// TransformWord rewrites a single word. It draws from the shared generator
// unless the settings carry a seed, in which case the generator is seeded
// for this call alone.
func (t *Transformer) TransformWord(word string) string {
	var st Stats
	src := t.source()
	defer src.release()
	return t.word(word, src, &st)
}

// split returns the syllables of word, cached when a cache is set.
func (t *Transformer) split(word string) []syllable.Syllable {
	if t.cache != nil {
		return t.cache.Split(word)
	}
	return syllable.Split(word)
}

func (t *Transformer) word(word string, src *source, st *Stats) string {
	st.Words++
	if src.float64() < 1-t.settings.Rate {
		return word
	}
	if t.protected.Contains(word) {
		st.Protected++
		return word
	}

	parts := t.split(word)
	if len(parts) == 0 {
		return word
	}

	replaced := substitute(parts, t.catalog, Budget(t.settings.Level, len(parts)))
	parts = Generalize(parts, t.settings.Level)
	out := CollapseMarkers(syllable.Join(parts))

	st.Replaced += replaced
	if out != word {
		st.Changed++
	}
	log.Debug("rewrote word", "in", word, "out", out, "replaced", replaced)
	return out
}

// Choice describes how one syllable of a word ranks against the catalog.
type Choice struct {
	Syllable syllable.Syllable
	Match    syllable.Syllable
	Score    int
	Selected bool
}

// rank orders syllable positions by descending best-match score; equal
// scores keep their original order.
func rank(parts, catalog []syllable.Syllable) []Choice {
	choices := make([]Choice, len(parts))
	for i, p := range parts {
		match, score := syllable.BestMatch(p, catalog)
		choices[i] = Choice{Syllable: p, Match: match, Score: score}
	}
	return choices
}

func order(choices []Choice) []int {
	idx := make([]int, len(choices))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return choices[idx[a]].Score > choices[idx[b]].Score
	})
	return idx
}

// substitute replaces up to budget syllables of parts in place with their
// case-agreed best matches and returns how many were replaced.
func substitute(parts, catalog []syllable.Syllable, budget int) int {
	choices := rank(parts, catalog)
	replaced := 0
	for _, i := range order(choices) {
		if budget <= 0 {
			break
		}
		parts[i] = choices[i].Match.AgreeCase(parts[i])
		budget--
		replaced++
	}
	return replaced
}

// Explain reports, without drawing randomness, how word would be ranked
// and which syllables a rewrite would replace.
func (t *Transformer) Explain(word string) []Choice {
	parts := t.split(word)
	if len(parts) == 0 {
		return nil
	}
	choices := rank(parts, t.catalog)
	budget := Budget(t.settings.Level, len(parts))
	for _, i := range order(choices) {
		if budget <= 0 {
			break
		}
		choices[i].Selected = true
		budget--
	}
	return choices
}

// CollapseMarkers folds every run of marker consonants into its first
// character, ignoring case.
func CollapseMarkers(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevMarker := false
	for _, r := range s {
		isMarker := unicode.ToLower(r) == syllable.Marker
		if isMarker && prevMarker {
			continue
		}
		prevMarker = isMarker
		b.WriteRune(r)
	}
	return b.String()
}
