package heh

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	text := "Привет, world! ёж-ик"
	spans := Tokenize(text)

	var words, rebuilt []string
	for _, sp := range spans {
		rebuilt = append(rebuilt, text[sp.Start:sp.End])
		if sp.Word {
			words = append(words, text[sp.Start:sp.End])
		}
	}
	assert.Equal(t, text, strings.Join(rebuilt, ""))
	assert.Equal(t, []string{"Привет", "ёж", "ик"}, words)
	assert.Equal(t, 3, WordCount(text))

	assert.Empty(t, Tokenize(""))
	assert.Equal(t, []Span{{Start: 0, End: 3, Word: false}}, Tokenize("42!"))
}

func TestTokenizeCombiningMarks(t *testing.T) {
	text := "маи\u0306ка"
	spans := Tokenize(text)
	require.Len(t, spans, 1)
	assert.True(t, spans[0].Word)
}

func TestTransformText(t *testing.T) {
	tr := newTransformer(t, always(0.2))
	out, st := tr.Transform("Майка, купил! 42 hello")
	assert.Equal(t, "Хахка, кухих! 42 hello", out)
	assert.Equal(t, Stats{Words: 2, Changed: 2, Replaced: 2}, st)

	out, st = tr.Transform("")
	assert.Equal(t, "", out)
	assert.Zero(t, st.Words)
}

func TestTransformNormalizesWords(t *testing.T) {
	decomposed := "маи\u0306ка"

	tr := newTransformer(t, always(0.2))
	out, _ := tr.Transform(decomposed + "!")
	assert.Equal(t, "хахка!", out)

	keep := newTransformer(t, Settings{Rate: 0, Level: 1})
	out, _ = keep.Transform(decomposed + "!")
	assert.Equal(t, decomposed+"!", out, "untouched words keep their bytes")
}

func TestTransformRateZero(t *testing.T) {
	tr := newTransformer(t, Settings{Rate: 0, Level: 1})
	text := "Съешь же ещё этих мягких французских булок, да выпей чаю."
	out, st := tr.Transform(text)
	assert.Equal(t, text, out)
	assert.Equal(t, 10, st.Words)
	assert.Zero(t, st.Changed)
}

const pangram = "Съешь же ещё этих мягких французских булок, да выпей чаю. " +
	"Широкая электрификация южных губерний даст мощный толчок подъёму сельского хозяйства."

func TestSeededTransformIsReproducible(t *testing.T) {
	s := Settings{Rate: 0.5, Level: 0.3}.WithSeed(42)
	a, _ := newTransformer(t, s).Transform(pangram)
	b, _ := newTransformer(t, s).Transform(pangram)
	assert.Equal(t, a, b)

	tr := newTransformer(t, s)
	first, _ := tr.Transform(pangram)
	second, _ := tr.Transform(pangram)
	assert.Equal(t, first, second, "seed applies per call, not per transformer")
}

func TestReseedPerWordDrawsSameValue(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		s := Settings{Rate: 0.5, Level: 0.3, ReseedPerWord: true}.WithSeed(seed)
		_, st := newTransformer(t, s).Transform(pangram)
		assert.True(t, st.Changed == 0 || st.Changed == st.Words,
			"seed %d: every word shares one draw, got %d of %d", seed, st.Changed, st.Words)
	}
}

func TestTransformConcurrent(t *testing.T) {
	tr := newTransformer(t, Settings{Rate: 0.7, Level: 0.5})
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				out, st := tr.Transform(pangram)
				assert.Equal(t, WordCount(pangram), st.Words)
				assert.Equal(t, WordCount(out), WordCount(pangram))
			}
		}()
	}
	wg.Wait()
}

func TestValidText(t *testing.T) {
	assert.True(t, ValidText("привет"))
	assert.False(t, ValidText(string([]byte{0xff, 0xfe})))
}
