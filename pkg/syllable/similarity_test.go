package syllable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	testCases := []struct {
		a, b     Syllable
		expected int
	}{
		{New("ка", 'а'), New("ха", 'а'), 3},
		{New("кат", 'а'), New("ха", 'а'), 2},
		{New("ля", 'я'), New("ха", 'а'), 2},
		{New("лят", 'я'), New("ха", 'а'), 1},
		{New("мэ", 'э'), New("хе", 'е'), 2},
		{New("ку", 'у'), New("хе", 'е'), 1},
		{New("кус", 'у'), New("хе", 'е'), 0},
		{New("ри", 'и'), New("хи", 'и'), 3},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Similarity(tc.a, tc.b), "%s ~ %s", tc.a, tc.b)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	var pool []Syllable
	for _, w := range []string{"психология", "разъезд", "Майка", "ЭЛЕКТРОН", "ящик"} {
		pool = append(pool, Split(w)...)
	}
	pool = append(pool, Catalog()...)

	for _, a := range pool {
		for _, b := range pool {
			assert.Equal(t, Similarity(a, b), Similarity(b, a), "%s ~ %s", a, b)
			assert.LessOrEqual(t, Similarity(a, b), MaxSimilarity)
			assert.GreaterOrEqual(t, Similarity(a, b), 0)
		}
	}
}

func TestBestMatch(t *testing.T) {
	testCases := []struct {
		target        Syllable
		expected      string
		expectedScore int
	}{
		{New("Май", 'а'), "хах", 3},
		{New("ка", 'а'), "ха", 3},
		{New("пил", 'и'), "хих", 3},
		{New("ре", 'е'), "хе", 3},
		{New("ля", 'я'), "ха", 2},
		// no vowel in common: first open entry wins
		{New("ку", 'у'), "ха", 1},
		{New("бот", 'о'), "хах", 1},
	}
	for _, tc := range testCases {
		best, score := BestMatch(tc.target, Catalog())
		assert.Equal(t, tc.expected, best.Text(), "best match for %s", tc.target)
		assert.Equal(t, tc.expectedScore, score, "score for %s", tc.target)
	}

	best, score := BestMatch(New("ка", 'а'), nil)
	assert.Equal(t, "", best.Text())
	assert.Equal(t, -1, score)
}
