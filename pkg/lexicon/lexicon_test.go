package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bastiangx/hehify/pkg/syllable"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func texts(ss []syllable.Syllable) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Text()
	}
	return out
}

func TestCacheKeepsCasing(t *testing.T) {
	c := NewCache(8)

	first := c.Split("майка")
	assert.Equal(t, []string{"май", "ка"}, texts(first))

	second := c.Split("МаЙкА")
	assert.Equal(t, []string{"МаЙ", "кА"}, texts(second))
	assert.Equal(t, 'а', second[0].Nucleus())

	stats := c.Stats()
	assert.Equal(t, 1, stats["hits"])
	assert.Equal(t, 1, stats["misses"])
	assert.Equal(t, 1, c.Len())
}

func TestCacheMatchesSplit(t *testing.T) {
	c := NewCache(4)
	words := []string{"разъезд", "абоба", "в", "купил", "психология", "Разъезд", "в", "ЛИГА"}
	for _, w := range words {
		assert.Equal(t, syllable.Split(w), c.Split(w), w)
	}
}

func TestCacheEvictsLRU(t *testing.T) {
	c := NewCache(2)
	c.Split("купил")
	c.Split("майка")
	c.Split("купил") // refresh
	c.Split("абоба") // evicts майка

	assert.Equal(t, 2, c.Len())
	before := c.Stats()["hits"]
	c.Split("купил")
	assert.Equal(t, before+1, c.Stats()["hits"])

	before = c.Stats()["misses"]
	c.Split("майка")
	assert.Equal(t, before+1, c.Stats()["misses"])
}

func TestCacheRestoreKeepsOthers(t *testing.T) {
	c := NewCache(2)
	c.Split("купил")
	c.Split("майка")

	// a second miss on the same word stores it again
	c.store("майка", syllable.Split("майка"))
	assert.Equal(t, 2, c.Len())

	before := c.Stats()["hits"]
	c.Split("купил")
	c.Split("майка")
	assert.Equal(t, before+2, c.Stats()["hits"])
}

func TestCacheDisabled(t *testing.T) {
	c := NewCache(0)
	assert.Equal(t, []string{"ку", "пил"}, texts(c.Split("купил")))
	assert.Equal(t, 0, c.Len())

	var nilCache *Cache
	assert.Equal(t, []string{"ку", "пил"}, texts(nilCache.Split("купил")))
}

func TestCacheConcurrent(t *testing.T) {
	c := NewCache(16)
	words := []string{"разъезд", "абоба", "купил", "майка", "реальность"}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				word := words[i%len(words)]
				assert.Equal(t, word, syllable.Join(c.Split(word)))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, len(words), c.Len())
}

func TestProtected(t *testing.T) {
	p := NewProtected("хех", "Привет", "хаха*", "  ", "# comment", "*")

	assert.Equal(t, 3, p.Len())
	assert.True(t, p.Contains("хех"))
	assert.True(t, p.Contains("ХЕХ"))
	assert.True(t, p.Contains("привет"))
	assert.False(t, p.Contains("приветик"))
	assert.True(t, p.Contains("хаха"))
	assert.True(t, p.Contains("Хахахахаха"))
	assert.False(t, p.Contains("хах"))
	assert.False(t, p.Contains("кот"))

	var nilSet *Protected
	assert.False(t, nilSet.Contains("хех"))
}

func TestProtectedLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protected.txt")
	require.NoError(t, os.WriteFile(path, []byte("москва\n# cities\nпитер*\n\n"), 0o644))

	p := NewProtected()
	require.NoError(t, p.LoadFile(path))
	assert.Equal(t, 2, p.Len())
	assert.True(t, p.Contains("Москва"))
	assert.False(t, p.Contains("Петербург"))
	assert.True(t, p.Contains("питерский"))

	assert.Error(t, p.LoadFile(filepath.Join(t.TempDir(), "missing.txt")))
}

func TestProtectedLoad(t *testing.T) {
	p := NewProtected()
	require.NoError(t, p.Load(strings.NewReader("один\nдва\n")))
	assert.Equal(t, 2, p.Len())
}
