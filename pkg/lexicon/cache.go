/*
Package lexicon holds the word-level lookup structures around the
transformer: a memo of syllable boundaries keyed by lowercase word and the
set of protected words that must never be rewritten.

Both are backed by patricia tries and are safe for concurrent use.
*/
package lexicon

import (
	"math"
	"strings"
	"sync"

	"github.com/bastiangx/hehify/pkg/syllable"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Cache memoizes syllable boundaries per lowercase word and evicts the
// least recently used entry once full. Boundaries are stored as rune
// offsets so a cached split can be re-applied to any casing of the word.
type Cache struct {
	trie        *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxWords    int
	mu          sync.Mutex
}

// entry is the trie item: end offsets plus nuclei, one per syllable.
type entry struct {
	ends   []int
	nuclei []rune
}

// NewCache creates a cache holding at most maxWords segmentations.
// A non-positive size disables caching.
func NewCache(maxWords int) *Cache {
	return &Cache{
		trie:       patricia.NewTrie(),
		accessTime: make(map[string]int64, max(maxWords, 0)),
		maxWords:   maxWords,
	}
}

// Split returns syllable.Split(word), served from the cache when possible.
func (c *Cache) Split(word string) []syllable.Syllable {
	if c == nil || c.maxWords <= 0 {
		return syllable.Split(word)
	}
	key := strings.ToLower(word)

	c.mu.Lock()
	item := c.trie.Get(patricia.Prefix(key))
	if item != nil {
		c.hits++
		c.markAccessed(key)
		c.mu.Unlock()
		return rebuild(word, item.(*entry))
	}
	c.misses++
	c.mu.Unlock()

	parts := syllable.Split(word)
	c.store(key, parts)
	return parts
}

// store inserts a split computed outside the lock. A concurrent miss may
// have stored key already, in which case nothing is evicted.
func (c *Cache) store(key string, parts []syllable.Syllable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, cached := c.accessTime[key]; !cached && len(c.accessTime) >= c.maxWords {
		c.evictLRU()
	}
	c.trie.Set(patricia.Prefix(key), toEntry(parts))
	c.markAccessed(key)
}

// Len returns the number of cached words.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.accessTime)
}

// Stats reports cache occupancy and hit counters.
func (c *Cache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]int{
		"cachedWords": len(c.accessTime),
		"maxWords":    c.maxWords,
		"hits":        int(c.hits),
		"misses":      int(c.misses),
	}
}

func (c *Cache) markAccessed(key string) {
	c.accessCount++
	c.accessTime[key] = c.accessCount
}

func (c *Cache) evictLRU() {
	var oldest string
	var oldestTime int64 = math.MaxInt64
	for word, at := range c.accessTime {
		if at < oldestTime {
			oldestTime = at
			oldest = word
		}
	}
	if oldest == "" {
		return
	}
	c.trie.Delete(patricia.Prefix(oldest))
	delete(c.accessTime, oldest)
	log.Debugf("Evicted '%s' from syllable cache", oldest)
}

func toEntry(parts []syllable.Syllable) *entry {
	e := &entry{
		ends:   make([]int, len(parts)),
		nuclei: make([]rune, len(parts)),
	}
	offset := 0
	for i, p := range parts {
		offset += p.Len()
		e.ends[i] = offset
		e.nuclei[i] = p.Nucleus()
	}
	return e
}

func rebuild(word string, e *entry) []syllable.Syllable {
	if len(e.ends) == 0 {
		return nil
	}
	runes := []rune(word)
	if e.ends[len(e.ends)-1] != len(runes) {
		return syllable.Split(word)
	}
	out := make([]syllable.Syllable, len(e.ends))
	start := 0
	for i, end := range e.ends {
		out[i] = syllable.New(string(runes[start:end]), e.nuclei[i])
		start = end
	}
	return out
}
