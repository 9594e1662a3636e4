package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// PrefixMark turns a protected entry into a prefix rule: "хех*" protects
// every word that starts with "хех".
const PrefixMark = "*"

// Protected is a case-insensitive set of words the transformer leaves alone.
type Protected struct {
	words    *patricia.Trie
	prefixes *patricia.Trie
	count    int
	mu       sync.RWMutex
}

// NewProtected creates a set from the given entries.
func NewProtected(entries ...string) *Protected {
	p := &Protected{
		words:    patricia.NewTrie(),
		prefixes: patricia.NewTrie(),
	}
	for _, e := range entries {
		p.Add(e)
	}
	return p
}

// Add inserts one entry. Blank entries and lines starting with '#' are ignored.
func (p *Protected) Add(entry string) {
	entry = strings.ToLower(strings.TrimSpace(entry))
	if entry == "" || strings.HasPrefix(entry, "#") {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	trie := p.words
	if strings.HasSuffix(entry, PrefixMark) {
		entry = strings.TrimSuffix(entry, PrefixMark)
		if entry == "" {
			return
		}
		trie = p.prefixes
	}
	if trie.Insert(patricia.Prefix(entry), true) {
		p.count++
	}
}

// Load reads newline separated entries from r.
func (p *Protected) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.Add(scanner.Text())
	}
	return scanner.Err()
}

// LoadFile reads entries from the file at path.
func (p *Protected) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open protected words file: %w", err)
	}
	defer f.Close()
	if err := p.Load(f); err != nil {
		return fmt.Errorf("failed to read protected words from %s: %w", path, err)
	}
	log.Debugf("Loaded protected words from %s, total=%d", path, p.Len())
	return nil
}

// Contains reports whether word is protected, either exactly or by prefix.
func (p *Protected) Contains(word string) bool {
	if p == nil {
		return false
	}
	key := patricia.Prefix(strings.ToLower(word))

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.words.Get(key) != nil {
		return true
	}
	found := false
	_ = p.prefixes.VisitPrefixes(key, func(patricia.Prefix, patricia.Item) error {
		found = true
		return nil
	})
	return found
}

// Len returns the number of entries.
func (p *Protected) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.count
}
