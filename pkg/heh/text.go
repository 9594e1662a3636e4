package heh

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"
)

// script is the alphabet words are scanned in.
var script = runes.In(unicode.Cyrillic)

// IsWordRune reports whether r belongs to a word token.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) && script.Contains(r)
}

// Span is a byte range of the input. Word spans are maximal runs of
// script letters, including combining marks that follow a letter.
type Span struct {
	Start, End int
	Word       bool
}

// Tokenize cuts text into alternating word and non-word spans that cover
// it exactly.
func Tokenize(text string) []Span {
	var spans []Span
	start := 0
	inWord := false
	for i, r := range text {
		word := IsWordRune(r) || (inWord && unicode.Is(unicode.Mn, r))
		if i == 0 {
			inWord = word
			continue
		}
		if word != inWord {
			spans = append(spans, Span{Start: start, End: i, Word: inWord})
			start = i
			inWord = word
		}
	}
	if start < len(text) {
		spans = append(spans, Span{Start: start, End: len(text), Word: inWord})
	}
	return spans
}

// Transform rewrites every word of text and copies everything else as is.
// Words are NFC-normalized before processing; untouched words keep their
// original bytes.
func (t *Transformer) Transform(text string) (string, Stats) {
	var st Stats
	if text == "" {
		return text, st
	}

	src := t.source()
	defer src.release()

	var b strings.Builder
	b.Grow(len(text) + len(text)/8)
	for _, sp := range Tokenize(text) {
		chunk := text[sp.Start:sp.End]
		if !sp.Word {
			b.WriteString(chunk)
			continue
		}
		word := chunk
		if !norm.NFC.IsNormalString(chunk) {
			word = norm.NFC.String(chunk)
		}
		out := t.word(word, src, &st)
		if out == word {
			out = chunk
		}
		b.WriteString(out)
	}
	return b.String(), st
}

// WordCount returns the number of word tokens in text.
func WordCount(text string) int {
	n := 0
	for _, sp := range Tokenize(text) {
		if sp.Word {
			n++
		}
	}
	return n
}

// ValidText reports whether text is valid UTF-8. Transform passes invalid
// bytes through; the IPC and HTTP surfaces reject such input up front.
func ValidText(text string) bool {
	return utf8.ValidString(text)
}
