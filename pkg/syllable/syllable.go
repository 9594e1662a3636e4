/*
Package syllable implements the phonological layer of hehify: the Syllable
type, the vowel and consonant classes of the target script, the fixed
catalog of marker syllables and the similarity scoring between them.

A Syllable keeps its text exactly as it appeared in the source word.
Identity is case-insensitive and exposed through Key, so associative
containers should index syllables by Key rather than by Text.

	s := syllable.New("Ка", 'а')
	best, score := syllable.BestMatch(s, syllable.Catalog())
	// best.Text() == "ха", score == 3

Nothing in this package logs or returns errors; every function is total
over its input.
*/
package syllable

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Marker is the consonant every catalog syllable is built around.
const Marker = 'х'

// MaxSimilarity is the highest score Similarity can return.
const MaxSimilarity = 3

// PadVowel fills missing source positions during case agreement.
const PadVowel = 'а'

const (
	vowels = "уеыаоэяиюё"
	// й, ъ and ь are neither: no syllable can start with them.
	consonants = "цкнгшщзхфвпрлджчсмтб"
)

// nearVowels holds unordered vowel pairs that score as partially similar.
var nearVowels = map[[2]rune]bool{
	{'а', 'я'}: true,
	{'е', 'э'}: true,
}

// IsVowel reports whether r is a vowel of the target script, ignoring case.
func IsVowel(r rune) bool {
	return strings.ContainsRune(vowels, unicode.ToLower(r))
}

// IsConsonant reports whether r can open a syllable as a consonant.
func IsConsonant(r rune) bool {
	return strings.ContainsRune(consonants, unicode.ToLower(r))
}

// Syllable is one segment of a word anchored on a vowel nucleus.
type Syllable struct {
	text    string
	nucleus rune
}

// New builds a Syllable. The nucleus is stored lowercased.
func New(text string, nucleus rune) Syllable {
	return Syllable{text: text, nucleus: unicode.ToLower(nucleus)}
}

// Text returns the syllable with its original casing.
func (s Syllable) Text() string { return s.text }

// Nucleus returns the lowercase anchoring vowel.
func (s Syllable) Nucleus() rune { return s.nucleus }

// String implements fmt.Stringer.
func (s Syllable) String() string { return s.text }

// Key is the case-insensitive identity of the syllable.
func (s Syllable) Key() string { return strings.ToLower(s.text) }

// Equal compares two syllables case-insensitively on their text.
func (s Syllable) Equal(o Syllable) bool {
	return strings.EqualFold(s.text, o.text)
}

// Len returns the length in runes.
func (s Syllable) Len() int { return utf8.RuneCountInString(s.text) }

// IsOpen reports whether the syllable ends on a vowel.
func (s Syllable) IsOpen() bool {
	if s.text == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(s.text)
	return IsVowel(last)
}

// IsClosed reports whether the syllable ends on anything but a vowel.
func (s Syllable) IsClosed() bool { return s.text != "" && !s.IsOpen() }

// AgreeCase returns s re-cased to follow the letter case of src position by
// position. Positions past the end of src count as PadVowel (lowercase).
// The nucleus of s is kept.
func (s Syllable) AgreeCase(src Syllable) Syllable {
	pattern := []rune(src.text)
	out := []rune(s.text)
	for i, r := range out {
		ref := PadVowel
		if i < len(pattern) {
			ref = pattern[i]
		}
		if unicode.IsUpper(ref) {
			out[i] = unicode.ToUpper(r)
		} else {
			out[i] = unicode.ToLower(r)
		}
	}
	return Syllable{text: string(out), nucleus: s.nucleus}
}

// Join concatenates syllable texts.
func Join(syllables []Syllable) string {
	var b strings.Builder
	for _, s := range syllables {
		b.WriteString(s.text)
	}
	return b.String()
}
