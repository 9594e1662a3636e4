package syllable

// Split breaks word into syllables with a vowel-anchored scan.
//
// Every vowel closes a slot. The slot boundary then moves forward over a
// character while that character and the one after it are both non-vowels
// (the cluster stays with the current syllable unless a single consonant is
// left to open the next one), or while the character is neither vowel nor
// consonant (ъ, ь, й and similar connectors always attach backwards).
// Whatever trails the last boundary is folded into the last syllable.
//
// A word without vowels yields nil. Joining the result gives back word.
func Split(word string) []Syllable {
	runes := []rune(word)
	n := len(runes)

	breaks := make([]int, 1, n+1)
	for i, r := range runes {
		if IsVowel(r) {
			breaks = append(breaks, i+1)
		}
	}
	if len(breaks) == 1 {
		return nil
	}

	isVowelAt := func(i int) bool { return i < n && IsVowel(runes[i]) }

	syllables := make([]Syllable, 0, len(breaks)-1)
	start := 0
	for i := 1; i < len(breaks); i++ {
		nucleus := runes[breaks[i]-1]
		end := breaks[i]
		for end < n {
			r := runes[end]
			if !isVowelAt(end) && !isVowelAt(end+1) {
				end++
				continue
			}
			if !IsVowel(r) && !IsConsonant(r) {
				end++
				continue
			}
			break
		}
		syllables = append(syllables, New(string(runes[start:end]), nucleus))
		start = end
	}

	if start < n {
		last := &syllables[len(syllables)-1]
		last.text += string(runes[start:])
	}
	return syllables
}
