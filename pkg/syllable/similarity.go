package syllable

// VowelSimilarity scores nuclei: 2 when identical, 1 for a near pair, else 0.
func VowelSimilarity(a, b Syllable) int {
	if a.nucleus == b.nucleus {
		return 2
	}
	x, y := a.nucleus, b.nucleus
	if x > y {
		x, y = y, x
	}
	if nearVowels[[2]rune{x, y}] {
		return 1
	}
	return 0
}

// OpennessMatch is 1 when both syllables are open or both are closed.
func OpennessMatch(a, b Syllable) int {
	if a.IsOpen() == b.IsOpen() {
		return 1
	}
	return 0
}

// Similarity scores compatibility of a and b in [0, MaxSimilarity].
// It is symmetric.
func Similarity(a, b Syllable) int {
	return VowelSimilarity(a, b) + OpennessMatch(a, b)
}

// BestMatch returns the candidate most similar to target together with its
// score. Ties go to the earliest candidate. An empty candidate list yields
// the zero Syllable and -1.
func BestMatch(target Syllable, candidates []Syllable) (Syllable, int) {
	var best Syllable
	bestScore := -1
	for _, c := range candidates {
		score := Similarity(c, target)
		if score > bestScore {
			best, bestScore = c, score
			if score == MaxSimilarity {
				break
			}
		}
	}
	return best, bestScore
}
