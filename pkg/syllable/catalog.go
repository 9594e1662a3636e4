package syllable

// catalogVowels are the nuclei of the marker syllables, in iteration order.
var catalogVowels = []rune{'а', 'е', 'и'}

// catalog is built once; order is ха, хах, хе, хех, хи, хих.
var catalog = buildCatalog()

var catalogKeys = func() map[string]bool {
	keys := make(map[string]bool, len(catalog))
	for _, s := range catalog {
		keys[s.Key()] = true
	}
	return keys
}()

func buildCatalog() []Syllable {
	out := make([]Syllable, 0, len(catalogVowels)*2)
	for _, v := range catalogVowels {
		base := string([]rune{Marker, v})
		out = append(out,
			New(base, v),
			New(base+string(Marker), v),
		)
	}
	return out
}

// Catalog returns the marker syllables in their fixed order.
// The returned slice is a copy.
func Catalog() []Syllable {
	out := make([]Syllable, len(catalog))
	copy(out, catalog)
	return out
}

// IsMarker reports whether s is a catalog syllable, ignoring case.
func IsMarker(s Syllable) bool {
	return catalogKeys[s.Key()]
}

// IsMarkerWord reports whether word splits entirely into catalog syllables.
func IsMarkerWord(word string) bool {
	parts := Split(word)
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if !IsMarker(p) {
			return false
		}
	}
	return true
}
