package search

import "strings"

// romanNumerals maps the small integers that show up in sequel titles to
// their Roman-numeral spellings. Catalogs are inconsistent about which form
// they use ("Final Fantasy 7" vs "Final Fantasy VII"), so both the query and
// every candidate name are normalized to the Roman form before comparison.
var romanNumerals = map[string]string{
	"1": "i",
	"2": "ii",
	"3": "iii",
	"4": "iv",
	"5": "v",
	"6": "vi",
}

// normalizeTitle lower-cases a title, collapses runs of whitespace, and
// rewrites standalone digits 1–6 to Roman numerals.
func normalizeTitle(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if roman, ok := romanNumerals[w]; ok {
			words[i] = roman
		}
	}
	return strings.Join(words, " ")
}
