package match

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Normalize prepares a string for comparison: lowercase, strip everything
// except letters, digits and spaces, collapse runs of whitespace.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity scores two strings in [0,1] using a normalized edit-distance
// ratio. Both inputs are normalized before comparison; identical strings
// score 1.0, entirely dissimilar strings approach 0.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0
	}

	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}

	distance := levenshtein.ComputeDistance(na, nb)
	return 1.0 - float64(distance)/float64(longest)
}
