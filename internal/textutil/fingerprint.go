package textutil

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Fingerprint represents a trigram-frequency vector for similarity comparison.
type Fingerprint struct {
	grams map[string]float64
	norm  float64
}

// NewFingerprint creates a fingerprint from the provided text.
// Returns nil if the text has no letters or digits.
func NewFingerprint(text string) *Fingerprint {
	grams := Trigrams(text)
	if len(grams) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(grams))
	for _, g := range grams {
		counts[g]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{
		grams: counts,
		norm:  math.Sqrt(norm),
	}
}

// Normalize folds case and collapses every run of non-alphanumeric
// characters into a single space.
func Normalize(text string) string {
	var b strings.Builder
	space := false
	for _, r := range cases.Fold().String(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// Trigrams returns the padded character trigrams of each word in text.
func Trigrams(text string) []string {
	words := strings.Fields(Normalize(text))
	var out []string
	for _, w := range words {
		runes := []rune(" " + w + " ")
		for i := 0; i+3 <= len(runes); i++ {
			out = append(out, string(runes[i:i+3]))
		}
	}
	return out
}

// GramCount returns the number of unique trigrams in the fingerprint.
func (f *Fingerprint) GramCount() int {
	if f == nil {
		return 0
	}
	return len(f.grams)
}
