package provider

import (
	"slices"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// rankByTitle sorts items by decreasing title similarity to query.
// The sort is stable so equally similar items keep their fold order.
func rankByTitle[T any](items []*T, query string, title func(*T) string) {
	if len(items) < 2 || title == nil {
		return
	}
	q := cleanTitle(query)
	scores := make(map[*T]float32, len(items))
	for _, it := range items {
		scores[it] = TitleSimilarity(q, cleanTitle(title(it)))
	}
	slices.SortStableFunc(items, func(a, b *T) int {
		switch sa, sb := scores[a], scores[b]; {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return 0
	})
}

// TitleSimilarity returns the Jaro-Winkler similarity of two cleaned titles,
// in [0, 1].
func TitleSimilarity(a, b string) float32 {
	if a == b {
		return 1
	}
	return edlib.JaroWinklerSimilarity(a, b)
}

// cleanTitle lowercases s, strips accents and punctuation, drops a leading
// article and collapses whitespace.
func cleanTitle(s string) string {
	s = strings.ToLower(s)
	s = removeAccents(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.NewReplacer("-", " ", ".", " ", "_", " ", "'", "").Replace(s)

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	for _, art := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
