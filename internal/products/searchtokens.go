package products

import (
	"sort"
	"strings"
	"unicode"
)

const minTokenLen = 2
const minFragmentLen = 3

// GenerateSearchTokens derives the deterministic token set stored alongside a
// product. Name and brand are joined, lowercased, and split into words; each
// word contributes itself plus every prefix and suffix of at least three
// characters. The result is deduplicated and sorted, so equal inputs always
// produce equal arrays.
func GenerateSearchTokens(name, brand string) []string {
	joined := strings.ToLower(strings.TrimSpace(name + " " + brand))
	seen := map[string]struct{}{}

	for _, word := range strings.Fields(joined) {
		cleaned := stripNonAlnum(word)
		if len([]rune(cleaned)) < minTokenLen {
			continue
		}
		runes := []rune(cleaned)
		seen[cleaned] = struct{}{}

		// prefixes: milk -> mil
		for l := minFragmentLen; l < len(runes); l++ {
			seen[string(runes[:l])] = struct{}{}
		}
		// suffixes: milk -> ilk
		for i := 1; i+minFragmentLen <= len(runes); i++ {
			seen[string(runes[i:])] = struct{}{}
		}
	}

	tokens := make([]string, 0, len(seen))
	for token := range seen {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// NormalizeQueryWords reduces a free-text search query to the cleaned words
// used to match against stored tokens.
func NormalizeQueryWords(query string) []string {
	joined := strings.ToLower(strings.TrimSpace(query))
	var words []string
	for _, word := range strings.Fields(joined) {
		cleaned := stripNonAlnum(word)
		if len([]rune(cleaned)) < minTokenLen {
			continue
		}
		words = append(words, cleaned)
	}
	return words
}

func stripNonAlnum(word string) string {
	var b strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
