// Package text is the leaf tokenization layer everything else builds on.
// Normalization is deterministic and pure: identical input always yields
// identical output.
package text

import "strings"

var stopwords = buildStopwords("a an the and or in on at to for with by of " +
	"from is are was were be been being this that those these it its as about " +
	"into up out over under more most less few very such have has had do does " +
	"did will would should can could may might must not no yes you your")

func buildStopwords(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

// Normalize lowercases, strips everything outside [a-z0-9 ], splits on
// whitespace, and drops stopwords. Unicode input degrades safely (non-ASCII
// runes become separators). Empty input yields an empty sequence.
func Normalize(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, t := range fields {
		if _, stop := stopwords[t]; !stop {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// EstimateTokens approximates the LLM token count of the given texts as
// 0.75 x normalized word count. It is a cheap proxy, not a real tokenizer.
func EstimateTokens(texts []string) int {
	words := 0
	for _, t := range texts {
		words += len(Normalize(t))
	}
	return int(float64(words) * 0.75)
}
