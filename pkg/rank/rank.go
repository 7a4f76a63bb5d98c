// Package rank scores text relevance.
package rank

import "math"

// Cosine returns the cosine similarity of a and b, 0 when either is empty or
// their lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Lexical returns the share of the query's character bigrams found in text.
// Bigrams suit Chinese text, which has no word separators.
func Lexical(query, text string) float64 {
	grams := bigrams(query)
	if len(grams) == 0 {
		return 0
	}
	have := bigrams(text)
	hit := 0
	for g := range grams {
		if _, ok := have[g]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(grams))
}

func bigrams(s string) map[string]struct{} {
	rs := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' {
			continue
		}
		rs = append(rs, r)
	}
	out := make(map[string]struct{})
	if len(rs) == 1 {
		out[string(rs)] = struct{}{}
		return out
	}
	for i := 0; i+1 < len(rs); i++ {
		out[string(rs[i:i+2])] = struct{}{}
	}
	return out
}
