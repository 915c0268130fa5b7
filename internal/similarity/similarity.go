// Package similarity provides the single name and location matching
// implementation shared by the extraction and fallback verification paths.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// regionalIndicators are location keywords treated as a match when no
// explicit location hint is supplied.
var regionalIndicators = []string{
	"australia", "perth", "sydney", "melbourne", "brisbane", "adelaide",
	"western australia", "canberra",
}

// foldTransformer strips diacritics so "José" and "Jose" tokenize equally.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NameScore computes token-set Jaccard similarity between two names in
// [0, 1]. Case and diacritics are ignored.
func NameScore(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for tok := range setA {
		if setB[tok] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// ContainmentScore reports the fraction of name tokens present in text,
// in [0, 1]. Unlike NameScore it is not diluted by extra tokens in text,
// which makes it the right measure against page titles and snippets.
func ContainmentScore(name, text string) float64 {
	nameToks := tokenSet(name)
	textToks := tokenSet(text)
	if len(nameToks) == 0 || len(textToks) == 0 {
		return 0
	}
	hits := 0
	for tok := range nameToks {
		if textToks[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(nameToks))
}

// LocationMatch reports whether a candidate location is consistent with
// the hint. With no hint, the candidate matches when it mentions any of
// the known regional indicators.
func LocationMatch(candidate, hint string) bool {
	c := strings.ToLower(strings.TrimSpace(candidate))
	if c == "" {
		return false
	}
	if h := strings.ToLower(strings.TrimSpace(hint)); h != "" {
		return strings.Contains(c, h)
	}
	for _, ind := range regionalIndicators {
		if strings.Contains(c, ind) {
			return true
		}
	}
	return false
}

func tokenSet(s string) map[string]bool {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(folded)) {
		tok = strings.Trim(tok, ".,-")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}
