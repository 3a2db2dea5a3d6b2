package service

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
)

// MaxSearchResults caps the matches returned by a search.
const MaxSearchResults = 10

// titleWeight counts title terms more than description terms.
const titleWeight = 2

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "i": {}, "in": {}, "is": {}, "it": {}, "me": {}, "my": {},
	"of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {},
	"was": {}, "what": {}, "with": {},
}

// Rank scores notes against query by cosine similarity of term-frequency
// vectors and returns at most limit matches with a positive score, best first.
// Ties keep the newer note first.
func Rank(query string, notes []domain.Note, limit int) []domain.SearchMatch {
	q := termVector(query, 1)
	matches := []domain.SearchMatch{}
	if len(q) == 0 {
		return matches
	}

	for _, n := range notes {
		doc := termVector(n.Title, titleWeight)
		for term, w := range termVector(n.Description, 1) {
			doc[term] += w
		}
		score := cosine(q, doc)
		if score <= 0 {
			continue
		}
		matches = append(matches, domain.SearchMatch{ID: n.ID, Title: n.Title, Score: score})
	}

	slices.SortStableFunc(matches, func(a, b domain.SearchMatch) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func termVector(text string, weight float64) map[string]float64 {
	v := make(map[string]float64)
	for _, tok := range tokenize(text) {
		v[tok] += weight
	}
	return v
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, stem(f))
	}
	return out
}

// stem strips a plural "s" so "notes" matches "note".
func stem(word string) string {
	if len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return word[:len(word)-1]
	}
	return word
}

func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for term, wa := range a {
		na += wa * wa
		dot += wa * b[term]
	}
	for _, wb := range b {
		nb += wb * wb
	}
	if dot == 0 || na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
