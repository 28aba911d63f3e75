// Package search matches a typed query against the names in a pane.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// MatchResult contains match information for one name
type MatchResult struct {
	Index          int
	MatchedIndexes []int
}

// SubstringMatchNames performs case-insensitive substring matching on a list of names
// Returns the indices of matches and their matched character positions
func SubstringMatchNames(query string, names []string) []MatchResult {
	if query == "" {
		return nil
	}

	lowerQuery := strings.ToLower(query)
	var results []MatchResult

	for i, name := range names {
		lowerName := strings.ToLower(name)
		if idx := strings.Index(lowerName, lowerQuery); idx != -1 {
			matchedIndexes := make([]int, len(lowerQuery))
			for j := range matchedIndexes {
				matchedIndexes[j] = idx + j
			}
			results = append(results, MatchResult{
				Index:          i,
				MatchedIndexes: matchedIndexes,
			})
		}
	}

	return results
}

// FuzzyMatchNames matches query as an in-order subsequence of each name,
// best score first.
func FuzzyMatchNames(query string, names []string) []MatchResult {
	if query == "" {
		return nil
	}

	matches := fuzzy.Find(query, names)
	results := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, MatchResult{
			Index:          m.Index,
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	return results
}

// Rank orders every name that matches query: exact matches, then prefix
// matches, then other substring matches in listing order, then fuzzy-only
// matches by score.
func Rank(query string, names []string) []MatchResult {
	if query == "" {
		return nil
	}

	lowerQuery := strings.ToLower(query)
	var exact, prefix, inner []MatchResult
	seen := make(map[int]bool)
	for _, m := range SubstringMatchNames(query, names) {
		seen[m.Index] = true
		lowerName := strings.ToLower(names[m.Index])
		switch {
		case lowerName == lowerQuery:
			exact = append(exact, m)
		case strings.HasPrefix(lowerName, lowerQuery):
			prefix = append(prefix, m)
		default:
			inner = append(inner, m)
		}
	}

	ranked := append(append(exact, prefix...), inner...)
	for _, m := range FuzzyMatchNames(query, names) {
		if !seen[m.Index] {
			ranked = append(ranked, m)
		}
	}
	return ranked
}

// Best returns the index of the best match for query, if any.
func Best(query string, names []string) (int, bool) {
	ranked := Rank(query, names)
	if len(ranked) == 0 {
		return -1, false
	}
	return ranked[0].Index, true
}
