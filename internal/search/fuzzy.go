package search

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Match pairs a candidate index with its fuzzy score. Matches are transient;
// they are produced per query and never stored.
type Match struct {
	Index int
	Score float64
}

const scoreEpsilon = 1e-9

// Matcher performs fuzzy pattern matching.
// Algorithm: case-insensitive ordered subsequence, fzf-style scoring:
//   - every pattern rune must appear in the text in order, not necessarily
//     contiguous; otherwise the candidate is excluded
//   - consecutive matches and matches on word boundaries score higher
//   - contiguous substring occurrences get an extra bonus, prefix
//     occurrences the largest one
//   - gaps between matched runes are penalized
type Matcher struct {
	charBonus         float64
	consecutiveBonus  float64
	wordBoundaryBonus float64
	substringBonus    float64
	prefixBonus       float64
	gapPenalty        float64
	leadingPenalty    float64
}

// NewMatcher creates a matcher with the default weights.
func NewMatcher() *Matcher {
	return &Matcher{
		charBonus:         1.0,
		consecutiveBonus:  1.2,
		wordBoundaryBonus: 0.8,
		substringBonus:    1.2,
		prefixBonus:       2.4,
		gapPenalty:        0.15,
		leadingPenalty:    0.01,
	}
}

// Match scores pattern against text. The second return value is false when
// the pattern is not an ordered subsequence of the text; the score is only
// meaningful when it is true. An empty pattern matches everything with a
// neutral score.
func (m *Matcher) Match(pattern, text string) (float64, bool) {
	if pattern == "" {
		return 1.0, true
	}

	p := foldRunes(pattern)
	t := foldRunes(text)
	if len(p) > len(t) {
		return 0, false
	}

	positions, ok := subsequencePositions(p, t)
	if !ok {
		return 0, false
	}

	score := 0.0
	for i, pos := range positions {
		score += m.charBonus
		if isWordBoundary(t, pos) {
			score += m.wordBoundaryBonus
		}
		if i == 0 {
			score -= m.leadingPenalty * float64(pos)
			continue
		}
		gap := pos - positions[i-1] - 1
		if gap == 0 {
			score += m.consecutiveBonus
		} else {
			score -= m.gapPenalty * float64(gap)
		}
	}

	if idx := indexRunes(t, p); idx >= 0 {
		score += m.substringBonus
		if idx == 0 {
			score += m.prefixBonus
		}
	}

	return score, true
}

// Rank scores every candidate and returns the matches ordered best-first.
// Ties break by shorter candidate, then by input order (stable). An empty
// pattern yields all candidates in input order with a neutral score. A
// limit of zero or less means no truncation; otherwise the ranked list is
// cut after limit entries. The limit never affects scoring.
func (m *Matcher) Rank(pattern string, texts []string, limit int) []Match {
	matches := make([]Match, 0, len(texts))

	if pattern == "" {
		for idx := range texts {
			matches = append(matches, Match{Index: idx, Score: 1.0})
		}
		return truncateMatches(matches, limit)
	}

	for idx, text := range texts {
		if score, ok := m.Match(pattern, text); ok {
			matches = append(matches, Match{Index: idx, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if math.Abs(a.Score-b.Score) > scoreEpsilon {
			return a.Score > b.Score
		}
		if la, lb := len(texts[a.Index]), len(texts[b.Index]); la != lb {
			return la < lb
		}
		return a.Index < b.Index
	})

	return truncateMatches(matches, limit)
}

func truncateMatches(matches []Match, limit int) []Match {
	if limit > 0 && len(matches) > limit {
		return matches[:limit]
	}
	return matches
}

// subsequencePositions finds the leftmost positions of pattern inside text.
func subsequencePositions(pattern, text []rune) ([]int, bool) {
	positions := make([]int, 0, len(pattern))
	ti := 0
	for _, pr := range pattern {
		found := false
		for ; ti < len(text); ti++ {
			if text[ti] == pr {
				positions = append(positions, ti)
				ti++
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return positions, true
}

func isWordBoundary(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev := text[idx-1]
	switch prev {
	case '/', '\\', '-', '_', ' ', '.', ':':
		return true
	}
	return !unicode.IsLetter(prev) && unicode.IsLetter(text[idx])
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	if len(needle) > len(haystack) {
		return -1
	}
outer:
	for i := 0; i <= len(haystack)-len(needle); i++ {
		if haystack[i] != needle[0] {
			continue
		}
		for j := 1; j < len(needle); j++ {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

func foldRunes(s string) []rune {
	lowered := strings.ToLower(s)
	runes := make([]rune, 0, len(lowered))
	for _, r := range lowered {
		runes = append(runes, r)
	}
	return runes
}
