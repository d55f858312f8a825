package search

import (
	"strings"
	"testing"
)

func TestMatch_BasicMatching(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"", "anything", true},       // empty pattern matches everything
		{"a", "apple", true},         // single char
		{"app", "apple", true},       // prefix
		{"apl", "apple", true},       // fuzzy (a, p, l)
		{"abc", "axbycz", true},      // non-consecutive
		{"xyz", "apple", false},      // no match
		{"vsc", "Visual Studio Code", true},
		{"firefox", "Firefox", true}, // case-insensitive
		{"FIREFOX", "firefox", true},
		{"zzzzz", "Firefox", false},
		{"longpattern", "short", false}, // pattern longer than text
	}

	for _, tt := range tests {
		score, matched := m.Match(tt.pattern, tt.text)
		if matched != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v (score: %f)",
				tt.pattern, tt.text, matched, tt.want, score)
		}
	}
}

// Every matched pattern must be an ordered, case-insensitive subsequence of
// the text.
func TestMatch_SubsequenceProperty(t *testing.T) {
	m := NewMatcher()

	patterns := []string{"ff", "code", "vlc", "dn", "img", "a", "ox"}
	texts := []string{"Firefox", "Visual Studio Code", "VLC media player", "Downloads", "image.png", "A"}

	for _, pattern := range patterns {
		for _, text := range texts {
			_, matched := m.Match(pattern, text)
			if matched && !isSubsequence(strings.ToLower(pattern), strings.ToLower(text)) {
				t.Errorf("Match(%q, %q) reported a match but pattern is not a subsequence", pattern, text)
			}
			if !matched && isSubsequence(strings.ToLower(pattern), strings.ToLower(text)) {
				t.Errorf("Match(%q, %q) missed a valid subsequence", pattern, text)
			}
		}
	}
}

func isSubsequence(pattern, text string) bool {
	ti := 0
	for _, pr := range pattern {
		found := false
		for ; ti < len(text); ti++ {
			if rune(text[ti]) == pr {
				ti++
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestMatch_PrefixBeatsScattered(t *testing.T) {
	m := NewMatcher()

	prefixScore, ok := m.Match("fire", "Firefox")
	if !ok {
		t.Fatal("expected prefix match")
	}
	scatteredScore, ok := m.Match("fire", "File Archiver Explorer")
	if !ok {
		t.Fatal("expected scattered match")
	}
	if prefixScore <= scatteredScore {
		t.Errorf("prefix score %f should beat scattered score %f", prefixScore, scatteredScore)
	}
}

func TestRank_EmptyPatternKeepsInputOrder(t *testing.T) {
	m := NewMatcher()
	texts := []string{"Charlie", "Alpha", "Beta"}

	matches := m.Rank("", texts, 0)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	for i, match := range matches {
		if match.Index != i {
			t.Errorf("match %d has index %d, want %d (input order)", i, match.Index, i)
		}
	}
}

func TestRank_BestFirst(t *testing.T) {
	m := NewMatcher()
	texts := []string{"Visual Studio Code", "Vim", "VLC"}

	matches := m.Rank("vim", texts, 0)
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	if matches[0].Index != 1 {
		t.Errorf("best match index = %d, want 1 (Vim)", matches[0].Index)
	}
}

func TestRank_TieBreaksByLengthThenOrder(t *testing.T) {
	m := NewMatcher()
	// Identical folded texts score identically; the shorter one wins, and
	// equal lengths fall back to input order.
	texts := []string{"abcdX", "abcd", "ABCD"}

	matches := m.Rank("abcd", texts, 0)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	if matches[0].Index != 1 {
		t.Errorf("first match index = %d, want 1 (shorter text)", matches[0].Index)
	}
	if matches[1].Index != 2 {
		t.Errorf("second match index = %d, want 2 (same length, later input)", matches[1].Index)
	}
	if matches[2].Index != 0 {
		t.Errorf("third match index = %d, want 0 (longest)", matches[2].Index)
	}
}

func TestRank_LimitTruncatesAfterSorting(t *testing.T) {
	m := NewMatcher()
	texts := []string{"match aaa", "exact", "exact thing"}

	limited := m.Rank("exact", texts, 1)
	full := m.Rank("exact", texts, 0)
	if len(limited) != 1 {
		t.Fatalf("got %d matches, want 1", len(limited))
	}
	if limited[0] != full[0] {
		t.Errorf("limit changed the top result: %+v vs %+v", limited[0], full[0])
	}
}

func TestRank_NoMatchesReturnsEmpty(t *testing.T) {
	m := NewMatcher()
	matches := m.Rank("zzzz", []string{"Firefox", "Chrome"}, 10)
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}
