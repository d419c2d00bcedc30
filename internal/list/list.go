// Package list implements C5: a UTF-8-safe text cursor with
// backspace/word-delete, and fuzzy-scored filtering shared by every
// searchable list in the orchestrator (repositories, branches, new-branch
// bases).
package list

import (
	"sort"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// ScoredIndex pairs a source index with its fuzzy match score.
type ScoredIndex struct {
	Index int
	Score int
}

// SearchableList is mutable search state plus the resulting filtered,
// score-sorted view over some source sequence of length ItemCount.
//
// Invariants (spec P5, §3): Cursor always rests on a codepoint boundary of
// Search; Selected is non-nil iff Filtered is non-empty; when Search is
// empty, Filtered is the identity mapping preserving source order.
type SearchableList struct {
	Search   string
	Cursor   int
	Filtered []ScoredIndex
	Selected *int
}

// New builds a SearchableList over itemCount source items with no filter
// applied (identity mapping, selection on the first item if any exist).
func New(itemCount int) *SearchableList {
	l := &SearchableList{}
	l.Reset(itemCount)
	return l
}

// Reset reinitializes the list to an identity mapping over itemCount items,
// clearing the search string and cursor.
func (l *SearchableList) Reset(itemCount int) {
	l.Search = ""
	l.Cursor = 0
	l.Filtered = identity(itemCount)
	l.Selected = selectedFor(len(l.Filtered))
}

func identity(itemCount int) []ScoredIndex {
	out := make([]ScoredIndex, itemCount)
	for i := range out {
		out[i] = ScoredIndex{Index: i, Score: 0}
	}
	return out
}

func selectedFor(filteredLen int) *int {
	if filteredLen == 0 {
		return nil
	}
	zero := 0
	return &zero
}

// Source adapts a slice of strings (or any []T via a stringer func) to
// fuzzy.Source.
type Source struct {
	Len_    int
	StringF func(i int) string
}

func (s Source) Len() int          { return s.Len_ }
func (s Source) String(i int) string { return s.StringF(i) }

// Apply re-filters the list against items (len(items) == the source length
// the list currently tracks), using names as the lookup for fuzzy matching.
// When Search is empty the filter is the identity mapping with score 0;
// otherwise each item is scored by a Skim-style fuzzy matcher (github.com/
// sahilm/fuzzy) and the result is sorted by score descending, ties broken by
// source order. Selection resets to index 0, or nil if nothing matches.
func (l *SearchableList) Apply(names []string) {
	if l.Search == "" {
		l.Filtered = identity(len(names))
		l.Selected = selectedFor(len(l.Filtered))
		return
	}

	source := Source{Len_: len(names), StringF: func(i int) string { return names[i] }}
	matches := fuzzy.FindFrom(l.Search, source)

	filtered := make([]ScoredIndex, len(matches))
	for i, m := range matches {
		filtered[i] = ScoredIndex{Index: m.Index, Score: m.Score}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})
	l.Filtered = filtered
	l.Selected = selectedFor(len(l.Filtered))
}

// MoveSelection moves the selection by delta, clamping to [0, len-1].
func (l *SearchableList) MoveSelection(delta int) {
	n := len(l.Filtered)
	if n == 0 {
		return
	}
	current := 0
	if l.Selected != nil {
		current = *l.Selected
	}
	next := current + delta
	if next < 0 {
		next = 0
	}
	if next > n-1 {
		next = n - 1
	}
	l.Selected = &next
}

// MoveToTop selects the first filtered item, if any.
func (l *SearchableList) MoveToTop() {
	if len(l.Filtered) == 0 {
		return
	}
	zero := 0
	l.Selected = &zero
}

// MoveToBottom selects the last filtered item, if any.
func (l *SearchableList) MoveToBottom() {
	if len(l.Filtered) == 0 {
		return
	}
	last := len(l.Filtered) - 1
	l.Selected = &last
}

// CursorLeft moves the cursor one codepoint to the left.
func (l *SearchableList) CursorLeft() {
	if l.Cursor == 0 {
		return
	}
	i := l.Cursor - 1
	for i > 0 && !utf8.RuneStart(l.Search[i]) {
		i--
	}
	l.Cursor = i
}

// CursorRight moves the cursor one codepoint to the right.
func (l *SearchableList) CursorRight() {
	if l.Cursor >= len(l.Search) {
		return
	}
	_, size := utf8.DecodeRuneInString(l.Search[l.Cursor:])
	l.Cursor += size
}

// CursorStart moves the cursor to the beginning of the search string.
func (l *SearchableList) CursorStart() { l.Cursor = 0 }

// CursorEnd moves the cursor to the end of the search string.
func (l *SearchableList) CursorEnd() { l.Cursor = len(l.Search) }

// InsertChar inserts c at the current cursor position and advances the
// cursor past it.
func (l *SearchableList) InsertChar(c rune) {
	buf := make([]byte, utf8.UTFMax)
	n := utf8.EncodeRune(buf, c)
	l.Search = l.Search[:l.Cursor] + string(buf[:n]) + l.Search[l.Cursor:]
	l.Cursor += n
}

// Backspace removes the codepoint before the cursor, if any, and reports
// whether it removed something.
func (l *SearchableList) Backspace() bool {
	if l.Cursor == 0 {
		return false
	}
	prev := l.Cursor - 1
	for prev > 0 && !utf8.RuneStart(l.Search[prev]) {
		prev--
	}
	l.Search = l.Search[:prev] + l.Search[l.Cursor:]
	l.Cursor = prev
	return true
}

// DeleteWord deletes whitespace-preceded-by-non-whitespace backwards from
// the cursor: it first skips any trailing whitespace, then deletes the
// run of non-whitespace before it.
func (l *SearchableList) DeleteWord() {
	if l.Search == "" || l.Cursor == 0 {
		return
	}
	bytes := []byte(l.Search)
	newCursor := l.Cursor
	if newCursor > len(bytes) {
		newCursor = len(bytes)
	}
	for newCursor > 0 && isASCIISpace(bytes[newCursor-1]) {
		newCursor--
	}
	for newCursor > 0 && !isASCIISpace(bytes[newCursor-1]) {
		newCursor--
	}
	l.Search = l.Search[:newCursor] + l.Search[l.Cursor:]
	l.Cursor = newCursor
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
