package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentityMapping(t *testing.T) {
	l := New(3)
	require.Len(t, l.Filtered, 3)
	for i, f := range l.Filtered {
		assert.Equal(t, i, f.Index)
	}
	require.NotNil(t, l.Selected)
	assert.Equal(t, 0, *l.Selected)
}

func TestNewEmptySelectionIsNil(t *testing.T) {
	l := New(0)
	assert.Nil(t, l.Selected)
}

func TestInsertAndBackspaceUTF8(t *testing.T) {
	l := New(0)
	for _, r := range "héllo" {
		l.InsertChar(r)
	}
	assert.Equal(t, "héllo", l.Search)
	assert.Equal(t, len("héllo"), l.Cursor)

	ok := l.Backspace()
	assert.True(t, ok)
	assert.Equal(t, "héll", l.Search)

	l.CursorStart()
	assert.Equal(t, 0, l.Cursor)
	l.CursorRight()
	assert.Equal(t, 1, l.Cursor)
	l.CursorRight() // crosses the two-byte 'é'
	assert.Equal(t, 3, l.Cursor)
	l.CursorLeft()
	assert.Equal(t, 1, l.Cursor)
}

func TestBackspaceOnEmptyIsNoop(t *testing.T) {
	l := New(0)
	assert.False(t, l.Backspace())
}

func TestDeleteWord(t *testing.T) {
	l := New(0)
	for _, r := range "hello world " {
		l.InsertChar(r)
	}
	l.DeleteWord()
	assert.Equal(t, "hello ", l.Search)
	l.DeleteWord()
	assert.Equal(t, "", l.Search)
}

func TestMoveSelectionClamps(t *testing.T) {
	l := New(3)
	l.MoveSelection(10)
	assert.Equal(t, 2, *l.Selected)
	l.MoveSelection(-10)
	assert.Equal(t, 0, *l.Selected)
}

func TestMoveToTopBottom(t *testing.T) {
	l := New(5)
	l.MoveToBottom()
	assert.Equal(t, 4, *l.Selected)
	l.MoveToTop()
	assert.Equal(t, 0, *l.Selected)
}

func TestApplyEmptySearchIsIdentity(t *testing.T) {
	l := New(3)
	l.Apply([]string{"alpha", "beta", "gamma"})
	require.Len(t, l.Filtered, 3)
	for i, f := range l.Filtered {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, 0, f.Score)
	}
}

func TestApplyFuzzyFiltersAndSorts(t *testing.T) {
	l := New(3)
	l.Search = "mn"
	l.Apply([]string{"main", "demo", "moon"})
	// "main" and "moon" both contain m...n as subsequence; "demo" doesn't.
	indices := make([]int, len(l.Filtered))
	for i, f := range l.Filtered {
		indices[i] = f.Index
	}
	assert.NotContains(t, indices, 1)
	assert.Contains(t, indices, 0)
	assert.Contains(t, indices, 2)
}

func TestApplyNoMatchClearsSelection(t *testing.T) {
	l := New(2)
	l.Search = "zzzzz"
	l.Apply([]string{"alpha", "beta"})
	assert.Empty(t, l.Filtered)
	assert.Nil(t, l.Selected)
}
