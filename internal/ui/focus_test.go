package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFocusManager_NextPrev(t *testing.T) {
	var changes []string
	f := &FocusManager{
		Current:  "a",
		Order:    []string{"a", "b", "c"},
		OnChange: func(from, to string) { changes = append(changes, from+">"+to) },
	}

	assert.Equal(t, "b", f.Next())
	assert.Equal(t, "c", f.Next())
	assert.Equal(t, "a", f.Next())
	assert.Equal(t, "c", f.Prev())
	assert.Equal(t, []string{"a>b", "b>c", "c>a", "a>c"}, changes)
}

func TestFocusManager_SkipsDisabled(t *testing.T) {
	disabled := map[string]bool{"b": true}
	f := &FocusManager{
		Current: "a",
		Order:   []string{"a", "b", "c"},
		Enabled: func(id string) bool { return !disabled[id] },
	}

	assert.Equal(t, "c", f.Next())
	assert.Equal(t, "a", f.Next())
	assert.False(t, f.SetFocus("b"))
	assert.False(t, f.SetFocus("zzz"))
	assert.True(t, f.SetFocus("c"))
	assert.Equal(t, "c", f.Current)
}

func TestFocusManager_Empty(t *testing.T) {
	f := &FocusManager{}
	assert.Equal(t, "", f.Next())
	assert.Equal(t, "", f.Prev())
}
