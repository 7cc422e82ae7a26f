package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscript_AppendAndLoading(t *testing.T) {
	tr := NewTranscript()
	assert.Equal(t, Greeting, tr.Last())

	tr.Add(RoleUser, "question")
	tr.ShowLoading()
	tr.ShowLoading()
	assert.True(t, tr.Loading)
	assert.Len(t, tr.Messages, 2)

	tr.HideLoading()
	tr.HideLoading()
	assert.False(t, tr.Loading)
}

func TestTranscript_Render(t *testing.T) {
	tr := &Transcript{}
	tr.Bot("hello there")
	tr.Add(RoleUser, "a fairly long question that has to wrap")
	tr.ShowLoading()

	out := tr.Render(25)
	assert.Contains(t, out, "bot")
	assert.Contains(t, out, "you")
	assert.Contains(t, out, "...")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 25+20, "line %q", line)
	}
	assert.Contains(t, out, "a fairly long")
	assert.Contains(t, out, "question")
}
