package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisualWidth(t *testing.T) {
	assert.Equal(t, 5, VisualWidth("hello"))
	assert.Equal(t, 4, VisualWidth("日本"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel…", Truncate("hello world", 4))
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "…", Truncate("日本語", 1))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"the quick", "brown fox"}, Wrap("the quick brown fox", 10))
	assert.Equal(t, []string{"one", "", "two"}, Wrap("one\n\ntwo", 10))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, Wrap("abcdefghij", 4))
	assert.Equal(t, []string{"a", "abcd", "ef b"}, Wrap("a abcdef b", 4))
	assert.Equal(t, []string{"unchanged"}, Wrap("unchanged", 0))
}
