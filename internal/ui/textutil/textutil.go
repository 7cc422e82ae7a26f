// Package textutil provides unicode-aware text utilities for TUI rendering.
package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateEllipsis is the unicode ellipsis character used for truncation.
const TruncateEllipsis = "…"

// VisualWidth returns the number of terminal columns s occupies.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most maxWidth columns, ending in an ellipsis when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	available := maxWidth - VisualWidth(TruncateEllipsis)
	if available < 0 {
		return TruncateEllipsis
	}
	return runewidth.Truncate(s, available, "") + TruncateEllipsis
}

// Wrap breaks s into lines of at most width columns.
// Words are kept whole unless a single word is wider than width.
// Existing newlines are preserved.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapParagraph(para, width)...)
	}
	return lines
}

func wrapParagraph(para string, width int) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, w := range words {
		ww := VisualWidth(w)
		for ww > width {
			if lineWidth > 0 {
				flush()
			}
			head := runewidth.Truncate(w, width, "")
			if head == "" {
				// A single rune wider than width; emit it alone.
				r := []rune(w)
				head = string(r[0])
			}
			lines = append(lines, head)
			w = w[len(head):]
			ww = VisualWidth(w)
		}
		if ww == 0 {
			continue
		}
		if lineWidth > 0 && lineWidth+1+ww > width {
			flush()
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(w)
		lineWidth += ww
	}
	if lineWidth > 0 {
		flush()
	}
	return lines
}
