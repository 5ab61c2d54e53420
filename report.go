package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lambdaed/parinfer/parinfer"
	"github.com/mattn/go-runewidth"
)

var lineEnding = regexp.MustCompile(`\r?\n`)

// errorReport describes an engine failure: where it happened, the line it
// happened on and a caret under the offending column. Line and column are
// shown one-based.
func errorReport(path, text string, perr *parinfer.Error, styled bool) string {
	render := func(style lipgloss.Style, s string) string {
		if !styled {
			return s
		}
		return style.Render(s)
	}

	var b strings.Builder

	title := string(perr.Name)
	if styled {
		title = errorTitleStyle.Render(title)
	}
	loc := fmt.Sprintf("%s:%d:%d", path, perr.LineNo+1, perr.X+1)
	fmt.Fprintf(&b, "%s %s %s\n", title, render(locationStyle, loc), perr.Message)

	lines := lineEnding.Split(text, -1)
	if perr.LineNo < 0 || perr.LineNo >= len(lines) {
		return b.String()
	}

	line := strings.ReplaceAll(lines[perr.LineNo], "\t", "  ")
	gutter := fmt.Sprintf("%4d | ", perr.LineNo+1)
	fmt.Fprintf(&b, "%s%s\n", render(gutterStyle, gutter), render(sourceLineStyle, line))

	pad := strings.Repeat(" ", len(gutter)-2) + "| "
	fmt.Fprintf(&b, "%s%s%s\n", render(gutterStyle, pad), strings.Repeat(" ", caretColumn(line, perr.X)), render(caretStyle, "^"))
	return b.String()
}

// caretColumn returns the display width of the first x runes of line.
func caretColumn(line string, x int) int {
	runes := []rune(line)
	x = min(max(x, 0), len(runes))
	return runewidth.StringWidth(string(runes[:x]))
}
