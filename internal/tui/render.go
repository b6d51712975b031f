package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"narrator-cli/internal/chat"
)

// LineClass is the style class of one display line.
type LineClass int

const (
	ClassBlank LineClass = iota
	ClassHeader
	ClassStageDirection
	ClassEmphasis
	ClassPlain
	ClassSeparator
)

// Line is one display line of the conversation pane.
type Line struct {
	Text  string
	Class LineClass
	Role  chat.Role
}

// Rendered is the flat display form of a transcript at a given width.
type Rendered struct {
	Lines []Line
}

// Total is the exact number of display lines.
func (r Rendered) Total() int { return len(r.Lines) }

// Classify decides the style class of an already wrapped line. A bracket or
// asterisk pair split across a wrap boundary is deliberately left plain.
func Classify(line string) LineClass {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return ClassStageDirection
	case strings.HasPrefix(line, "*") && strings.HasSuffix(line, "*"):
		return ClassEmphasis
	default:
		return ClassPlain
	}
}

// Wrap breaks one source line into lines of at most width cells, on word
// boundaries where possible and hard-breaking words longer than width.
func Wrap(line string, width int) []string {
	width = max(width, 1)
	wrapped := wrap.String(wordwrap.String(line, width), width)
	out := strings.Split(wrapped, "\n")
	for i := range out {
		out[i] = strings.TrimRight(out[i], " ")
	}
	return out
}

// RenderTranscript lays every turn out as header, blank, wrapped paragraphs
// (each followed by a blank) and a separator block.
func RenderTranscript(turns []chat.Turn, width int) Rendered {
	var lines []Line
	blank := Line{Class: ClassBlank}
	rule := strings.Repeat("─", min(max(width, 0), 40))

	for _, t := range turns {
		lines = append(lines, Line{Text: RoleLabel(t.Role), Class: ClassHeader, Role: t.Role}, blank)

		for _, paragraph := range strings.Split(t.Content, "\n\n") {
			for _, src := range sourceLines(paragraph) {
				if src == "" {
					lines = append(lines, blank)
					continue
				}
				for _, w := range Wrap(src, width) {
					lines = append(lines, Line{Text: w, Class: Classify(w), Role: t.Role})
				}
			}
			lines = append(lines, blank)
		}

		lines = append(lines, blank, Line{Text: rule, Class: ClassSeparator}, blank)
	}
	return Rendered{Lines: lines}
}

func sourceLines(s string) []string {
	if s == "" {
		return nil
	}
	out := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i := range out {
		out[i] = strings.TrimSuffix(out[i], "\r")
	}
	return out
}
