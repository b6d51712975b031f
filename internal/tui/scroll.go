package tui

import (
	"strings"

	"narrator-cli/internal/chat"
)

const (
	// ScrollStep is the arrow key and mouse wheel step.
	ScrollStep = 3
	// PageStep is the PgUp/PgDn step.
	PageStep = 10

	// header + spacing (3), paragraph padding (2), separator block (3)
	turnOverhead = 3 + 2 + 3
)

// ViewState is the scroll bookkeeping for the conversation pane.
// After Recompute, 0 <= Offset <= MaxScroll.
type ViewState struct {
	Offset    int
	MaxScroll int
	Pinned    bool
}

// NewViewState starts pinned to the newest content.
func NewViewState() ViewState {
	return ViewState{Pinned: true}
}

// EstimateLines approximates the rendered height of turns without wrapping.
func EstimateLines(turns []chat.Turn) int {
	total := 0
	for _, t := range turns {
		total += turnOverhead + countLines(t.Content)
	}
	return total
}

// EstimateMaxScroll is the estimated scroll limit for a pane of height rows.
func EstimateMaxScroll(turns []chat.Turn, height int) int {
	return max(EstimateLines(turns)-max(height, 0), 0)
}

// Recompute refreshes MaxScroll and clamps or pins Offset.
func (v *ViewState) Recompute(turns []chat.Turn, height int) {
	v.MaxScroll = EstimateMaxScroll(turns, height)
	if v.Pinned {
		v.Offset = v.MaxScroll
		return
	}
	v.Offset = min(max(v.Offset, 0), v.MaxScroll)
}

// ScrollUp moves towards older content and stops following the bottom.
func (v *ViewState) ScrollUp(n int) {
	v.Pinned = false
	v.Offset = max(v.Offset-n, 0)
}

// ScrollDown moves towards newer content; reaching the limit pins again.
func (v *ViewState) ScrollDown(n int) {
	v.Offset = min(v.Offset+n, v.MaxScroll)
	if v.Offset >= v.MaxScroll {
		v.Pinned = true
	}
}

// PinToBottom makes the next Recompute jump to the newest content.
func (v *ViewState) PinToBottom() { v.Pinned = true }

// countLines counts lines the way a line iterator does: a trailing newline
// does not open a new line and the empty string has none.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Split(strings.TrimSuffix(s, "\n"), "\n"))
}
