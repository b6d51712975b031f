package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// InputBuffer is a single-line edit buffer with a rune cursor.
// 0 <= cursor <= len(runes) holds after every operation.
type InputBuffer struct {
	runes  []rune
	cursor int
}

// Value returns the buffer text.
func (b *InputBuffer) Value() string { return string(b.runes) }

// Len returns the buffer length in runes.
func (b *InputBuffer) Len() int { return len(b.runes) }

// Cursor returns the cursor index in runes.
func (b *InputBuffer) Cursor() int { return b.cursor }

// Insert places runes at the cursor and moves the cursor past them.
// Newlines and tabs are folded into spaces; other control runes are dropped.
func (b *InputBuffer) Insert(rs ...rune) {
	clean := make([]rune, 0, len(rs))
	for _, r := range rs {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			clean = append(clean, ' ')
		case r < 0x20 || r == 0x7f:
		default:
			clean = append(clean, r)
		}
	}
	if len(clean) == 0 {
		return
	}
	next := make([]rune, 0, len(b.runes)+len(clean))
	next = append(next, b.runes[:b.cursor]...)
	next = append(next, clean...)
	next = append(next, b.runes[b.cursor:]...)
	b.runes = next
	b.cursor += len(clean)
}

// Backspace removes the rune before the cursor.
func (b *InputBuffer) Backspace() {
	if b.cursor == 0 {
		return
	}
	b.runes = append(b.runes[:b.cursor-1], b.runes[b.cursor:]...)
	b.cursor--
}

// Delete removes the rune under the cursor.
func (b *InputBuffer) Delete() {
	if b.cursor >= len(b.runes) {
		return
	}
	b.runes = append(b.runes[:b.cursor], b.runes[b.cursor+1:]...)
}

func (b *InputBuffer) Left() {
	if b.cursor > 0 {
		b.cursor--
	}
}

func (b *InputBuffer) Right() {
	if b.cursor < len(b.runes) {
		b.cursor++
	}
}

func (b *InputBuffer) Home() { b.cursor = 0 }

func (b *InputBuffer) End() { b.cursor = len(b.runes) }

// Reset empties the buffer.
func (b *InputBuffer) Reset() {
	b.runes = nil
	b.cursor = 0
}

// Trimmed returns the buffer text without surrounding whitespace.
func (b *InputBuffer) Trimmed() string {
	return strings.TrimSpace(string(b.runes))
}

// Window returns the slice of the buffer that fits in width display cells
// while keeping the cursor visible, split around the cursor. The cursor cell
// itself is the first rune of after (or a blank when at the end).
func (b *InputBuffer) Window(width int) (before, after string) {
	if width <= 1 {
		return "", ""
	}
	// reserve one cell for the cursor block at the end of the line
	budget := width - 1
	start := 0
	for runewidth.StringWidth(string(b.runes[start:b.cursor])) > budget {
		start++
	}
	before = string(b.runes[start:b.cursor])
	remaining := budget - runewidth.StringWidth(before)
	after = runewidth.Truncate(string(b.runes[b.cursor:]), remaining+1, "")
	return before, after
}
