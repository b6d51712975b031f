package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TitledBox draws body inside border with title set into the top edge.
// width and height are the outer size including the border.
func TitledBox(title string, titleStyle, border lipgloss.Style, width, height int, body string) string {
	inner := max(width-2, 0)
	edge := lipgloss.NewStyle().Foreground(border.GetBorderTopForeground())

	title = runewidth.Truncate(title, inner, "")
	fill := max(inner-runewidth.StringWidth(title), 0)
	top := edge.Render("┌") + titleStyle.Render(title) + edge.Render(strings.Repeat("─", fill)+"┐")

	box := border.
		BorderTop(false).
		Width(inner).
		Height(max(height-2, 0)).
		MaxHeight(max(height-1, 0)).
		Render(body)
	return top + "\n" + box
}

// Scrollbar renders a vertical bar of height rows for a view positioned at
// offset out of maxScroll.
func Scrollbar(height, offset, maxScroll int) string {
	if height <= 0 {
		return ""
	}
	if height < 3 {
		return strings.TrimSuffix(strings.Repeat(DimStyle.Render("│")+"\n", height), "\n")
	}
	track := height - 2
	thumb := 0
	if maxScroll > 0 {
		offset = min(max(offset, 0), maxScroll)
		thumb = (offset*(track-1) + maxScroll/2) / maxScroll
	}

	rows := make([]string, 0, height)
	rows = append(rows, DimStyle.Render("↑"))
	for i := range track {
		if i == thumb {
			rows = append(rows, ThumbStyle.Render("█"))
		} else {
			rows = append(rows, DimStyle.Render("│"))
		}
	}
	rows = append(rows, DimStyle.Render("↓"))
	return strings.Join(rows, "\n")
}
