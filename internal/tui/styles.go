package tui

import (
	"github.com/charmbracelet/lipgloss"

	"narrator-cli/internal/chat"
)

var (
	colorUser     = lipgloss.Color("#f472b6")
	colorNarrator = lipgloss.Color("#8b5cf6")
	colorDim      = lipgloss.Color("240")
	colorAccent   = lipgloss.Color("6")
	colorTitle    = lipgloss.Color("5")
	colorText     = lipgloss.Color("15")
	colorIdle     = lipgloss.Color("2")
	colorBusy     = lipgloss.Color("3")
)

type roleStyle struct {
	label string
	style lipgloss.Style
}

var roleStyles = map[chat.Role]roleStyle{
	chat.RoleUser:     {label: "✦ You", style: lipgloss.NewStyle().Foreground(colorUser)},
	chat.RoleNarrator: {label: "🎭 Narrator", style: lipgloss.NewStyle().Foreground(colorNarrator)},
	chat.RoleSystem:   {label: "⚙ System", style: lipgloss.NewStyle().Foreground(colorDim)},
}

// RoleLabel is the header text rendered above a turn.
func RoleLabel(r chat.Role) string {
	if s, ok := roleStyles[r]; ok {
		return s.label
	}
	return r.String()
}

var (
	stageStyle     = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	emphasisStyle  = lipgloss.NewStyle().Italic(true)
	plainStyle     = lipgloss.NewStyle().Foreground(colorText)
	separatorStyle = lipgloss.NewStyle().Foreground(colorDim)

	TitleStyle   = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	TaglineStyle = lipgloss.NewStyle().Foreground(colorDim)
	HeaderStyle  = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorDim)

	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorDim)
	PaneTitleStyle = lipgloss.NewStyle().Foreground(colorDim)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorAccent)
	InputBusyStyle = InputStyle.BorderForeground(colorDim)
	InputTitle     = lipgloss.NewStyle().Foreground(colorAccent)
	InputTextStyle = lipgloss.NewStyle().Foreground(colorText)
	CursorStyle    = lipgloss.NewStyle().Reverse(true)
	DimStyle       = lipgloss.NewStyle().Foreground(colorDim)
	ThumbStyle     = lipgloss.NewStyle().Foreground(colorNarrator)

	IdleDot = lipgloss.NewStyle().Foreground(colorIdle)
	BusyDot = lipgloss.NewStyle().Foreground(colorBusy)
)

// StyleLine renders one display line with its class style.
func StyleLine(l Line) string {
	switch l.Class {
	case ClassHeader:
		rs, ok := roleStyles[l.Role]
		if !ok {
			return l.Text
		}
		return rs.style.Bold(true).Render(l.Text)
	case ClassStageDirection:
		return stageStyle.Render(l.Text)
	case ClassEmphasis:
		return emphasisStyle.Render(l.Text)
	case ClassPlain:
		return plainStyle.Render(l.Text)
	case ClassSeparator:
		return separatorStyle.Render(l.Text)
	default:
		return ""
	}
}

// Styled renders every line, ready to hand to a viewport.
func (r Rendered) Styled() []string {
	out := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = StyleLine(l)
	}
	return out
}
