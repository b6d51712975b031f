package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	uitk "narrator-cli/internal/tui"
)

// fixed rows around the conversation pane
const (
	headerHeight = 3
	inputHeight  = 5
	statusHeight = 1

	minPaneHeight = 3
)

func (m *chatModel) resize(width, height int) {
	m.width = max(width, 0)
	m.height = max(height, 0)
	m.viewport.Width = max(m.paneInnerWidth()-1, 1)
	m.viewport.Height = m.paneInnerHeight()
}

func (m chatModel) paneHeight() int {
	return max(m.height-headerHeight-inputHeight-statusHeight, minPaneHeight)
}

func (m chatModel) paneInnerHeight() int { return max(m.paneHeight()-2, 1) }

func (m chatModel) paneInnerWidth() int { return max(m.width-2, 1) }

// renderWidth leaves a margin inside the pane for the scrollbar column.
func (m chatModel) renderWidth() int { return max(m.paneInnerWidth()-4, 1) }

func (m chatModel) View() string {
	if m.quitting || m.width == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m),
		renderConversation(m),
		renderChatInput(m),
		renderStatusBar(m),
	)
}

func renderHeader(m chatModel) string {
	title := "🌀 " + uitk.TitleStyle.Render("The Narrator's Console") +
		uitk.TaglineStyle.Render(" — where reality gets playful")
	return uitk.HeaderStyle.Width(m.width).Render(title + "\n" + m.toast.View())
}

// renderConversation lays the transcript out exactly, then shows it at the
// estimated offset clamped to the exact bounds.
func renderConversation(m chatModel) string {
	rendered := uitk.RenderTranscript(m.transcript.Turns(), m.renderWidth())
	height := m.paneInnerHeight()
	exactMax := max(rendered.Total()-height, 0)
	offset := min(m.view.Offset, exactMax)

	vp := m.viewport
	vp.SetContent(strings.Join(rendered.Styled(), "\n"))
	vp.SetYOffset(offset)

	body := vp.View()
	if rendered.Total() > height {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, uitk.Scrollbar(height, offset, exactMax))
	}
	return uitk.TitledBox(" conversation ", uitk.PaneTitleStyle, uitk.PaneStyle, m.width, m.paneHeight(), body)
}

func renderChatInput(m chatModel) string {
	if m.state == stateAwaitingReply {
		return uitk.TitledBox(" speak into the void ", uitk.InputTitle, uitk.InputBusyStyle, m.width, inputHeight,
			uitk.DimStyle.Render("..."))
	}

	const prompt = "> "
	before, after := m.input.Window(m.paneInnerWidth() - len(prompt))
	cursor, rest := " ", ""
	if after != "" {
		r := []rune(after)
		cursor, rest = string(r[0]), string(r[1:])
	}
	line := uitk.InputTextStyle.Render(prompt+before) +
		uitk.CursorStyle.Render(cursor) +
		uitk.InputTextStyle.Render(rest)
	return uitk.TitledBox(" speak into the void ", uitk.InputTitle, uitk.InputStyle, m.width, inputHeight, line)
}

func renderStatusBar(m chatModel) string {
	dot := uitk.IdleDot.Render("●")
	if m.state == stateAwaitingReply {
		dot = uitk.BusyDot.Render("●") + " " + m.spin.View()
	}
	line := dot + " " + uitk.DimStyle.Render(m.status) +
		uitk.DimStyle.Render(" │ ") + m.help.ShortHelpView(m.keys.ShortHelp())
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}
