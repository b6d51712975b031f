package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToastDuration is how long a toast stays on screen.
const ToastDuration = 3 * time.Second

// ShowToastMsg asks the toast to display Message.
type ShowToastMsg struct{ Message string }

type HideToastMsg struct{ shownAt time.Time }

// ToastModel is a transient one-line notice drawn under the header title.
type ToastModel struct {
	message   string
	visible   bool
	timestamp time.Time
	width     int
}

func NewToastModel() ToastModel { return ToastModel{} }

// ShowToast is a command that displays message.
func ShowToast(message string) tea.Cmd {
	return func() tea.Msg { return ShowToastMsg{Message: message} }
}

func (m ToastModel) Visible() bool   { return m.visible }
func (m ToastModel) Message() string { return m.message }

func (m ToastModel) Update(msg tea.Msg) (ToastModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowToastMsg:
		m.message = msg.Message
		m.visible = true
		m.timestamp = time.Now()
		shownAt := m.timestamp
		return m, tea.Tick(ToastDuration, func(time.Time) tea.Msg { return HideToastMsg{shownAt: shownAt} })
	case HideToastMsg:
		// a hide scheduled for an older toast must not clear a newer one
		if msg.shownAt.IsZero() || msg.shownAt.Equal(m.timestamp) {
			m.visible = false
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m ToastModel) View() string {
	if !m.visible {
		return ""
	}
	toast := toastStyle.Render(m.message)
	if m.width <= 0 {
		return toast
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toast)
}

var toastStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("230")).
	Background(colorNarrator).
	Padding(0, 2).
	MarginRight(2).
	Bold(true)
