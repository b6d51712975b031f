package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastShowAndHide(t *testing.T) {
	m := NewToastModel()
	assert.Empty(t, m.View())

	m, cmd := m.Update(ShowToastMsg{Message: "copied"})
	require.NotNil(t, cmd)
	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "copied")

	m, _ = m.Update(HideToastMsg{shownAt: m.timestamp})
	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestToastIgnoresStaleHide(t *testing.T) {
	m := NewToastModel()
	m, _ = m.Update(ShowToastMsg{Message: "first"})
	stale := HideToastMsg{shownAt: m.timestamp.Add(-1)}

	m, _ = m.Update(ShowToastMsg{Message: "second"})
	m, _ = m.Update(stale)
	assert.True(t, m.Visible())
	assert.Equal(t, "second", m.Message())
}

func TestToastPlacesRightWithWidth(t *testing.T) {
	m := NewToastModel()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m, _ = m.Update(ShowToastMsg{Message: "hi"})
	assert.Equal(t, 60, lipgloss.Width(m.View()))
}

func TestShowToastCmd(t *testing.T) {
	msg := ShowToast("done")()
	assert.Equal(t, ShowToastMsg{Message: "done"}, msg)
}
