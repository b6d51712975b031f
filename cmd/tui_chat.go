package cmd

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"narrator-cli/cmd/utils"
	"narrator-cli/internal/chat"
	uitk "narrator-cli/internal/tui"
)

const (
	statusIdle    = "awaiting input"
	statusWaiting = "the narrator ponders..."
	statusFailed  = "reality glitched"
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateAwaitingReply
)

func (s sessionState) String() string {
	if s == stateAwaitingReply {
		return "awaiting-reply"
	}
	return "idle"
}

// replyMsg settles the single outstanding completion.
type replyMsg struct {
	content string
	err     error
}

// chatModel is the whole session: it owns the transcript, the input buffer
// and the scroll state, and is only ever mutated from Update.
type chatModel struct {
	ctx        context.Context
	completer  Completer
	transcript *chat.Transcript
	input      uitk.InputBuffer
	view       uitk.ViewState
	state      sessionState
	status     string

	width    int
	height   int
	viewport viewport.Model
	spin     spinner.Model
	toast    uitk.ToastModel
	keys     keyMap
	help     help.Model

	writeClipboard func(string) error
	notice         string
	quitting       bool
}

func newChatModel(ctx context.Context, completer Completer, width, height int) chatModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = uitk.BusyDot

	m := chatModel{
		ctx:            ctx,
		completer:      completer,
		transcript:     chat.NewTranscript(),
		view:           uitk.NewViewState(),
		state:          stateIdle,
		status:         statusIdle,
		viewport:       viewport.New(0, 0),
		spin:           s,
		toast:          uitk.NewToastModel(),
		keys:           newKeyMap(),
		help:           newHelpModel(),
		writeClipboard: clipboard.WriteAll,
	}
	m.resize(width, height)
	return m
}

// Init shows the startup notice, if any. Nothing else runs until a key.
func (m chatModel) Init() tea.Cmd {
	if m.notice == "" {
		return nil
	}
	return uitk.ShowToast(m.notice)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		var cmd tea.Cmd
		m.toast, cmd = m.toast.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// only quit is honoured while a reply is outstanding
		if m.state == stateAwaitingReply {
			return m, nil
		}
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		if m.state == stateIdle && msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.view.ScrollUp(uitk.ScrollStep)
			case tea.MouseButtonWheelDown:
				m.view.ScrollDown(uitk.ScrollStep)
			}
		}

	case replyMsg:
		cmds = append(cmds, m.settle(msg))

	case spinner.TickMsg:
		if m.state == stateAwaitingReply {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case utils.TUIMessageMsg:
		cmds = append(cmds, uitk.ShowToast(msg.Message.Content))

	case uitk.ShowToastMsg, uitk.HideToastMsg:
		var cmd tea.Cmd
		m.toast, cmd = m.toast.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.view.Recompute(m.transcript.Turns(), m.paneInnerHeight())
	return m, tea.Batch(cmds...)
}

func (m *chatModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Backspace):
		m.input.Backspace()
	case key.Matches(msg, m.keys.Delete):
		m.input.Delete()
	case key.Matches(msg, m.keys.Left):
		m.input.Left()
	case key.Matches(msg, m.keys.Right):
		m.input.Right()
	case key.Matches(msg, m.keys.Home):
		m.input.Home()
	case key.Matches(msg, m.keys.End):
		m.input.End()
	case key.Matches(msg, m.keys.Up):
		m.view.ScrollUp(uitk.ScrollStep)
	case key.Matches(msg, m.keys.Down):
		m.view.ScrollDown(uitk.ScrollStep)
	case key.Matches(msg, m.keys.PageUp):
		m.view.ScrollUp(uitk.PageStep)
	case key.Matches(msg, m.keys.PageDown):
		m.view.ScrollDown(uitk.PageStep)
	case key.Matches(msg, m.keys.Copy):
		return m.copyLastNarration()
	case msg.Type == tea.KeySpace:
		m.input.Insert(' ')
	case msg.Type == tea.KeyRunes:
		m.input.Insert(msg.Runes...)
	}
	return nil
}

// submit moves Idle to Awaiting-Reply. An input that is blank after
// trimming leaves everything untouched.
func (m *chatModel) submit() tea.Cmd {
	text := m.input.Trimmed()
	if text == "" {
		return nil
	}
	m.input.Reset()
	m.transcript.Append(chat.Turn{Role: chat.RoleUser, Content: text})
	m.state = stateAwaitingReply
	m.status = statusWaiting
	utils.LogDebug(fmt.Sprintf("submitted turn %d (%d chars)", m.transcript.Len(), len(text)))

	return tea.Batch(m.spin.Tick, completeCmd(m.ctx, m.completer, m.transcript.Turns()))
}

// settle moves Awaiting-Reply back to Idle with exactly one Narrator turn.
func (m *chatModel) settle(msg replyMsg) tea.Cmd {
	if m.state != stateAwaitingReply {
		return nil
	}
	m.state = stateIdle
	m.view.PinToBottom()

	if msg.err != nil {
		utils.LogDebug(fmt.Sprintf("completion failed: %v", msg.err))
		m.transcript.Append(chat.FailureTurn(msg.err))
		m.status = statusFailed
		return uitk.ShowToast(statusFailed)
	}
	m.transcript.Append(chat.Turn{Role: chat.RoleNarrator, Content: msg.content})
	m.status = statusIdle
	return nil
}

func (m *chatModel) copyLastNarration() tea.Cmd {
	turn, ok := m.transcript.Last(chat.RoleNarrator)
	if !ok {
		return nil
	}
	if err := m.writeClipboard(turn.Content); err != nil {
		utils.LogDebug(fmt.Sprintf("clipboard write failed: %v", err))
		return uitk.ShowToast("clipboard unavailable")
	}
	return uitk.ShowToast("narration copied")
}

func completeCmd(ctx context.Context, c Completer, turns []chat.Turn) tea.Cmd {
	return func() tea.Msg {
		content, err := c.Complete(ctx, turns)
		return replyMsg{content: content, err: err}
	}
}
