package cmd

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narrator-cli/cmd/utils"
	"narrator-cli/internal/chat"
	uitk "narrator-cli/internal/tui"
)

type fakeCompleter struct {
	reply string
	err   error
	calls int
	got   []chat.Turn
}

func (f *fakeCompleter) Complete(_ context.Context, turns []chat.Turn) (string, error) {
	f.calls++
	f.got = turns
	return f.reply, f.err
}

func newTestModel(c Completer) chatModel {
	return newChatModel(context.Background(), c, 80, 30)
}

func send(t *testing.T, m chatModel, msg tea.Msg) (chatModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	cm, ok := next.(chatModel)
	require.True(t, ok, "Update must keep returning chatModel")
	return cm, cmd
}

func typeText(t *testing.T, m chatModel, s string) chatModel {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// collect runs cmd, flattening batches, and keeps every message produced
// within a short window. Timers such as spinner or toast ticks are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-out:
	case <-time.After(200 * time.Millisecond):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findReply(t *testing.T, msgs []tea.Msg) replyMsg {
	t.Helper()
	for _, msg := range msgs {
		if r, ok := msg.(replyMsg); ok {
			return r
		}
	}
	t.Fatalf("no replyMsg among %d messages", len(msgs))
	return replyMsg{}
}

func TestSubmitAppendsExactlyTwoTurns(t *testing.T) {
	fc := &fakeCompleter{reply: "hi there"}
	m := newTestModel(fc)
	require.Equal(t, 1, m.transcript.Len())

	m = typeText(t, m, "  hello ")
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, stateAwaitingReply, m.state)
	assert.Equal(t, statusWaiting, m.status)
	assert.Equal(t, 0, m.input.Len())
	assert.Equal(t, 0, m.input.Cursor())
	require.Equal(t, 2, m.transcript.Len())
	last, _ := m.transcript.Last(chat.RoleUser)
	assert.Equal(t, "hello", last.Content)

	reply := findReply(t, collect(cmd))
	assert.Equal(t, 1, fc.calls)
	assert.Len(t, fc.got, 2)

	m, _ = send(t, m, reply)
	assert.Equal(t, stateIdle, m.state)
	assert.Equal(t, statusIdle, m.status)
	require.Equal(t, 3, m.transcript.Len())
	turns := m.transcript.Turns()
	assert.Equal(t, chat.Turn{Role: chat.RoleNarrator, Content: "hi there"}, turns[2])
	assert.True(t, m.view.Pinned)
}

func TestEmptySubmitIsNoOp(t *testing.T) {
	fc := &fakeCompleter{reply: "unused"}
	m := newTestModel(fc)
	m = typeText(t, m, "   ")

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, stateIdle, m.state)
	assert.Equal(t, 1, m.transcript.Len())
	assert.Equal(t, "   ", m.input.Value())
	assert.Equal(t, 0, fc.calls)
}

func TestFailureBecomesNarratorTurn(t *testing.T) {
	srv, _ := newCompletionServer(t, http.StatusInternalServerError, "boom")
	client := NewChatClient(SessionConfig{Endpoint: srv.URL + "/v1", Model: "m"}, &utils.DefaultHTTPClient{})
	m := newTestModel(client)

	m = typeText(t, m, "hello")
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	reply := findReply(t, collect(cmd))
	require.Error(t, reply.err)

	m, cmd = send(t, m, reply)
	require.Equal(t, 3, m.transcript.Len())
	last := m.transcript.Turns()[2]
	assert.Equal(t, chat.RoleNarrator, last.Role)
	assert.Contains(t, last.Content, "boom")
	assert.Contains(t, last.Content, "API error")
	assert.Equal(t, statusFailed, m.status)
	assert.Equal(t, stateIdle, m.state)
	assert.Contains(t, collect(cmd), tea.Msg(uitk.ShowToastMsg{Message: statusFailed}))

	// still interactive
	m = typeText(t, m, "again")
	assert.Equal(t, "again", m.input.Value())
}

func TestEndToEndSuccessOverHTTP(t *testing.T) {
	srv, got := newCompletionServer(t, http.StatusOK, `{"choices":[{"message":{"content":"hi there"}}]}`)
	client := NewChatClient(SessionConfig{Endpoint: srv.URL + "/v1", Model: "m"}, &utils.DefaultHTTPClient{})
	m := newTestModel(client)

	m = typeText(t, m, "hello")
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(t, m, findReply(t, collect(cmd)))

	turns := m.transcript.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, chat.Turn{Role: chat.RoleUser, Content: "hello"}, turns[1])
	assert.Equal(t, chat.Turn{Role: chat.RoleNarrator, Content: "hi there"}, turns[2])
	assert.Equal(t, statusIdle, m.status)
	assert.Equal(t, "m", got.body.Model)
}

func TestKeysIgnoredWhileAwaitingReply(t *testing.T) {
	m := newTestModel(&fakeCompleter{reply: "ok"})
	m = typeText(t, m, "hello")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateAwaitingReply, m.state)

	before := m.view
	for _, msg := range []tea.Msg{
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")},
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyPgUp},
		tea.KeyMsg{Type: tea.KeyUp},
		tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress},
	} {
		var cmd tea.Cmd
		m, cmd = send(t, m, msg)
		assert.Nil(t, cmd)
	}
	assert.Equal(t, 0, m.input.Len())
	assert.Equal(t, 2, m.transcript.Len())
	assert.Equal(t, before, m.view)
}

func TestQuitInEveryState(t *testing.T) {
	idle := newTestModel(&fakeCompleter{})
	busy := typeText(t, newTestModel(&fakeCompleter{}), "hi")
	busy, _ = send(t, busy, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateAwaitingReply, busy.state)

	for name, m := range map[string]chatModel{"idle": idle, "awaiting": busy} {
		t.Run(name, func(t *testing.T) {
			m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
			assert.True(t, m.quitting)
			assert.Empty(t, m.View())
		})
	}
}

func TestLateReplyAfterSettleIsIgnored(t *testing.T) {
	m := newTestModel(&fakeCompleter{})
	m, _ = send(t, m, replyMsg{content: "stray"})
	assert.Equal(t, 1, m.transcript.Len())
}

func TestInputEditingKeys(t *testing.T) {
	m := newTestModel(&fakeCompleter{})
	m = typeText(t, m, "helo")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = typeText(t, m, "l")
	assert.Equal(t, "hello", m.input.Value())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyHome})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = typeText(t, m, "x")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "ello ", m.input.Value())
	assert.Equal(t, 5, m.input.Cursor())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a\nb"), Paste: true})
	assert.Equal(t, "ello a b", m.input.Value())
}

func TestScrollKeysAndPinning(t *testing.T) {
	m := newTestModel(&fakeCompleter{})
	for range 20 {
		m.transcript.Append(chat.Turn{Role: chat.RoleUser, Content: "line one\nline two"})
	}
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	require.Positive(t, m.view.MaxScroll)
	require.Equal(t, m.view.MaxScroll, m.view.Offset)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, m.view.MaxScroll-uitk.ScrollStep, m.view.Offset)
	assert.False(t, m.view.Pinned)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, m.view.MaxScroll-uitk.ScrollStep-uitk.PageStep, m.view.Offset)

	m, _ = send(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, m.view.MaxScroll-uitk.PageStep, m.view.Offset)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, m.view.MaxScroll, m.view.Offset)
	assert.True(t, m.view.Pinned)
}

func TestReplyPinsToBottom(t *testing.T) {
	m := newTestModel(&fakeCompleter{})
	for range 20 {
		m.transcript.Append(chat.Turn{Role: chat.RoleNarrator, Content: "x"})
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	require.False(t, m.view.Pinned)

	m = typeText(t, m, "hello")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(t, m, replyMsg{err: errors.New("nope")})
	assert.True(t, m.view.Pinned)
	assert.Equal(t, m.view.MaxScroll, m.view.Offset)
}

func TestCopyLastNarration(t *testing.T) {
	m := newTestModel(&fakeCompleter{})
	var copied string
	m.writeClipboard = func(s string) error { copied = s; return nil }

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, chat.IntroTurn().Content, copied)
	assert.Contains(t, collect(cmd), tea.Msg(uitk.ShowToastMsg{Message: "narration copied"}))

	m.writeClipboard = func(string) error { return errors.New("no display") }
	_, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Contains(t, collect(cmd), tea.Msg(uitk.ShowToastMsg{Message: "clipboard unavailable"}))
}

func TestInitShowsNotice(t *testing.T) {
	m := newTestModel(&fakeCompleter{})
	assert.Nil(t, m.Init())

	m.notice = "api key sent over plain http to ml:8888"
	assert.Equal(t, []tea.Msg{uitk.ShowToastMsg{Message: m.notice}}, collect(m.Init()))
}

func TestOutputMessagesBecomeToasts(t *testing.T) {
	m := newTestModel(&fakeCompleter{})
	_, cmd := send(t, m, utils.TUIMessageMsg{Message: utils.OutputMessage{Type: utils.ErrorMessage, Content: "disk full"}})
	assert.Contains(t, collect(cmd), tea.Msg(uitk.ShowToastMsg{Message: "disk full"}))
}

func TestViewLayout(t *testing.T) {
	m := newTestModel(&fakeCompleter{reply: "ok"})
	view := m.View()
	plain := ansi.Strip(view)

	assert.Equal(t, 30, lipgloss.Height(view))
	assert.Contains(t, plain, "The Narrator's Console")
	assert.Contains(t, plain, " conversation ")
	assert.Contains(t, plain, " speak into the void ")
	assert.Contains(t, plain, "🎭 Narrator")
	assert.Contains(t, plain, "> ")
	assert.Contains(t, plain, "● awaiting input │ Ctrl+C to exit │ PgUp/PgDn to scroll")

	m = typeText(t, m, "hello")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	plain = ansi.Strip(m.View())
	assert.Contains(t, plain, "the narrator ponders...")
	assert.Contains(t, plain, "...")
	assert.Contains(t, plain, "✦ You")
	assert.NotContains(t, plain, "> hello")
}

func TestViewShowsScrollbarOnlyWhenNeeded(t *testing.T) {
	m := newTestModel(&fakeCompleter{})
	assert.NotContains(t, ansi.Strip(m.View()), "↑")

	for range 10 {
		m.transcript.Append(chat.Turn{Role: chat.RoleUser, Content: strings.Repeat("word ", 40)})
	}
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	plain := ansi.Strip(m.View())
	assert.Contains(t, plain, "↑")
	assert.Contains(t, plain, "↓")
	assert.Equal(t, 30, lipgloss.Height(m.View()))
}
