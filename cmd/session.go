package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	xterm "golang.org/x/term"

	"narrator-cli/cmd/utils"
)

// errNotATerminal is a setup error: the session needs a real terminal.
var errNotATerminal = errors.New("mrm needs an interactive terminal on stdin and stdout")

// runSession acquires the terminal, runs the loop until quit and restores
// the terminal on every path. Setup failures are returned; failures after
// the screen was taken are reported on stderr only.
func runSession(ctx context.Context, cfg SessionConfig, in, out *os.File) error {
	if !xterm.IsTerminal(int(in.Fd())) || !xterm.IsTerminal(int(out.Fd())) {
		return errNotATerminal
	}
	width, height, err := term.GetSize(out.Fd())
	if err != nil {
		utils.LogDebug(fmt.Sprintf("could not read terminal size, waiting for resize event: %v", err))
		width, height = 0, 0
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newChatModel(ctx, NewChatClient(cfg, nil), width, height)
	m.notice = insecureKeyNotice(cfg)
	p := newProgram(m, tea.WithInput(in), tea.WithOutput(out))

	if err := runProgram(p); err != nil {
		utils.OutputError("%v", err)
	}
	return nil
}

func newProgram(m tea.Model, opts ...tea.ProgramOption) *tea.Program {
	base := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	return tea.NewProgram(m, append(base, opts...)...)
}

// runProgram routes user-facing output into the program while it owns the
// screen and flushes anything left over once the terminal is restored.
func runProgram(p *tea.Program) error {
	utils.SetTUIMode(p)
	defer utils.ClearTUIMode()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("session ended unexpectedly: %w", err)
	}
	if m, ok := final.(chatModel); ok {
		utils.LogDebug(fmt.Sprintf("session closed after %d turns", m.transcript.Len()))
	}
	return nil
}

// insecureKeyNotice warns when the API key would cross the network in
// clear text.
func insecureKeyNotice(cfg SessionConfig) string {
	if cfg.APIKey == "" || utils.IsLocalhost(cfg.Endpoint) {
		return ""
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme != "http" {
		return ""
	}
	return "api key sent over plain http to " + u.Host
}
