package utils

import (
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// MessageType represents the type of output message
type MessageType int

const (
	InfoMessage MessageType = iota
	WarningMessage
	ErrorMessage
	DebugMessage
)

// OutputMessage is one line of user-facing output.
type OutputMessage struct {
	Type    MessageType
	Content string
	Writer  io.Writer // used when no TUI is running
}

// TUIMessageMsg carries an OutputMessage into a running Bubble Tea program.
type TUIMessageMsg struct {
	Message OutputMessage
}

// OutputManager routes output either straight to the terminal or, while the
// alternate screen owns it, into the program (or a queue until one exists).
type OutputManager struct {
	mu           sync.RWMutex
	tuiProgram   *tea.Program
	inTUIMode    bool
	messageQueue []OutputMessage
	stdout       io.Writer
	stderr       io.Writer
}

var outputManager = &OutputManager{stdout: os.Stdout, stderr: os.Stderr}

// SetTUIMode marks the terminal as owned by program. A nil program only
// starts queueing. Queued messages are handed to a non-nil program.
func SetTUIMode(program *tea.Program) {
	outputManager.mu.Lock()
	defer outputManager.mu.Unlock()
	outputManager.tuiProgram = program
	outputManager.inTUIMode = true

	if program == nil {
		return
	}
	queued := outputManager.messageQueue
	outputManager.messageQueue = nil
	go func() {
		for _, msg := range queued {
			program.Send(TUIMessageMsg{Message: msg})
		}
	}()
}

// ClearTUIMode hands the terminal back and flushes anything still queued to
// its plain writer.
func ClearTUIMode() {
	outputManager.mu.Lock()
	queued := outputManager.messageQueue
	outputManager.tuiProgram = nil
	outputManager.inTUIMode = false
	outputManager.messageQueue = nil
	outputManager.mu.Unlock()

	for _, msg := range queued {
		fmt.Fprint(msg.Writer, FormatMessage(msg))
	}
}

// SetOutputWritersForTest swaps stdout and stderr and returns a restore func.
func SetOutputWritersForTest(stdout, stderr io.Writer) func() {
	outputManager.mu.Lock()
	defer outputManager.mu.Unlock()
	prevOut, prevErr := outputManager.stdout, outputManager.stderr
	outputManager.stdout, outputManager.stderr = stdout, stderr
	return func() {
		outputManager.mu.Lock()
		defer outputManager.mu.Unlock()
		outputManager.stdout, outputManager.stderr = prevOut, prevErr
	}
}

func sendMessage(msgType MessageType, format string, args ...any) {
	outputManager.mu.Lock()
	defer outputManager.mu.Unlock()

	msg := OutputMessage{
		Type:    msgType,
		Content: fmt.Sprintf(format, args...),
		Writer:  outputManager.writerFor(msgType),
	}

	switch {
	case !outputManager.inTUIMode:
		fmt.Fprint(msg.Writer, FormatMessage(msg))
	case msgType == DebugMessage:
		// the debug log already has it; printing would tear the screen
	case outputManager.tuiProgram != nil:
		program := outputManager.tuiProgram
		// Send blocks until the program reads it, which may be this goroutine
		go program.Send(TUIMessageMsg{Message: msg})
	default:
		outputManager.messageQueue = append(outputManager.messageQueue, msg)
	}
}

func (m *OutputManager) writerFor(msgType MessageType) io.Writer {
	switch msgType {
	case ErrorMessage, WarningMessage, DebugMessage:
		return m.stderr
	default:
		return m.stdout
	}
}

// OutputInfo sends an informational message
func OutputInfo(format string, args ...any) { sendMessage(InfoMessage, format, args...) }

// OutputWarning sends a warning message
func OutputWarning(format string, args ...any) { sendMessage(WarningMessage, format, args...) }

// OutputError sends an error message
func OutputError(format string, args ...any) { sendMessage(ErrorMessage, format, args...) }

// FormatMessage renders msg for a plain terminal.
func FormatMessage(msg OutputMessage) string {
	var prefix string
	switch msg.Type {
	case WarningMessage:
		prefix = "Warning: "
	case ErrorMessage:
		prefix = "Error: "
	case DebugMessage:
		prefix = "[DEBUG] "
	}
	s := prefix + msg.Content
	if len(s) == 0 || s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
