package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"narrator-cli/cmd/utils"
	"narrator-cli/internal/chat"
)

// Sampling parameters are fixed for every request.
const (
	chatTemperature = 0.9
	chatMaxTokens   = 512
)

// ChatMessage represents a single chat message
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the request payload for the chat API
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// ChatChoice represents a choice in the chat response
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatResponse represents the response from the chat API
type ChatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

// SessionConfig is the resolved, immutable configuration of one session.
type SessionConfig struct {
	Endpoint string
	Model    string
	APIKey   string
}

// Completer turns a transcript into the Narrator's next reply.
type Completer interface {
	Complete(ctx context.Context, turns []chat.Turn) (string, error)
}

// ChatClient talks to an OpenAI-compatible /chat/completions endpoint.
type ChatClient struct {
	cfg    SessionConfig
	http   utils.HTTPClient
	logger *slog.Logger
}

func NewChatClient(cfg SessionConfig, hc utils.HTTPClient) *ChatClient {
	if hc == nil {
		hc = utils.GetHTTPClient()
	}
	return &ChatClient{cfg: cfg, http: hc, logger: utils.Logger().With("component", "completion")}
}

// buildMessages puts the persona first, then every non-system turn in order.
func buildMessages(turns []chat.Turn) []ChatMessage {
	messages := make([]ChatMessage, 0, len(turns)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: chat.Persona})
	for _, t := range turns {
		if t.Role == chat.RoleSystem {
			continue
		}
		messages = append(messages, ChatMessage{Role: t.Role.APIRole(), Content: t.Content})
	}
	return messages
}

// Complete sends one request and returns the first choice's content. Every
// failure is a *chat.CompletionError.
func (c *ChatClient) Complete(ctx context.Context, turns []chat.Turn) (string, error) {
	payload, err := json.Marshal(ChatRequest{
		Model:       c.cfg.Model,
		Messages:    buildMessages(turns),
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return "", &chat.CompletionError{Kind: chat.ParseError, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := utils.ChatCompletionsURL(c.cfg.Endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &chat.CompletionError{Kind: chat.ConnectionFailed, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	log := c.logger.With("request_id", requestID)
	start := time.Now()
	log.Debug("sending completion", "url", url, "model", c.cfg.Model, "turns", len(turns))

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("completion transport failure", "err", err)
		return "", &chat.CompletionError{Kind: chat.ConnectionFailed, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &chat.CompletionError{Kind: chat.ConnectionFailed, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	log.Debug("completion settled", "status", resp.StatusCode, "latency", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &chat.CompletionError{
			Kind:   chat.APIError,
			Status: resp.StatusCode,
			Body:   utils.PrettyServerError(resp, body),
		}
	}

	var parsed ChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &chat.CompletionError{Kind: chat.ParseError, Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &chat.CompletionError{Kind: chat.EmptyResponse}
	}
	return parsed.Choices[0].Message.Content, nil
}
