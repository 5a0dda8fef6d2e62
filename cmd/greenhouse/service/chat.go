package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/cmd/greenhouse/prompt"
	"github.com/sproutly/greenhouse/common/logger"
)

// chatHistoryWindow bounds how many prior messages are rendered into the
// prompt context. Older turns are dropped oldest-first; without a bound the
// transcript grows with every turn.
const chatHistoryWindow = 20

// TextOracle is the chat boundary: prompt in, reply text out verbatim
type TextOracle interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ChatService answers free-form gardening questions
type ChatService struct {
	oracle TextOracle
	log    *logger.Logger
}

// NewChatService creates a new chat service
func NewChatService(oracle TextOracle, log *logger.Logger) *ChatService {
	return &ChatService{
		oracle: oracle,
		log:    log,
	}
}

// Respond takes the full conversation (latest user message last) and returns
// the assistant's reply. Nothing is persisted.
func (s *ChatService) Respond(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyMessage
	}

	last := messages[len(messages)-1]
	if last.Role != "user" || strings.TrimSpace(last.Content) == "" {
		return "", ErrEmptyMessage
	}

	history := messages[:len(messages)-1]
	if len(history) > chatHistoryWindow {
		history = history[len(history)-chatHistoryWindow:]
	}

	p := prompt.Chat(history, last.Content)

	reply, err := s.oracle.GenerateText(ctx, p)
	if err != nil {
		return "", fmt.Errorf("chat oracle failed: %w", err)
	}

	s.log.Debug("chat turn completed",
		"history_len", len(history),
		"reply_chars", len(reply),
	)

	return reply, nil
}
