package history

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mfateev/codeagent/internal/logging"
	"github.com/mfateev/codeagent/internal/models"
)

// Manager holds the conversation history for one agent session.
//
// The agent drives it from a single goroutine, so it carries no lock.
type Manager struct {
	items      []models.Message
	summarizer Summarizer
	logger     *zap.Logger
}

// NewManager creates a manager seeded with initial (typically loaded from a Store).
func NewManager(initial []models.Message, summarizer Summarizer, logger *zap.Logger) *Manager {
	items := make([]models.Message, len(initial))
	copy(items, initial)
	return &Manager{
		items:      items,
		summarizer: summarizer,
		logger:     logging.OrNop(logger),
	}
}

// Append adds a message to the end of history.
func (m *Manager) Append(role models.Role, content string) error {
	if err := models.ValidateRole(role); err != nil {
		return err
	}
	m.items = append(m.items, models.Message{Role: role, Content: content})
	return nil
}

// Messages returns a copy of the history in order.
func (m *Manager) Messages() []models.Message {
	result := make([]models.Message, len(m.items))
	copy(result, m.items)
	return result
}

// Len returns the number of messages.
func (m *Manager) Len() int {
	return len(m.items)
}

// ReplaceAll replaces the history with msgs. The input is copied.
func (m *Manager) ReplaceAll(msgs []models.Message) error {
	for _, msg := range msgs {
		if err := models.ValidateRole(msg.Role); err != nil {
			return err
		}
	}
	m.items = make([]models.Message, len(msgs))
	copy(m.items, msgs)
	return nil
}

// SizeMetric is the byte length of the JSON-serialized history. It is a cheap
// proxy for the token budget, not a token count.
func (m *Manager) SizeMetric() int {
	b, err := json.Marshal(m.items)
	if err != nil {
		// Message holds only strings; Marshal cannot fail.
		return 0
	}
	return len(b)
}

// CheckAndSummarize replaces the history with a single system message holding
// a summary once SizeMetric exceeds threshold. It reports whether it did.
// On failure the history is left as it was.
func (m *Manager) CheckAndSummarize(ctx context.Context, threshold int) (bool, error) {
	size := m.SizeMetric()
	if size <= threshold {
		return false, nil
	}

	m.logger.Info("History over budget, summarizing",
		zap.Int("size", size),
		zap.Int("threshold", threshold),
		zap.Int("messages", len(m.items)))

	summary, err := m.Summarize(ctx)
	if err != nil {
		m.logger.Warn("Summarization failed, keeping history", zap.Error(err))
		return false, err
	}

	m.items = []models.Message{models.SystemMessage(summary)}

	m.logger.Info("History summarized",
		zap.Int("old_size", size),
		zap.Int("new_size", m.SizeMetric()))
	return true, nil
}

// Summarize asks the summarizer for a summary of the current history.
func (m *Manager) Summarize(ctx context.Context) (string, error) {
	if m.summarizer == nil {
		return "", models.NewSummarizationError(fmt.Errorf("no summarizer configured"))
	}
	summary, err := m.summarizer.Summarize(ctx, m.Messages())
	if err != nil {
		if models.IsSummarizationError(err) {
			return "", err
		}
		return "", models.NewSummarizationError(err)
	}
	return summary, nil
}
