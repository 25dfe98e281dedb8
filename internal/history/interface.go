// Package history owns the conversation transcript: in-memory state, size
// budgeting, summarization and persistence.
package history

import (
	"context"

	"github.com/mfateev/codeagent/internal/models"
)

// Store persists the transcript between sessions.
//
// Implementations:
//   - FileStore: single JSON snapshot, overwritten each turn (default)
type Store interface {
	// Load returns the saved transcript, or an empty one if nothing was saved.
	Load() ([]models.Message, error)

	// Save replaces the saved transcript with msgs.
	Save(msgs []models.Message) error
}

// Summarizer condenses a transcript into a single text.
type Summarizer interface {
	Summarize(ctx context.Context, msgs []models.Message) (string, error)
}
