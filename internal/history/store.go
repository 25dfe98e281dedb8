package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mfateev/codeagent/internal/models"
)

// FileStore keeps the transcript as a JSON array in a single file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the transcript. A missing file is a fresh session.
func (s *FileStore) Load() ([]models.Message, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation %s: %w", s.path, err)
	}

	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("failed to parse conversation %s: %w", s.path, err)
	}
	for i, m := range msgs {
		if err := models.ValidateRole(m.Role); err != nil {
			return nil, fmt.Errorf("conversation %s entry %d: %w", s.path, i, err)
		}
	}
	return msgs, nil
}

// Save overwrites the file with msgs. The write goes through a temp file and
// rename so an interrupted save never leaves a truncated snapshot.
func (s *FileStore) Save(msgs []models.Message) error {
	if msgs == nil {
		msgs = []models.Message{}
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create conversation directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".conversation-*.json")
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}
