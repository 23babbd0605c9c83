package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileStore keeps each lead as a JSON file in a directory.
// It suits a single host without a database.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.local/share/wallie/leads/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "wallie", "leads")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create lead dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// leadPath only accepts UUIDs so an ID can never escape baseDir.
func (s *FileStore) leadPath(id string) (string, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return filepath.Join(s.baseDir, id+".json"), true
}

func (s *FileStore) Save(_ context.Context, lead *Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(lead)
}

func (s *FileStore) write(lead *Lead) error {
	path, ok := s.leadPath(lead.ID)
	if !ok {
		return fmt.Errorf("invalid lead id %q", lead.ID)
	}
	data, err := json.MarshalIndent(lead, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lead: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write lead file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileStore) read(id string) (*Lead, error) {
	path, ok := s.leadPath(id)
	if !ok {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read lead file: %w", err)
	}

	var lead Lead
	if err := json.Unmarshal(data, &lead); err != nil {
		return nil, fmt.Errorf("parse lead: %w", err)
	}
	return &lead, nil
}

func (s *FileStore) MarkRelayed(_ context.Context, id string, at time.Time, relayErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, err := s.read(id)
	if err != nil || lead == nil {
		return err
	}
	applyRelay(lead, at, relayErr)
	return s.write(lead)
}

func (s *FileStore) Close() error { return nil }
