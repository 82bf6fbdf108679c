package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/drill/internal/model"
)

// JSONStore keeps progress in a single JSON file.
type JSONStore struct {
	path string
}

// OpenJSON returns a store backed by the JSON file at path.
func OpenJSON(path string) (*JSONStore, error) {
	if path == "" {
		return nil, fmt.Errorf("progress path is empty")
	}
	return &JSONStore{path: path}, nil
}

// Path returns the progress file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the progress file, writing a default one first if it is missing.
func (s *JSONStore) Load(ctx context.Context) (model.Progress, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return model.Progress{}, fmt.Errorf("failed to read progress: %w", err)
		}
		progress := model.NewProgress()
		if err := s.Save(ctx, progress); err != nil {
			return model.Progress{}, err
		}
		return progress, nil
	}
	var progress model.Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		return model.Progress{}, fmt.Errorf("failed to decode progress %s: %w", s.path, err)
	}
	progress.Normalize()
	return progress, nil
}

// Save replaces the progress file atomically.
func (s *JSONStore) Save(_ context.Context, progress model.Progress) error {
	progress.Normalize()
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create progress directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "progress-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp progress: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close progress: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *JSONStore) Close() error {
	return nil
}
