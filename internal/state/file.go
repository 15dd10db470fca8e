package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend keeps the state as a TOML document on the local filesystem.
// Writes go through a temp file and rename so a crash never leaves a
// truncated document behind.
type FileBackend struct {
	path string
}

// NewFile returns a FileBackend for path. The path must already be expanded.
func NewFile(path string) (*FileBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("state path is empty")
	}
	return &FileBackend{path: path}, nil
}

// Path returns the backing file path.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) Load(_ context.Context) (*State, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	return decodeState(data)
}

func (b *FileBackend) Save(_ context.Context, s *State) error {
	data, err := encodeState(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod state: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }
