// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/danielhkuo/quickly-poll/models"
)

// FileBackend keeps polls in a pretty-printed JSON array on disk.
// Writes overwrite the file in place; there is no temp file or rename.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Load(ctx context.Context) ([]models.Poll, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Poll{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}
	return decodePolls(data)
}

func (b *FileBackend) Save(ctx context.Context, polls []models.Poll) error {
	data, err := encodePolls(polls, true)
	if err != nil {
		return err
	}
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.path, err)
	}
	return nil
}

func (b *FileBackend) Close() error {
	return nil
}

func (b *FileBackend) String() string {
	return "file:" + b.path
}

func encodePolls(polls []models.Poll, indent bool) ([]byte, error) {
	if polls == nil {
		polls = []models.Poll{}
	}
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(polls, "", "  ")
	} else {
		data, err = json.Marshal(polls)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode polls: %w", err)
	}
	return data, nil
}

func decodePolls(data []byte) ([]models.Poll, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Poll{}, nil
	}
	var polls []models.Poll
	if err := json.Unmarshal(data, &polls); err != nil {
		return nil, fmt.Errorf("failed to decode polls: %w", err)
	}
	if polls == nil {
		polls = []models.Poll{}
	}
	return polls, nil
}
