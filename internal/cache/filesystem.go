package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// FileSystemStore keeps one JSON file per key under rootDir.
type FileSystemStore struct {
	rootDir string
	now     func() time.Time
}

type fileEntry struct {
	ExpiresAt time.Time `json:"expires_at"`
	Value     []byte    `json:"value"`
}

func NewFileSystemStore(cacheDirectory string) *FileSystemStore {
	return &FileSystemStore{
		rootDir: cacheDirectory,
		now:     time.Now,
	}
}

func (s *FileSystemStore) filePath(key string) string {
	return filepath.Join(s.rootDir, url.PathEscape(key)+".json")
}

func (s *FileSystemStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := s.filePath(key)
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("os.ReadFile > %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(contents, &entry); err != nil {
		return nil, false, fmt.Errorf("json.Unmarshal > %w", err)
	}
	if !s.now().Before(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Value, true, nil
}

// Put writes to a temporary file and renames it over the target, so readers
// never see a partially written entry.
func (s *FileSystemStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	contents, err := json.Marshal(fileEntry{
		ExpiresAt: s.now().Add(ttl),
		Value:     value,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}

	if err := os.MkdirAll(s.rootDir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	file, err := os.CreateTemp(s.rootDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	tmpPath := file.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := file.Write(contents); err != nil {
		_ = file.Close()
		return fmt.Errorf("file.Write > %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath(key)); err != nil {
		return fmt.Errorf("os.Rename > %w", err)
	}
	return nil
}

func (s *FileSystemStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.filePath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove > %w", err)
	}
	return nil
}

func (s *FileSystemStore) Close() error {
	return nil
}
