package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"lab-cost-estimator/utils"
)

// FileStore keeps each document as an indented JSON file inside dir
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a FileStore rooted there
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

var _ DocumentStore = (*FileStore)(nil)

// Path returns the file backing the named document
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) Name() string { return BackendFile }

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Load(_ context.Context, name string, v any) (bool, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", s.Path(name), err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, s.Path(name), err)
	}
	return true, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target so a crash never leaves a half-written document
func (s *FileStore) Save(_ context.Context, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.Path(name), err)
	}
	return nil
}

// Watch calls onChange with the document name whenever one of the document
// files is written or replaced, until ctx is cancelled. Operators editing the
// JSON files by hand get their changes picked up without a restart.
func (s *FileStore) Watch(ctx context.Context, onChange func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}

	known := make(map[string]string, len(Documents))
	for _, name := range Documents {
		known[filepath.Base(s.Path(name))] = name
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				name, ok := known[filepath.Base(event.Name)]
				if !ok {
					continue
				}
				utils.Log.Debugf("👀 FileStore: %s changed on disk (%s)", name, event.Op)
				onChange(name)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				utils.Log.Warnf("⚠️  FileStore: watcher error: %v", err)
			}
		}
	}()

	utils.Log.Infof("👀 FileStore: watching %s for external edits", s.dir)
	return nil
}
