package latch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileSource drives a controller's controlled value from a watched file.
// While the file exists and its contents decode to a boolean, the value is
// present and the controller resolves as controlled; a missing or
// undecodable file reads as absent. Removing the file after construction
// therefore flips the controller to uncontrolled, which the consistency
// monitor reports.
type FileSource struct {
	path  string
	codec Codec

	mu      sync.RWMutex
	value   bool
	present bool
	started bool
}

// NewFileSource creates a FileSource for the given file path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, codec: JSONCodec{}}
}

// Codec sets the codec for decoding the file payload.
// Default: JSONCodec. Must be called before Start().
func (s *FileSource) Codec(codec Codec) *FileSource {
	s.codec = codec
	return s
}

// Start reads the current file contents so the controller's first
// evaluation observes the right mode, then begins watching for changes.
// The parent directory is watched so that creation and removal of the file
// itself are observed. Start can only be called once.
func (s *FileSource) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("file source already started")
	}
	s.started = true
	s.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch directory of %s: %w", s.path, err)
	}

	s.load()

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
				if event.Name != s.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				s.load()

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Continue watching despite errors
			}
		}
	}()

	return nil
}

// load reads and decodes the file, updating presence accordingly.
func (s *FileSource) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.setAbsent()
		return
	}
	var v bool
	if err := s.codec.Unmarshal(data, &v); err != nil {
		s.setAbsent()
		return
	}
	s.mu.Lock()
	s.value = v
	s.present = true
	s.mu.Unlock()
}

func (s *FileSource) setAbsent() {
	s.mu.Lock()
	s.present = false
	s.mu.Unlock()
}

// Value implements Source.
func (s *FileSource) Value() (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.present
}
