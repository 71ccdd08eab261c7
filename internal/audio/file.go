package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var audioExts = map[string]bool{
	".wav": true, ".mp3": true, ".flac": true, ".ogg": true,
	".oga": true, ".opus": true, ".m4a": true, ".webm": true,
}

// File replays prepared recordings, one per Begin, in order. It drives
// scripted practice runs where the audio was captured elsewhere.
type File struct {
	mu    sync.Mutex
	paths []string
	next  int
}

// NewFile returns a device that serves the given files in order.
func NewFile(paths ...string) *File {
	return &File{paths: paths}
}

// NewFileDir serves every audio file in dir, sorted by name.
func NewFileDir(dir string) (*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read audio dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !audioExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no audio files in %s", dir)
	}
	sort.Strings(paths)
	return NewFile(paths...), nil
}

// Remaining reports how many recordings have not been served yet.
func (f *File) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.paths) - f.next
}

func (f *File) Begin(ctx context.Context) (Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next >= len(f.paths) {
		return nil, ErrExhausted
	}
	path := f.paths[f.next]
	f.next++
	return &fileCapture{path: path}, nil
}

type fileCapture struct {
	path    string
	stopped bool
}

func (c *fileCapture) Pause() error {
	if c.stopped {
		return ErrStopped
	}
	return nil
}

func (c *fileCapture) Resume() error {
	if c.stopped {
		return ErrStopped
	}
	return nil
}

func (c *fileCapture) Stop() ([]byte, error) {
	if c.stopped {
		return nil, ErrStopped
	}
	c.stopped = true
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	return data, nil
}

func (c *fileCapture) Close() error {
	c.stopped = true
	return nil
}
