package inbound

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"homecmd/internal/domain"
)

// rescanInterval bounds how long a file can sit unnoticed if an event is
// dropped, or when the source is read without being started.
const rescanInterval = 2 * time.Second

// FileSource watches a spool directory. Each ".txt" file holds one utterance,
// each ".json" file one tagged entity tree. Consumed files are renamed with a
// ".processed" suffix.
type FileSource struct {
	dir string
	mu  sync.Mutex

	watcher *fsnotify.Watcher
	wake    chan struct{}
	done    chan struct{}
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{
		dir:  dir,
		wake: make(chan struct{}, 1),
	}
}

func (f *FileSource) Name() string {
	return "file"
}

func (f *FileSource) Start(_ context.Context) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("creating spool dir: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(f.dir); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", f.dir, err)
	}

	f.watcher = w
	f.done = make(chan struct{})
	go f.watch(w, f.done)
	return nil
}

func (f *FileSource) Stop() error {
	f.mu.Lock()
	w, done := f.watcher, f.done
	f.watcher = nil
	f.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}

// watch turns directory events into wake-ups for NextInput. Errors are
// dropped; the periodic rescan covers anything missed.
func (f *FileSource) watch(w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				select {
				case f.wake <- struct{}{}:
				default:
				}
			}
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}

func (f *FileSource) NextInput(ctx context.Context) (domain.Input, error) {
	ticker := time.NewTicker(rescanInterval)
	defer ticker.Stop()

	for {
		in, err := f.checkForNewFile()
		if err != nil {
			return nil, err
		}
		if in != nil {
			return in, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-f.wake:
		case <-ticker.C:
		}
	}
}

func (f *FileSource) checkForNewFile() (domain.Input, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("reading dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".txt" && ext != ".json" {
			continue
		}

		path := filepath.Join(f.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", path, err)
		}
		if len(data) == 0 {
			// still being written; the next write event brings us back
			continue
		}

		// the rename is what marks a file consumed, so a name can be reused
		if err := os.Rename(path, path+".processed"); err != nil {
			return nil, fmt.Errorf("marking %s processed: %w", path, err)
		}

		in, err := decodeInput(ext, data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return in, nil
	}

	return nil, nil
}

func decodeInput(ext string, data []byte) (domain.Input, error) {
	if ext == ".json" {
		var tree domain.EntityTree
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
		return domain.TaggedIntent{Tree: tree}, nil
	}
	return domain.FreeText(strings.TrimSpace(string(data))), nil
}
