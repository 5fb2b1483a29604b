// Package watch reloads the page config when its file changes.
package watch

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/san-kum/brix/internal/config"
)

// DefaultDebounce is how long the file must stay quiet before a change is
// reported; editors often write a file in several steps.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to one file. It watches the parent directory so
// that replace-by-rename saves are seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	events   chan string
	errors   chan error
	closeCh  chan struct{}
	once     sync.Once
}

func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher:  w,
		path:     abs,
		debounce: debounce,
		events:   make(chan string, 16),
		errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Events delivers the watched path after each change. It is closed after
// Close.
func (w *Watcher) Events() <-chan string { return w.events }

func (w *Watcher) Errors() <-chan error { return w.errors }

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.events)
	defer close(w.errors)

	quiet := time.NewTimer(time.Hour)
	quiet.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			quiet.Reset(w.debounce)
		case <-quiet.C:
			select {
			case w.events <- w.path:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		case <-w.closeCh:
			quiet.Stop()
			return
		}
	}
}

// Configs loads and validates the config after every change and sends
// the result. A file that fails to load or validate is logged and
// skipped, keeping the previous config live. The channel closes when ctx
// ends or the watcher is closed.
func Configs(ctx context.Context, w *Watcher, logger *log.Logger) <-chan *config.Config {
	out := make(chan *config.Config)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				logger.Printf("watch: %v", err)
			case path, ok := <-w.Events():
				if !ok {
					return
				}
				cfg, err := config.Load(path)
				if err == nil {
					err = cfg.Validate()
				}
				if err != nil {
					logger.Printf("reload %s: %v", path, err)
					continue
				}
				select {
				case out <- cfg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
