package watch

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/san-kum/brix/internal/config"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}
}

func TestConfigs_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.yaml")
	writeConfig(t, path, config.DefaultConfig())

	w, err := NewWatcher(path, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var logs syncBuffer
	configs := Configs(ctx, w, log.New(&logs, "", 0))

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("fps: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	bad := config.DefaultConfig()
	bad.FPS = 0
	writeConfig(t, path, bad)
	time.Sleep(300 * time.Millisecond)

	good := config.DefaultConfig()
	good.FPS = 12
	writeConfig(t, path, good)

	select {
	case cfg := <-configs:
		if cfg.FPS != 12 {
			t.Errorf("expected the valid reload, got fps %d", cfg.FPS)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload received")
	}
	if !strings.Contains(logs.String(), "invalid") {
		t.Errorf("invalid config should be logged, got %q", logs.String())
	}
}

func TestWatcher_CloseEndsStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	writeConfig(t, path, config.DefaultConfig())

	w, err := NewWatcher(path, DefaultDebounce)
	if err != nil {
		t.Fatal(err)
	}
	configs := Configs(context.Background(), w, log.New(&bytes.Buffer{}, "", 0))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}

	select {
	case _, ok := <-configs:
		if ok {
			t.Error("expected the stream to close")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not close")
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "page.yaml"), 0); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
