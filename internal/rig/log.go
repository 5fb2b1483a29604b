package rig

import (
	"log"
	"os"
	"sync"
	"sync/atomic"
)

var (
	logger atomic.Pointer[log.Logger]
	warned sync.Map
)

func init() {
	logger.Store(log.New(os.Stderr, "rig: ", log.LstdFlags))
}

// SetLogger replaces the package diagnostics logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

// Logger returns the package diagnostics logger.
func Logger() *log.Logger { return logger.Load() }

func warnUnknownAction(a Action) {
	if _, seen := warned.LoadOrStore(a, struct{}{}); seen {
		return
	}
	logger.Load().Printf("unknown %s, falling back to idle pose", a)
}
