package app

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// CatalogWatcher polls the catalog file and fires a callback once when its
// modification time moves past the baseline recorded at startup. Catalogs are
// immutable for the life of the process, so the usual callback re-executes
// the binary.
type CatalogWatcher struct {
	path          string
	baseline      time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	onChange      func()
}

// NewCatalogWatcher creates a watcher for path. Returns nil if the file
// cannot be stat'ed.
func NewCatalogWatcher(path string, checkInterval time.Duration) *CatalogWatcher {
	if realPath, err := filepath.EvalSymlinks(path); err == nil {
		path = realPath
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &CatalogWatcher{
		path:          path,
		baseline:      info.ModTime(),
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
	}
}

// OnChange sets the callback invoked from the watch goroutine.
func (w *CatalogWatcher) OnChange(callback func()) {
	w.onChange = callback
}

// Start begins watching in a background goroutine.
func (w *CatalogWatcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher goroutine. It is safe to call more than once.
func (w *CatalogWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *CatalogWatcher) watchLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if w.changed() && w.onChange != nil {
				w.onChange()
				// Only trigger once
				return
			}
		}
	}
}

func (w *CatalogWatcher) changed() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	return info.ModTime().After(w.baseline)
}

// Path returns the watched file.
func (w *CatalogWatcher) Path() string {
	return w.path
}

// RestartProcess replaces the current process with a new instance of the
// running executable, preserving arguments and environment.
// This function does not return on success.
func RestartProcess() error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}
	if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = realPath
	}
	return syscall.Exec(execPath, os.Args, os.Environ())
}
