// Package watch keeps a resource registry in sync with a package directory
// on disk: created and written files that pass the scan filters are
// registered into the target manager, debounced so editor save storms
// coalesce into one update.
package watch

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/justengel/resman"
	"github.com/justengel/resman/internal/log"
)

// Config holds watcher configuration options.
type Config struct {
	// Package is the dot-separated package identifier new files are
	// registered under.
	Package string
	// Dir is the OS directory backing the package.
	Dir string
	// DebounceDur is how long to wait after the last event before applying
	// the accumulated changes.
	DebounceDur time.Duration
	// Extensions restricts registration to these file extensions (with or
	// without the leading dot). Empty admits every extension.
	Extensions []string
	// Exclude lists leaf file names that are never registered.
	Exclude []string
}

// DefaultConfig returns sensible defaults for watching a package directory.
func DefaultConfig(pkg, dir string) Config {
	return Config{
		Package:     pkg,
		Dir:         dir,
		DebounceDur: 1 * time.Second,
	}
}

// Watcher monitors a package directory and registers qualifying files into
// a manager. Registrations run on the watcher goroutine; the manager has no
// internal locking, so callers should consume the change channel before
// reading the manager, or synchronize externally.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	manager   *resman.Manager
	cfg       Config

	exts     map[string]bool
	excluded map[string]bool

	onChange chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher that registers files from cfg.Dir into m.
func New(m *resman.Manager, cfg Config) (*Watcher, error) {
	if cfg.Package == "" || cfg.Dir == "" {
		return nil, fmt.Errorf("watch config requires a package and a directory")
	}
	if cfg.DebounceDur <= 0 {
		cfg.DebounceDur = 1 * time.Second
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		manager:   m,
		cfg:       cfg,
		exts:      make(map[string]bool, len(cfg.Extensions)),
		excluded:  make(map[string]bool, len(cfg.Exclude)),
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.exts[ext] = true
	}
	for _, name := range cfg.Exclude {
		w.excluded[name] = true
	}
	return w, nil
}

// Start begins watching the package directory.
// Returns a channel that receives a signal after each debounced batch of
// registrations.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(w.cfg.Dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.cfg.Dir, err)
	}

	go w.loop()

	log.Info(log.CatWatch, "watching package directory", "package", w.cfg.Package, "dir", w.cfg.Dir)
	return w.onChange, nil
}

// Stop terminates the watcher and releases resources. Safe to call more
// than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var timer *time.Timer
	pending := make(map[string]bool)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			rel, ok := w.relevantName(event)
			if !ok {
				continue
			}
			pending[rel] = true

			if timer == nil {
				timer = time.NewTimer(w.cfg.DebounceDur)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.cfg.DebounceDur)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if len(pending) > 0 {
				w.apply(pending)
				pending = make(map[string]bool)
				select {
				case w.onChange <- struct{}{}:
				default:
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatch, "watch error", err, "dir", w.cfg.Dir)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// apply registers the accumulated file names. Files already present under
// their default alias are left alone so repeated writes do not stack
// duplicate registrations.
func (w *Watcher) apply(pending map[string]bool) {
	for rel := range pending {
		// Events carry no entry type; skip anything that is gone or a
		// directory by the time the debounce fires.
		info, err := os.Stat(filepath.Join(w.cfg.Dir, filepath.FromSlash(rel)))
		if err != nil || info.IsDir() {
			continue
		}
		key := path.Join(strings.ReplaceAll(w.cfg.Package, ".", "/"), rel)
		if w.manager.Has(key) {
			continue
		}
		w.manager.Register(w.cfg.Package, rel)
		log.Debug(log.CatWatch, "registered watched file", "package", w.cfg.Package, "name", rel)
	}
}

// relevantName filters the event to qualifying create/write events on files
// directly in the watched directory, returning the name relative to it.
// Filtering matches the directory scanner: leaf name only.
func (w *Watcher) relevantName(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return "", false
	}

	rel, err := filepath.Rel(w.cfg.Dir, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)

	leaf := path.Base(rel)
	if w.excluded[leaf] {
		return "", false
	}
	if len(w.exts) > 0 && !w.exts[path.Ext(leaf)] {
		return "", false
	}
	return rel, true
}
