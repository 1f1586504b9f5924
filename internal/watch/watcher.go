// Package watch observes the workspace for activity on Syster source files.
// It stands in for the editor host's active-document events: whenever a
// recognized file is written, the panel gets a chance to refresh the
// diagram scoped to that document.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/systerlang/systerview/internal/lang"
)

// Event reports activity on one recognized source document.
type Event struct {
	Path     string // absolute path
	Language string // "sysml" or "kerml"
}

// Watcher emits Events for recognized files under a workspace root.
type Watcher struct {
	root    string
	include []string
	exclude []string
	log     zerolog.Logger

	fw      *fsnotify.Watcher
	events  chan Event
	done    chan struct{}
	closing sync.Once
}

// New builds a watcher over root, filtered by include/exclude globs
// relative to root.
func New(root string, include, exclude []string, log zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", abs)
	}

	return &Watcher{
		root:    abs,
		include: include,
		exclude: exclude,
		log:     log,
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
	}, nil
}

// Root returns the absolute workspace root.
func (w *Watcher) Root() string { return w.root }

// Start registers the directory tree and begins emitting events. It
// returns once the watches are in place; delivery happens on a background
// goroutine until Close.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	w.fw = fw

	if err := w.addTree(w.root); err != nil {
		fw.Close()
		return err
	}

	go w.run()
	return nil
}

// addTree registers watches for root and every non-skipped subdirectory.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldSkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}

	// New directories join the watch set.
	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if ev.Op.Has(fsnotify.Create) && !shouldSkipDir(filepath.Base(ev.Name)) {
			if err := w.fw.Add(ev.Name); err != nil {
				w.log.Warn().Err(err).Str("dir", ev.Name).Msg("adding watch")
			}
		}
		return
	}

	language := lang.ForPath(ev.Name)
	if language == "" {
		return
	}

	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		rel = ev.Name
	}
	if !matchesInclude(rel, w.include) || matchesExclude(rel, w.exclude) {
		return
	}

	select {
	case w.events <- Event{Path: ev.Name, Language: language}:
	default:
		// A slow consumer drops activity rather than blocking delivery;
		// the next write on the same file produces a fresh event.
		w.log.Debug().Str("path", ev.Name).Msg("dropping watch event")
	}
}

// Events returns the channel of recognized-document activity. It is closed
// by Close.
func (w *Watcher) Events() <-chan Event { return w.events }

// Close stops watching. Idempotent, matching the panel's teardown model.
func (w *Watcher) Close() error {
	var err error
	w.closing.Do(func() {
		close(w.done)
		if w.fw != nil {
			err = w.fw.Close()
		}
	})
	return err
}
