package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/lambdaed/parinfer/parinfer"
	"github.com/lambdaed/parinfer/utils"
)

// watcher rewrites Lisp sources in place whenever they change on disk.
type watcher struct {
	fsw      *fsnotify.Watcher
	mode     parinfer.Mode
	exts     []string
	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	written map[string]string // last text we wrote per path

	// called after each processed file, if set
	onProcess func(path string, err error)
}

func newWatcher(mode parinfer.Mode, exts []string, debounce time.Duration) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &watcher{
		fsw:      fsw,
		mode:     mode,
		exts:     exts,
		debounce: debounce,
		timers:   map[string]*time.Timer{},
		written:  map[string]string{},
	}, nil
}

// Add watches path. Directories are watched recursively, skipping the same
// directories a search skips.
func (w *watcher) Add(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return w.fsw.Add(path)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && isIgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		log.Debug("Watching directory", "path", p)
		return w.fsw.Add(p)
	})
}

func isIgnoredDir(name string) bool {
	return slices.ContainsFunc(ignorePatterns, func(pattern string) bool {
		ok, _ := filepath.Match(pattern, name)
		return ok
	})
}

func (w *watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

// Run handles file system events until ctx is done.
func (w *watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Error("Watch error", "err", err)
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			if err := w.Add(ev.Name); err != nil {
				log.Warn("Could not watch directory", "path", ev.Name, "err", err)
			}
			return
		}
	}

	if utils.IsLispFile(ev.Name, w.exts) {
		w.schedule(ev.Name)
	}
}

// schedule processes path once it has been quiet for the debounce period.
func (w *watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		err := w.rewrite(path)
		if w.onProcess != nil {
			w.onProcess(path, err)
		}
	})
}

// rewrite processes the file at path and writes the result back when it
// succeeded and differs. A failing file is left untouched.
func (w *watcher) rewrite(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text := string(b)

	// our own write comes back as an event
	w.mu.Lock()
	last, ok := w.written[path]
	delete(w.written, path)
	w.mu.Unlock()
	if ok && last == text {
		return nil
	}

	rec := processText(path, text, true, w.mode, parinfer.Options{})
	if !rec.Result.Success {
		log.Warn("Could not process source", "path", path, "err", rec.Result.Error)
		return rec.Result.Err()
	}
	if !rec.Changed {
		return nil
	}

	w.mu.Lock()
	w.written[path] = rec.Result.Text
	w.mu.Unlock()
	return writeBack(path, rec.Result.Text)
}
