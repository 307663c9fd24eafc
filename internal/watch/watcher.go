// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when the inputs of a generation change.
//
// A Watcher follows a set of files and directory trees. Events are coalesced
// over a debounce window so the callback fires once with every changed path.
package watch

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period before the callback fires. Editors
// often write a temp file and rename it, producing a burst of events.
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores are matched against paths relative to a watched directory.
var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Paths are the files and directories to follow. A file is watched
		// through its parent directory and only its own events count; a
		// directory is watched recursively.
		Paths []string

		// Ignore are doublestar patterns, relative to a watched directory,
		// for paths that never trigger the callback. They extend the
		// built-in ignores.
		Ignore []string

		// Exclude are directories whose events are dropped, typically the
		// output directory.
		Exclude []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values use defaultDebounce.
		Debounce time.Duration

		// OnChange receives the deduplicated absolute paths that changed.
		// A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. nil discards them.
		Logger *log.Logger
	}

	// target is one watched path, made absolute.
	target struct {
		path string
		dir  bool
	}

	// Watcher follows Config.Paths and fires a debounced callback when they
	// change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		targets  []target
		exclude  []string
		ignores  []string
		logger   *log.Logger
		debounce time.Duration
		started  atomic.Bool
	}
)

// New creates a Watcher and registers every path of cfg with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("watch: no paths to watch")
	}
	if err := validatePatterns(cfg.Ignore); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		logger:   logger,
		debounce: debounce,
	}
	for _, dir := range cfg.Exclude {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, w.closeAfter(fmt.Errorf("watch: resolve %q: %w", dir, err))
		}
		w.exclude = append(w.exclude, abs)
	}

	for _, p := range cfg.Paths {
		if err := w.addTarget(p); err != nil {
			return nil, w.closeAfter(err)
		}
	}
	return w, nil
}

// closeAfter closes the fsnotify watcher after a failed New.
func (w *Watcher) closeAfter(err error) error {
	if closeErr := w.fsw.Close(); closeErr != nil {
		w.logger.Warn("watch: close after init failure", "err", closeErr)
	}
	return err
}

func (w *Watcher) addTarget(p string) error {
	abs, err := filepath.Abs(p)
	if err != nil {
		return fmt.Errorf("watch: resolve %q: %w", p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	t := target{path: abs, dir: info.IsDir()}
	w.targets = append(w.targets, t)
	if !t.dir {
		if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch: add directory of %q: %w", abs, err)
		}
		return nil
	}
	return w.addTree(t)
}

// Run blocks until ctx is canceled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set into one callback. A callback still
	// running when the timer fires reschedules instead of overlapping.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("watch: previous run still in progress, retrying")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("watch: callback failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil {
			localTimer.Stop()
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("watch: close fsnotify", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}

			name := filepath.Clean(evt.Name)
			t, ok := w.match(name)
			if !ok {
				continue
			}
			if t.dir && evt.Has(fsnotify.Create) {
				w.maybeAddDir(t, name)
			}

			mu.Lock()
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "err", err)
		}
	}
}

// match returns the target an event path belongs to.
func (w *Watcher) match(name string) (target, bool) {
	for _, dir := range w.exclude {
		if within(dir, name) {
			return target{}, false
		}
	}
	for _, t := range w.targets {
		if !t.dir {
			if name == t.path {
				return t, true
			}
			continue
		}
		if !within(t.path, name) {
			continue
		}
		if rel, err := filepath.Rel(t.path, name); err == nil && w.isIgnored(rel) {
			continue
		}
		return t, true
	}
	return target{}, false
}

// addTree adds every non-ignored directory below t to the fsnotify watcher.
func (w *Watcher) addTree(t target) error {
	walkErr := filepath.WalkDir(t.path, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("watch: skipping inaccessible path", "path", path, "err", walkDirErr)
			return nil //nolint:nilerr // inaccessible paths are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipDir(t, path) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir extends the watch to a directory created after startup.
func (w *Watcher) maybeAddDir(t target, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.skipDir(t, path) {
		return
	}
	if addErr := w.fsw.Add(path); addErr != nil {
		w.logger.Warn("watch: add new directory", "path", path, "err", addErr)
	}
}

func (w *Watcher) skipDir(t target, path string) bool {
	for _, dir := range w.exclude {
		if within(dir, path) {
			return true
		}
	}
	rel, err := filepath.Rel(t.path, path)
	if err != nil || rel == "." {
		return false
	}
	return w.isIgnored(rel) || w.isIgnored(rel+"/")
}

// isIgnored reports whether rel, relative to a watched directory, matches an
// ignore pattern.
func (w *Watcher) isIgnored(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// within reports whether path is dir or below it.
func within(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return fmt.Errorf("watch: invalid ignore pattern %q: %w", pat, err)
		}
	}
	return nil
}
