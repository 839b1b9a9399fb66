package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Trigger names reported to builds.
const (
	TriggerStartup = "startup"
	TriggerFS      = "fs"
)

// Options configures a Watcher.
type Options struct {
	ContentDir   string
	TemplatesDir string
	Debounce     time.Duration
	// Schedule is an optional cron expression for periodic rebuilds.
	Schedule string
	Logger   *slog.Logger
}

// Watcher turns source changes into build requests.
type Watcher struct {
	opts      Options
	filter    Filter
	coalescer *Coalescer
	logger    *slog.Logger
}

// New returns a Watcher feeding c.
func New(c *Coalescer, opts Options) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		opts:      opts,
		filter:    Filter{ContentDir: opts.ContentDir, TemplatesDir: opts.TemplatesDir},
		coalescer: c,
		logger:    logger,
	}
}

// Run requests an initial build, then watches until ctx is done. On return
// the running build (if any) has finished.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, dir := range []string{w.opts.ContentDir, w.opts.TemplatesDir} {
		if st, statErr := os.Stat(dir); statErr != nil || !st.IsDir() {
			w.logger.Warn("Watch directory not found", logfields.Path(dir))
			continue
		}
		w.addDirsRecursive(fsw, dir)
	}

	var sched *Scheduler
	if w.opts.Schedule != "" {
		sched, err = NewScheduler(w.opts.Schedule, w.coalescer.Request)
		if err != nil {
			return err
		}
		sched.Start()
	}

	debouncer := NewDebouncer(w.opts.Debounce, func() { w.coalescer.Request(TriggerFS) })
	w.coalescer.Request(TriggerStartup)
	w.logger.Info("Watching for changes",
		slog.String("content", w.opts.ContentDir),
		slog.String("templates", w.opts.TemplatesDir))

	defer func() {
		debouncer.Stop()
		if sched != nil {
			if err := sched.Stop(); err != nil {
				w.logger.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}
		if building, _ := w.coalescer.State(); building {
			w.logger.Info("Waiting for running build to finish")
		}
		w.coalescer.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev, debouncer)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, d *Debouncer) {
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !shouldIgnoreEvent(ev.Name) {
			w.addDirsRecursive(fsw, ev.Name)
		}
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	if !w.filter.Relevant(ev.Name) {
		return
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	d.Trigger()
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldIgnoreEvent(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}
