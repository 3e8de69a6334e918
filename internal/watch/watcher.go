package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a rerun.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the output of a single pipeline execution so the
// watcher can report what changed.
type RunResult struct {
	// Total is the number of matching vacancies.
	Total int
	// Records is the number of loaded rows before filtering.
	Records int
	// Summary is the line-oriented distribution summary (see Summary).
	Summary string
}

// Options configures the watch behaviour.
type Options struct {
	// Files are the data files to watch.
	Files []string

	// Debounce is the quiet period before triggering a rerun.
	Debounce time.Duration

	// Color enables ANSI colors in the printed diffs.
	Color bool

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// session serialises reruns and remembers the previous summary.
type session struct {
	opts  Options
	runFn RunFunc

	mu   sync.Mutex
	prev *RunResult
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if len(opts.Files) == 0 {
		return fmt.Errorf("no files to watch")
	}

	targets, err := resolveTargets(opts.Files)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch parent directories: editors often replace files by rename,
	// which drops a watch placed on the file itself.
	for _, dir := range targets.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %q: %w", dir, err)
		}
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n",
		strings.Join(opts.Files, ", "), opts.Debounce)

	s := &session{opts: opts, runFn: runFn}

	s.run(sigCtx, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, opts.Logger, func(path string) {
		s.run(sigCtx, path)
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			_, _ = fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event) || !targets.has(event.Name) {
				continue
			}

			opts.Logger.Debug("source changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// run executes a single pipeline run and prints the status line and the
// summary diff against the previous successful run.
func (s *session) run(ctx context.Context, trigger string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	now := time.Now().Format("15:04:05")
	out := s.opts.Out

	result, err := s.runFn(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	_, _ = fmt.Fprintf(out, "[%s] %s → OK (%d of %d vacancies)\n",
		now, trigger, result.Total, result.Records)

	if s.prev != nil {
		diff, diffErr := SummaryDiff(s.prev, result)
		if diffErr != nil {
			s.opts.Logger.Error("computing summary diff", slog.String("error", diffErr.Error()))
		} else {
			WriteDiff(out, diff, s.opts.Color)
		}
	}

	s.prev = result
}

// targetSet is the set of absolute file paths being watched.
type targetSet map[string]bool

func resolveTargets(files []string) (targetSet, error) {
	set := make(targetSet, len(files))

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", f, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watching file %q: %w", f, err)
		}

		if info.IsDir() {
			return nil, fmt.Errorf("watching file %q: is a directory", f)
		}

		set[abs] = true
	}

	return set, nil
}

func (t targetSet) has(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}

	return t[abs]
}

func (t targetSet) dirs() []string {
	seen := make(map[string]bool)

	var dirs []string

	for f := range t {
		d := filepath.Dir(f)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}

	sort.Strings(dirs)

	return dirs
}

// isRelevant filters out events that cannot change file contents.
func isRelevant(event fsnotify.Event) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)

	// Ignore editor temporary files and hidden files.
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}

	return true
}
