// Package watcher monitors a directory for new transcript files and hands
// them to a caller-supplied handler with bounded concurrency.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Defaults applied when an Options field is zero.
const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultWorkers  = 2
)

// memoSuffix marks generated output files. Files carrying it are never
// dispatched, so memos written into the watched directory do not feed back
// into the watch loop.
const memoSuffix = "_memo"

// Handler processes one transcript file. Handlers run on watcher-owned
// goroutines; at most Options.Workers run at once.
type Handler func(ctx context.Context, path string) error

// Options adjusts watch behavior. The zero value selects .txt files, a 500 ms
// debounce, two workers, and no logging.
type Options struct {
	Extensions []string      // Accepted file extensions, lowercase with dot (default: .txt).
	Debounce   time.Duration // Quiet period per path before dispatch.
	Workers    int           // Concurrent handler bound.
	Logger     zerolog.Logger
}

// Watcher watches one directory. Create with New, drive with Run.
type Watcher struct {
	dir  string
	opts Options
	fsw  *fsnotify.Watcher
	log  zerolog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a Watcher on dir. The directory must already exist.
func New(dir string, opts Options) (*Watcher, error) {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".txt"}
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: create: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watcher: watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:     dir,
		opts:    opts,
		fsw:     fsw,
		log:     opts.Logger,
		pending: map[string]*time.Timer{},
	}, nil
}

// Run dispatches matching Create/Write events to handler until ctx is done,
// then waits for in-flight handlers and returns ctx.Err(). Events on the same
// path within the debounce window collapse into one dispatch, so a file still
// being written is handled once, after it goes quiet.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	defer func() { _ = w.fsw.Close() }()

	w.log.Info().
		Str("dir", w.dir).
		Strs("extensions", w.opts.Extensions).
		Int("workers", w.opts.Workers).
		Msg("watching for transcripts")

	sem := make(chan struct{}, w.opts.Workers)
	ready := make(chan string)

	// done releases debounce timers that fire after Run has returned.
	done := make(chan struct{})
	defer close(done)

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			wg.Wait()

			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watcher: events channel closed")
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			if !w.matches(event.Name) {
				continue
			}

			w.debounce(event.Name, ready, done)

		case path := <-ready:
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				w.stopPending()
				wg.Wait()

				return ctx.Err()
			}

			wg.Add(1)

			go func(path string) {
				defer wg.Done()
				defer func() { <-sem }()

				w.log.Info().Str("path", path).Msg("transcript detected")

				if err := handler(ctx, path); err != nil {
					w.log.Error().Err(err).Str("path", path).Msg("handler failed")
				}
			}(path)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watcher: errors channel closed")
			}

			w.log.Error().Err(err).Msg("watch error")
		}
	}
}

// debounce (re)arms the per-path timer; the path lands on ready once no new
// event arrives for the debounce window.
func (w *Watcher) debounce(path string, ready chan<- string, done <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.opts.Debounce)
		return
	}

	w.pending[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-done:
		}
	})
}

// stopPending cancels timers that have not fired yet.
func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// matches reports whether path is a transcript this watcher dispatches:
// accepted extension and not a generated memo.
func (w *Watcher) matches(path string) bool {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))

	if !slices.Contains(w.opts.Extensions, ext) {
		return false
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return !strings.HasSuffix(stem, memoSuffix)
}
