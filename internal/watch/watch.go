// Package watch implements `status --watch`'s filesystem-triggered
// re-render: a debounced fsnotify watch over each submodule's flat
// path and hidden clone, grounded on the teacher's FileWatcher
// (cmd/bd/daemon_watcher.go), trimmed to salt's single need —
// "something changed, re-run status" — instead of JSONL/git-ref
// specific dispatch.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce matches the teacher's JSONL watcher's debounce
// window; frequent small edits across several files collapse into one
// re-render instead of one per fsnotify event.
const DefaultDebounce = 500 * time.Millisecond

// Watcher fires onChange, debounced, whenever any of a set of
// directories change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func()
}

// New creates a Watcher over dirs. Directories that don't exist yet
// are skipped rather than failing the whole watch, since a submodule
// may not have a hidden clone or flat copy yet. Each directory is
// watched non-recursively: events on its direct entries are reported,
// changes inside its subdirectories are not.
func New(dirs []string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		_ = fsw.Add(d)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{fsw: fsw, debounce: debounce, onChange: onChange}, nil
}

// Run blocks, invoking onChange (debounced) until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	var timer *time.Timer
	var fired <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fired = timer.C
		case <-fired:
			fired = nil
			w.onChange()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}
