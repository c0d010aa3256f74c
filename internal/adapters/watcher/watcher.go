// Package watcher reports record files that change under a library root.
// Events are debounced per path so editors that write in several steps
// produce a single event.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a path must stay quiet before it is reported
const DefaultDebounce = 200 * time.Millisecond

// Op is the kind of change seen on a record
type Op int

const (
	OpChanged Op = iota // created or written
	OpRemoved           // removed or renamed away
)

func (o Op) String() string {
	if o == OpRemoved {
		return "removed"
	}
	return "changed"
}

// Event is a debounced change of one record file
type Event struct {
	Path string
	Op   Op
}

// Watcher watches a library directory tree for record files
type Watcher struct {
	root      string
	extension string
	debounce  time.Duration
	fsw       *fsnotify.Watcher
	Logger    *slog.Logger
}

// New starts watching root and every non-hidden directory below it.
// Only files ending in extension are reported.
func New(root, extension string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:      abs,
		extension: strings.ToLower(extension),
		debounce:  debounce,
		fsw:       fsw,
		Logger:    slog.Default(),
	}
	if err := w.addRecursive(abs); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add directories to watcher: %w", err)
	}
	return w, nil
}

// Root returns the resolved directory being watched
func (w *Watcher) Root() string {
	return w.root
}

// Run delivers events to handle until ctx is done. A path is reported once
// it has been quiet for the debounce window, or once it has been pending for
// maxWaitFactor windows while it keeps changing. Paths due together are
// delivered in path order.
func (w *Watcher) Run(ctx context.Context, handle func(Event)) error {
	defer w.fsw.Close()

	pending := make(map[string]*pendingChange)
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if path, op, ok := w.classify(event); ok {
				now := time.Now()
				if p, seen := pending[path]; seen {
					p.op = op
					p.last = now
				} else {
					pending[path] = &pendingChange{op: op, first: now, last: now}
				}
				flush = w.nextFlush(pending, now)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch error", "error", err)

		case <-flush:
			now := time.Now()
			for _, e := range w.takeDue(pending, now) {
				handle(e)
			}
			flush = w.nextFlush(pending, now)
		}
	}
}

// maxWaitFactor bounds how many debounce windows a path that never goes
// quiet can stay pending
const maxWaitFactor = 5

type pendingChange struct {
	op          Op
	first, last time.Time
}

func (w *Watcher) due(p *pendingChange) time.Time {
	quiet := p.last.Add(w.debounce)
	if limit := p.first.Add(maxWaitFactor * w.debounce); limit.Before(quiet) {
		return limit
	}
	return quiet
}

// nextFlush returns a channel firing at the earliest deadline among pending
// paths, or nil when nothing is pending
func (w *Watcher) nextFlush(pending map[string]*pendingChange, now time.Time) <-chan time.Time {
	if len(pending) == 0 {
		return nil
	}
	var next time.Time
	for _, p := range pending {
		if d := w.due(p); next.IsZero() || d.Before(next) {
			next = d
		}
	}
	return time.After(max(next.Sub(now), 0))
}

// takeDue removes and returns the events whose deadline has passed
func (w *Watcher) takeDue(pending map[string]*pendingChange, now time.Time) []Event {
	var events []Event
	for path, p := range pending {
		if !w.due(p).After(now) {
			events = append(events, Event{Path: path, Op: p.op})
			delete(pending, path)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	return events
}

// classify maps a raw event onto a record change. New directories are
// added to the watch list and produce no event themselves.
func (w *Watcher) classify(event fsnotify.Event) (string, Op, bool) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !hidden(info.Name()) {
				if err := w.addRecursive(event.Name); err != nil {
					w.Logger.Warn("watch directory failed", "path", event.Name, "error", err)
				}
			}
			return "", 0, false
		}
	}

	if !strings.HasSuffix(strings.ToLower(event.Name), w.extension) {
		return "", 0, false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return event.Name, OpRemoved, true
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return event.Name, OpChanged, true
	default:
		return "", 0, false
	}
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip directories we can't access
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && hidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
