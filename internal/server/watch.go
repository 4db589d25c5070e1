package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mangaview/internal/runloop"
	"github.com/ziadkadry99/mangaview/internal/urlsync"
)

// DefaultRebuildDelay is the quiet period after the last library change.
const DefaultRebuildDelay = 500 * time.Millisecond

// Watcher rebuilds the site after the library stops changing.
type Watcher struct {
	root    string
	delay   time.Duration
	rebuild func(context.Context) error
	clk     clock.Clock
	log     *zap.Logger
	fsw     *fsnotify.Watcher
}

// NewWatcher watches root and its series directories.
func NewWatcher(root string, delay time.Duration, rebuild func(context.Context) error, log *zap.Logger) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultRebuildDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{root: root, delay: delay, rebuild: rebuild, clk: clock.New(), log: log, fsw: fsw}
	if err := w.add(root); err != nil {
		fsw.Close()
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			if err := w.add(filepath.Join(root, e.Name())); err != nil {
				log.Warn("cannot watch series", zap.String("dir", e.Name()), zap.Error(err))
			}
		}
	}
	return w, nil
}

func (w *Watcher) add(dir string) error {
	w.log.Debug("watching", zap.String("dir", dir))
	return w.fsw.Add(dir)
}

// Run blocks until ctx is done. Bursts of changes trigger a single rebuild,
// and rebuilds never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	loop := runloop.New(w.clk)
	go loop.Run(ctx)
	defer loop.Stop()
	debounce := urlsync.NewDebouncer(loop, w.delay)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && filepath.Dir(ev.Name) == filepath.Clean(w.root) {
					if err := w.add(ev.Name); err != nil {
						w.log.Warn("cannot watch series", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			w.log.Debug("library changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			loop.Post(func() {
				debounce.Schedule(func() {
					if err := w.rebuild(ctx); err != nil {
						w.log.Error("rebuild failed", zap.Error(err))
					}
				})
			})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}
