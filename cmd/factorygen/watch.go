package main

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/origadmin/factorygen/internal/config"
	"github.com/origadmin/factorygen/internal/core"
	"github.com/origadmin/factorygen/internal/logger"
)

const debouncePeriod = 300 * time.Millisecond

// watch regenerates after every burst of changes to the Go files of the
// scanned packages until ctx is done.
func watch(ctx context.Context, cfg *config.Config, opts generateOptions, out, errOut io.Writer) error {
	log := logger.Named("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	generated := make(map[string]bool)
	refresh := func(res *core.Result) {
		if res == nil {
			return
		}
		for _, f := range res.Files {
			generated[f.Path] = true
		}
		for _, dir := range res.Dirs {
			if watched[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				log.Warnw("cannot watch directory", "dir", dir, "error", err)
				continue
			}
			watched[dir] = true
		}
	}

	res, err := runGenerate(ctx, cfg, opts, out, errOut)
	if err != nil && !errors.Is(err, errReported) {
		log.Errorw("generation failed", "error", err)
	}
	refresh(res)
	if len(watched) == 0 {
		return errors.New("no package directories to watch")
	}
	log.Infow("watching for changes", "dirs", len(watched))

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, generated) {
				continue
			}
			log.Debugw("change detected", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debouncePeriod, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watcher error", "error", err)
		case <-fire:
			res, err := runGenerate(ctx, cfg, opts, out, errOut)
			if err != nil && !errors.Is(err, errReported) {
				log.Errorw("generation failed", "error", err)
			}
			refresh(res)
		}
	}
}

// relevant reports whether event touches a hand-written Go source file.
func relevant(event fsnotify.Event, generated map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".go") || strings.HasPrefix(name, ".") {
		return false
	}
	return !generated[event.Name]
}
