package seatpage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch regenerates the pages for seats every time the template changes,
// until ctx is cancelled. Bursts of events within debounce collapse into a
// single regeneration. onChange receives each result or error; a failed
// regeneration does not stop the watch.
//
// The template's directory is watched rather than the file itself, since
// many editors save by renaming a temporary file over the original.
func (g *Generator) Watch(ctx context.Context, seats []int, debounce time.Duration, onChange func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(g.template)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	g.logger.Info("watching template", "path", g.template, "debounce", debounce)

	target := filepath.Clean(g.template)

	// pending is nil while no regeneration is scheduled.
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			g.logger.Debug("template event", "op", event.Op.String())
			pending = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Warn("watch error", "error", err)

		case <-pending:
			pending = nil
			onChange(g.Generate(ctx, seats))
		}
	}
}
