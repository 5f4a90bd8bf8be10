// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must stay quiet before a reload.
const DefaultDebounce = 250 * time.Millisecond

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// Reload is the outcome of re-reading the config file after a change.
// Exactly one of Config and Err is set.
type Reload struct {
	Config *Config
	Err    error
}

// Watcher reloads the config file whenever it changes on disk.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temp file and renaming it over the original are
// still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	updates  chan Reload
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		updates:  make(chan Reload, 1),
	}, nil
}

// Updates delivers one Reload per settled burst of changes. The channel is
// closed when Run returns.
func (w *Watcher) Updates() <-chan Reload {
	return w.updates
}

// Run processes file events until ctx is done. It always returns nil after
// cancellation so it can run under an errgroup next to the UI.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.updates)
	defer w.watcher.Close()

	// fire is nil while no reload is pending.
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Restart the quiet period on every event.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.send(ctx, Reload{Err: fmt.Errorf("watch config: %w", err)})

		case <-fire:
			fire = nil
			cfg, err := LoadFromPath(w.path)
			if err != nil {
				w.send(ctx, Reload{Err: err})
				continue
			}
			w.send(ctx, Reload{Config: cfg})
		}
	}
}

// send delivers r, replacing an undelivered older result.
func (w *Watcher) send(ctx context.Context, r Reload) {
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- r:
	case <-ctx.Done():
	}
}
