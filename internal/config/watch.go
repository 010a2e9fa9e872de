// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	xglog "github.com/ManuGH/asrconf/internal/log"
	"github.com/ManuGH/asrconf/internal/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// ReloadEvent is sent to listeners after every reload attempt.
type ReloadEvent struct {
	Config  *TrainingConfig // the config in effect after the attempt
	Changes ChangeSummary   // empty when the reload failed
	Err     error           // nil on success
}

// Watcher holds the last good configuration of one recipe and reloads it
// when the file changes. A failed reload keeps the previous configuration.
type Watcher struct {
	mu       sync.RWMutex
	current  *TrainingConfig
	loader   *Loader
	logger   zerolog.Logger
	debounce time.Duration

	reloadMu sync.Mutex

	// Reload notifications
	listenMu  sync.RWMutex
	listeners []chan<- ReloadEvent

	fsw  *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher creates a watcher for the loader's recipe. Call Reload once
// to load the initial configuration.
func NewWatcher(loader *Loader) *Watcher {
	return &Watcher{
		loader:   loader,
		logger:   xglog.WithComponent("watch").With().Str(xglog.FieldRecipe, loader.Path()).Logger(),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
}

// SetDebounce changes the quiet period before a reload. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Current returns a copy of the last good configuration, or nil if none
// loaded yet.
func (w *Watcher) Current() *TrainingConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Clone(w.current)
}

// Reload loads and validates the recipe. On failure the previous
// configuration stays in effect and the error is returned.
func (w *Watcher) Reload(_ context.Context) error {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	w.logger.Debug().Str(xglog.FieldEvent, "config.reload_start").Msg("reloading recipe")

	next, err := w.loader.LoadValidated()
	if err != nil {
		metrics.IncReload(metrics.OutcomeInvalid)
		w.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.reload_failed").
			Msg("keeping previous recipe")
		w.notify(ReloadEvent{Config: w.Current(), Err: err})
		return fmt.Errorf("reload recipe: %w", err)
	}

	w.mu.Lock()
	prev := w.current
	w.current = next
	w.mu.Unlock()

	var changes ChangeSummary
	if prev != nil {
		changes = Diff(prev, next)
		if changes.Empty() {
			metrics.IncReload(metrics.OutcomeReloadSkipped)
			return nil
		}
	}
	metrics.IncReload(metrics.OutcomeOK)

	ev := w.logger.Info().Str(xglog.FieldEvent, "config.reload_success")
	if prev != nil {
		ev = ev.Strs("changed", changes.ChangedFields).Bool("architecture_changed", changes.ArchitectureChanged)
	}
	ev.Msg("recipe reloaded")

	w.notify(ReloadEvent{Config: Clone(next), Changes: changes})
	return nil
}

// Start watches the recipe's directory, so that editors replacing the
// file by rename are seen too, until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	target := filepath.Clean(w.loader.Path())
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch recipe directory: %w", err)
	}
	w.fsw = fsw

	w.logger.Info().
		Str(xglog.FieldEvent, "config.watcher_started").
		Msg("watching recipe for changes")

	go w.watchLoop(ctx, target)
	return nil
}

// Wait blocks until the watch loop has exited.
func (w *Watcher) Wait() { <-w.done }

func (w *Watcher) watchLoop(ctx context.Context, target string) {
	defer close(w.done)
	defer func() { _ = w.fsw.Close() }()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str(xglog.FieldEvent, "config.watcher_stopped").Msg("recipe watcher stopped")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().
				Str(xglog.FieldEvent, "config.file_changed").
				Str("op", event.Op.String()).
				Msg("recipe changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				// failures are logged and sent to listeners by Reload
				_ = w.Reload(ctx)
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn().Err(err).Str(xglog.FieldEvent, "config.watcher_overflow").Msg("events dropped")
				continue
			}
			w.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "config.watcher_error").
				Msg("recipe watcher error")
		}
	}
}

// RegisterListener registers a channel to receive reload events.
// The caller is responsible for closing the channel.
func (w *Watcher) RegisterListener(ch chan<- ReloadEvent) {
	w.listenMu.Lock()
	defer w.listenMu.Unlock()
	w.listeners = append(w.listeners, ch)
}

// notify sends ev to all registered listeners (non-blocking).
func (w *Watcher) notify(ev ReloadEvent) {
	w.listenMu.RLock()
	defer w.listenMu.RUnlock()

	for _, ch := range w.listeners {
		select {
		case ch <- ev:
		default:
			w.logger.Warn().
				Str(xglog.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}
