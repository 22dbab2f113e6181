// Package heroes watches placed heroes and fires their abilities.
package heroes

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rules"
)

// Source reports the live status of placed heroes.
type Source interface {
	Heroes() []model.HeroStatus
}

// Activator issues an ability activation to the host.
type Activator interface {
	Activate(ctx context.Context, unit string) error
}

// maxPendingPolls drops a watched hero that never shows up as active.
const maxPendingPolls = 50

type watched struct {
	seen      bool // reported active at least once
	activated bool
	gone      bool
	pending   int
}

// Controller polls hero status on a fixed interval and activates each
// watched hero's ability once it is ready. It reads engagement state only
// through a rules.View and never touches placement state.
type Controller struct {
	src      Source
	act      Activator
	view     rules.View
	interval time.Duration

	mu      sync.Mutex
	heroes  map[string]*watched
	order   []string
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(src Source, act Activator, view rules.View, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Controller{src: src, act: act, view: view, interval: interval, heroes: map[string]*watched{}}
}

// Watch adds heroes to the watch set and starts the polling goroutine if it
// is not already running. The watcher lives at most as long as ctx.
func (c *Controller) Watch(ctx context.Context, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		if _, ok := c.heroes[id]; ok {
			continue
		}
		c.heroes[id] = &watched{}
		c.order = append(c.order, id)
	}
	if c.cancel == nil {
		c.ctx, c.cancel = context.WithCancel(ctx)
	}
	if c.running || len(c.order) == 0 || c.ctx.Err() != nil {
		return
	}
	c.running = true
	c.wg.Add(1)
	slog.Info("hero watcher started", "heroes", ids, "interval", c.interval)
	go c.run(c.ctx)
}

// Stop cancels the watcher and waits for it to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// Running reports whether the polling goroutine is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Controller) stopped(reason string) {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	slog.Info("hero watcher stopped", "reason", reason)
}

func (c *Controller) run(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.stopped("cancelled")
			return
		case <-ticker.C:
		}
		if c.view != nil && c.view.Terminal() {
			c.stopped("engagement over")
			return
		}
		if !c.poll(ctx) {
			return
		}
	}
}

// poll runs one check and reports whether any hero still needs watching.
// When none does, it clears running under the same lock that decided it.
func (c *Controller) poll(ctx context.Context) bool {
	status := map[string]model.HeroStatus{}
	for _, h := range c.src.Heroes() {
		status[h.Unit] = h
	}

	c.mu.Lock()
	var ready []string
	live := 0
	for _, id := range c.order {
		w := c.heroes[id]
		if w.gone || w.activated {
			continue
		}
		st, ok := status[id]
		switch {
		case ok && st.Active:
			w.seen = true
			if st.AbilityReady {
				w.activated = true
				ready = append(ready, id)
				continue
			}
		case w.seen:
			w.gone = true
			slog.Info("hero no longer active", "unit", id)
			continue
		default:
			w.pending++
			if w.pending >= maxPendingPolls {
				w.gone = true
				slog.Warn("hero never became active", "unit", id)
				continue
			}
		}
		live++
	}
	if live == 0 {
		c.running = false
	}
	c.mu.Unlock()

	for _, id := range ready {
		if c.view != nil && c.view.Terminal() {
			break
		}
		slog.Info("activating hero ability", "unit", id)
		if err := c.act.Activate(ctx, id); err != nil {
			slog.Warn("hero activation failed", "unit", id, "error", err)
		}
	}
	if live == 0 {
		slog.Info("hero watcher stopped", "reason", "no heroes left to watch")
		return false
	}
	return true
}
