package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nstehr/vimy/vimy-raid/heroes"
	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rules"
	"github.com/nstehr/vimy/vimy-raid/strategy"
)

// Executor carries out the host-side commands of an engagement.
type Executor interface {
	heroes.Activator
	Place(ctx context.Context, step model.Step) error
	Surrender(ctx context.Context, reason string) error
}

// Runner drives one engagement's step stream: it executes placements, sleeps
// through waits, and hands placed heroes to a hero controller.
type Runner struct {
	exec     Executor
	src      heroes.Source
	interval time.Duration

	// Sleep pauses for a wait step. Nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func NewRunner(exec Executor, src heroes.Source, heroPoll time.Duration) *Runner {
	return &Runner{exec: exec, src: src, interval: heroPoll}
}

// Run consumes the engagement until its stream ends, the context is
// cancelled, or a command cannot be delivered. An interrupted engagement is
// surrendered; the surrender command is sent at most once. A context
// cancelled with rules.ErrBattleEnded as its cause ends the engagement
// without a surrender.
func (r *Runner) Run(ctx context.Context, e *strategy.Engagement) error {
	hc := heroes.New(r.src, r.exec, e.State, r.interval)
	defer hc.Stop()

	var runErr error
	for step := range e.Steps() {
		if err := r.execute(ctx, hc, step); err != nil {
			runErr = err
			break
		}
	}

	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err()
	}
	switch {
	case runErr == nil:
	case errors.Is(context.Cause(ctx), rules.ErrBattleEnded):
		e.State.Transition(rules.Done, rules.ErrBattleEnded)
	default:
		reason := rules.ErrAborted
		if !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
			reason = fmt.Errorf("%w: %w", rules.ErrAborted, runErr)
		}
		e.State.Surrender(reason)
		if e.State.TakeSurrender() {
			// ctx may already be cancelled; the surrender still has to reach the host.
			if err := r.exec.Surrender(context.WithoutCancel(ctx), reason.Error()); err != nil {
				slog.Warn("failed to send surrender", "error", err)
			}
		}
	}

	slog.Info("engagement finished", "strategy", e.Strategy, "mode", e.State.Mode(), "waves", e.State.Wave(), "reason", e.State.Reason())
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func (r *Runner) execute(ctx context.Context, hc *heroes.Controller, step model.Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch step.Kind {
	case model.StepPlace:
		if err := r.exec.Place(ctx, step); err != nil {
			return fmt.Errorf("place %s: %w", step.Unit, err)
		}
	case model.StepWait:
		return r.sleep(ctx, step.Wait)
	case model.StepWatchHeroes:
		hc.Watch(ctx, step.Heroes...)
	case model.StepActivateAbility:
		if err := r.exec.Activate(ctx, step.Unit); err != nil {
			return fmt.Errorf("activate %s: %w", step.Unit, err)
		}
	case model.StepSurrender:
		slog.Info("surrendering", "reason", step.Reason)
		if err := r.exec.Surrender(ctx, step.Reason); err != nil {
			return fmt.Errorf("surrender: %w", err)
		}
	default:
		slog.Warn("unknown step", "kind", step.Kind)
	}
	return nil
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
