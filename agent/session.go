// Package agent runs the per-connection sessions: the handshake, the live
// battlefield fed by host snapshots, and the engagement runner.
package agent

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nstehr/vimy/vimy-raid/config"
	"github.com/nstehr/vimy/vimy-raid/ipc"
	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
	"github.com/nstehr/vimy/vimy-raid/rules"
	"github.com/nstehr/vimy/vimy-raid/strategy"
)

// Session owns one host connection. At most one engagement runs at a time;
// sessions share nothing but the registry.
type Session struct {
	Conn     *ipc.Connection
	Player   string
	cfg      config.Config
	registry *Registry

	// RunnerHook adjusts each engagement's runner before it starts.
	RunnerHook func(*Runner)

	mu       sync.Mutex
	bf       *Battlefield
	id       string
	seq      int
	prev     *battleSnapshot
	cancel   context.CancelCauseFunc
	finished chan struct{}
}

func NewSession(conn *ipc.Connection, cfg config.Config, registry *Registry) *Session {
	return &Session{Conn: conn, cfg: cfg, registry: registry}
}

// Serve wires a session onto a transport and blocks until the host hangs up.
func Serve(t ipc.Transport, cfg config.Config, registry *Registry) {
	c := ipc.NewConnection(t, nil)
	s := NewSession(c, cfg, registry)
	s.Register()
	c.ReadLoop()
	s.Close()
}

// Register installs the session's message handlers on its connection.
func (s *Session) Register() {
	s.Conn.RegisterHandler(ipc.TypeHello, s.HandleHello)
	s.Conn.RegisterHandler(ipc.TypeBattleStart, s.HandleBattleStart)
	s.Conn.RegisterHandler(ipc.TypeBattleState, s.HandleBattleState)
	s.Conn.RegisterHandler(ipc.TypeBattleEnd, s.HandleBattleEnd)
}

func ack(status, id string, err error) (*ipc.Envelope, error) {
	msg := ipc.AckMessage{Status: status, EngagementID: id}
	if err != nil {
		msg.Error = err.Error()
	}
	env, e := ipc.NewEnvelope(ipc.TypeAck, msg)
	if e != nil {
		return nil, e
	}
	return &env, nil
}

// HandleHello completes the handshake so the host knows the core is ready.
func (s *Session) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.Player = hello.Player
	s.Conn.Player = hello.Player
	if hello.Strategy != "" {
		cfg := s.cfg
		cfg.Strategy = hello.Strategy
		if err := cfg.Validate(); err != nil {
			s.mu.Unlock()
			slog.Warn("rejecting strategy override", "player", hello.Player, "strategy", hello.Strategy, "error", err)
			return ack("error", "", err)
		}
		s.cfg = cfg
	}
	strat := s.cfg.Strategy
	s.mu.Unlock()

	slog.Info("player identified", "player", hello.Player, "strategy", strat)
	return ack("ok", "", nil)
}

// HandleBattleStart computes the configured strategy against the opening
// layout and starts driving it.
func (s *Session) HandleBattleStart(env ipc.Envelope) (*ipc.Envelope, error) {
	var start ipc.BattleStartMessage
	if err := env.Decode(&start); err != nil {
		return nil, err
	}

	s.stopEngagement(rules.ErrBattleEnded)

	s.mu.Lock()
	cfg := s.cfg
	strat, err := strategy.New(cfg)
	if err != nil {
		s.mu.Unlock()
		return ack("error", "", err)
	}
	bf := NewBattlefield(start)
	e := strat.Compute(bf, rng.New(cfg.Seed))
	id := s.registry.Add(s.Player, strat.Name(), e.State)
	snap := takeSnapshot(bf.Snapshot())
	ctx, cancel := context.WithCancelCause(context.Background())
	finished := make(chan struct{})
	s.bf, s.id, s.seq, s.prev, s.cancel, s.finished = bf, id, 0, &snap, cancel, finished
	s.mu.Unlock()

	slog.Info("battle started", "player", s.Player, "engagement", id, "strategy", strat.Name(),
		"mode", e.State.Mode(), "boundary", len(start.Boundary), "features", len(start.Features), "units", len(start.Inventory))

	r := NewRunner(&hostExecutor{conn: s.Conn}, bf, cfg.HeroPollInterval)
	if s.RunnerHook != nil {
		s.RunnerHook(r)
	}
	go func() {
		defer close(finished)
		if err := r.Run(ctx, e); err != nil {
			slog.Error("engagement failed", "engagement", id, "error", err)
		}
		s.reportDone(id, e)
	}()
	return ack("ok", id, nil)
}

// HandleBattleState feeds a live snapshot to the running engagement.
func (s *Session) HandleBattleState(env ipc.Envelope) (*ipc.Envelope, error) {
	var state ipc.BattleStateMessage
	if err := env.Decode(&state); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bf == nil {
		slog.Debug("battle state without an engagement", "player", s.Player)
		return nil, nil
	}
	s.bf.Update(state)
	s.seq++
	events := detectEvents(s.bf.Snapshot(), s.seq, s.prev)
	snap := takeSnapshot(s.bf.Snapshot())
	s.prev = &snap
	if len(events) > 0 {
		slog.Info("battle events", "engagement", s.id, "events", formatEvents(events))
		s.registry.Record(s.id, events...)
	}
	return nil, nil
}

// HandleBattleEnd stops the running engagement, if any. The host already
// closed the battle, so no surrender is sent.
func (s *Session) HandleBattleEnd(env ipc.Envelope) (*ipc.Envelope, error) {
	var end ipc.BattleEndMessage
	if err := env.Decode(&end); err != nil {
		return nil, err
	}
	slog.Info("battle ended by host", "player", s.Player, "reason", end.Reason)
	s.stopEngagement(rules.ErrBattleEnded)
	return ack("ok", "", nil)
}

// Close stops the running engagement and waits for it to unwind.
func (s *Session) Close() {
	s.stopEngagement(nil)
}

// stopEngagement cancels the running engagement with cause and waits for it.
func (s *Session) stopEngagement(cause error) {
	s.mu.Lock()
	cancel, finished := s.cancel, s.finished
	s.cancel, s.finished, s.bf = nil, nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel(cause)
	<-finished
}

func (s *Session) reportDone(id string, e *strategy.Engagement) {
	sum := e.State.Summary()
	done := ipc.EngagementDoneMessage{
		EngagementID: id,
		Strategy:     e.Strategy,
		Mode:         sum.Mode.String(),
		Reason:       sum.Reason,
		Waves:        sum.Wave,
		Loot:         sum.History,
	}
	for _, f := range e.Faults() {
		done.Faults = append(done.Faults, f.Error())
	}
	if err := s.Conn.Send(ipc.TypeEngagementDone, done); err != nil {
		slog.Warn("failed to report engagement", "engagement", id, "error", err)
	}
}

// hostExecutor sends engagement commands over the session's connection.
type hostExecutor struct {
	conn *ipc.Connection
}

func (h *hostExecutor) Place(_ context.Context, step model.Step) error {
	return h.conn.Send(ipc.TypePlace, ipc.PlaceFromStep(step))
}

func (h *hostExecutor) Activate(_ context.Context, unit string) error {
	return h.conn.Send(ipc.TypeActivate, ipc.ActivateCommand{Unit: unit})
}

func (h *hostExecutor) Surrender(_ context.Context, reason string) error {
	return h.conn.Send(ipc.TypeSurrender, ipc.SurrenderCommand{Reason: reason})
}
