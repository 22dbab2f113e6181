package agent

import (
	"net"
	"testing"
	"time"

	"github.com/nstehr/vimy/vimy-raid/config"
	"github.com/nstehr/vimy/vimy-raid/geometry"
	"github.com/nstehr/vimy/vimy-raid/ipc"
	"github.com/nstehr/vimy/vimy-raid/model"
)

type hostSide struct {
	t  *testing.T
	tr *ipc.StreamTransport
}

func (h hostSide) send(typ string, data any) {
	h.t.Helper()
	env, err := ipc.NewEnvelope(typ, data)
	if err != nil {
		h.t.Fatal(err)
	}
	if err := h.tr.Write(env); err != nil {
		h.t.Fatal(err)
	}
}

func (h hostSide) recv() ipc.Envelope {
	h.t.Helper()
	env, err := h.tr.Read()
	if err != nil {
		h.t.Fatal(err)
	}
	return env
}

func (h hostSide) ack() ipc.AckMessage {
	h.t.Helper()
	env := h.recv()
	if env.Type != ipc.TypeAck {
		h.t.Fatalf("got %s, want ack", env.Type)
	}
	var a ipc.AckMessage
	if err := env.Decode(&a); err != nil {
		h.t.Fatal(err)
	}
	return a
}

func TestSessionLifecycle(t *testing.T) {
	hostConn, coreConn := net.Pipe()
	reg := NewRegistry()
	c := ipc.NewConnection(ipc.NewStreamTransport(coreConn), nil)
	s := NewSession(c, config.Default(), reg)
	s.RunnerHook = func(r *Runner) { r.Sleep = noSleep }
	s.Register()
	done := make(chan struct{})
	go func() {
		c.ReadLoop()
		s.Close()
		close(done)
	}()

	host := hostSide{t: t, tr: ipc.NewStreamTransport(hostConn)}

	host.send(ipc.TypeHello, ipc.HelloMessage{Player: "chief", Strategy: "warp"})
	if a := host.ack(); a.Status != "error" || a.Error == "" {
		t.Fatalf("bad strategy accepted: %+v", a)
	}
	host.send(ipc.TypeHello, ipc.HelloMessage{Player: "chief", Strategy: "RedLine"})
	if a := host.ack(); a.Status != "ok" {
		t.Fatalf("hello: %+v", a)
	}

	start := battleStart()
	start.Boundary = nil
	host.send(ipc.TypeBattleStart, start)

	var id string
	var surrender ipc.SurrenderCommand
	var report ipc.EngagementDoneMessage
	for range 3 {
		env := host.recv()
		var err error
		switch env.Type {
		case ipc.TypeAck:
			var a ipc.AckMessage
			err = env.Decode(&a)
			id = a.EngagementID
		case ipc.TypeSurrender:
			err = env.Decode(&surrender)
		case ipc.TypeEngagementDone:
			err = env.Decode(&report)
		default:
			t.Fatalf("unexpected %s", env.Type)
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if id == "" || report.EngagementID != id {
		t.Fatalf("ack id %q, report id %q", id, report.EngagementID)
	}
	if surrender.Reason != geometry.ErrNoDeployPoints.Error() {
		t.Errorf("surrender reason %q", surrender.Reason)
	}
	if report.Strategy != "redline" || report.Mode != "surrendering" || report.Reason != surrender.Reason {
		t.Errorf("report %+v", report)
	}

	state := model.BattleState{Inventory: start.Inventory, Loot: nil, Objective: model.Objective{Stars: 1}}
	host.send(ipc.TypeBattleState, state)
	host.send(ipc.TypeBattleEnd, ipc.BattleEndMessage{Reason: "timer"})
	host.ack()

	info, ok := reg.Get(id)
	if !ok || info.Player != "chief" {
		t.Fatalf("registry entry %+v %v", info, ok)
	}
	got := kinds(info.Events)
	if got[EventStarEarned] != 1 || got[EventLootUnreadable] != 1 {
		t.Errorf("events %+v", info.Events)
	}

	hostConn.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not stop")
	}
}
