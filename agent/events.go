package agent

import (
	"fmt"
	"strings"

	"github.com/nstehr/vimy/vimy-raid/model"
)

// EventKind identifies a notable change between two battle snapshots.
type EventKind string

const (
	EventStarEarned       EventKind = "star_earned"
	EventPrimaryDestroyed EventKind = "primary_destroyed"
	EventCollectorLost    EventKind = "collector_destroyed"
	EventLootUnreadable   EventKind = "loot_unreadable"
	EventLootRestored     EventKind = "loot_restored"
	EventUnitDepleted     EventKind = "unit_depleted"
	EventHeroFallen       EventKind = "hero_fallen"
)

// Event is a battle event detected by diffing consecutive snapshots. Events
// are logged and kept on the engagement's registry entry.
type Event struct {
	Kind   EventKind `json:"kind"`
	Seq    int       `json:"seq"` // snapshot number
	Detail string    `json:"detail"`
}

// battleSnapshot captures the diffable fields of one battle_state.
type battleSnapshot struct {
	stars            int
	primaryDestroyed bool
	lootValid        bool
	destroyed        map[string]bool // feature id → destroyed, collectors only
	counts           map[string]int  // unit id → count
	names            map[string]string
	activeHeroes     map[string]bool
}

func takeSnapshot(s model.BattleState) battleSnapshot {
	snap := battleSnapshot{
		stars:            s.Objective.Stars,
		primaryDestroyed: s.Objective.PrimaryDestroyed,
		lootValid:        s.Loot != nil && s.Loot.Valid(),
		destroyed:        make(map[string]bool),
		counts:           make(map[string]int, len(s.Inventory)),
		names:            make(map[string]string, len(s.Inventory)),
		activeHeroes:     make(map[string]bool),
	}
	for _, f := range s.Features {
		if f.IsCollector() {
			snap.destroyed[f.ID] = f.Destroyed
		}
	}
	for _, g := range s.Inventory {
		snap.counts[g.ID] = g.Count
		snap.names[g.ID] = g.Name
	}
	for _, h := range s.Heroes {
		if h.Active {
			snap.activeHeroes[h.Unit] = true
		}
	}
	return snap
}

func detectEvents(s model.BattleState, seq int, prev *battleSnapshot) []Event {
	if prev == nil {
		return nil
	}

	var events []Event
	cur := takeSnapshot(s)
	add := func(k EventKind, detail string) {
		events = append(events, Event{Kind: k, Seq: seq, Detail: detail})
	}

	if cur.stars > prev.stars {
		add(EventStarEarned, fmt.Sprintf("stars %d→%d", prev.stars, cur.stars))
	}
	if cur.primaryDestroyed && !prev.primaryDestroyed {
		add(EventPrimaryDestroyed, "primary structure destroyed")
	}

	lost := 0
	for id, destroyed := range cur.destroyed {
		if destroyed && !prev.destroyed[id] {
			lost++
		}
	}
	if lost > 0 {
		add(EventCollectorLost, fmt.Sprintf("%d collector(s) destroyed", lost))
	}

	switch {
	case prev.lootValid && !cur.lootValid:
		add(EventLootUnreadable, "loot counters could not be read")
	case !prev.lootValid && cur.lootValid:
		add(EventLootRestored, "loot counters readable again")
	}

	for id, n := range cur.counts {
		if n <= 0 && prev.counts[id] > 0 {
			add(EventUnitDepleted, fmt.Sprintf("%s depleted", cur.names[id]))
		}
	}

	// Heroes drop out of the report or go inactive when they die.
	for id := range prev.activeHeroes {
		if !cur.activeHeroes[id] {
			add(EventHeroFallen, fmt.Sprintf("hero %s fell", id))
		}
	}
	return events
}

func formatEvents(events []Event) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range events {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "[%d] %s: %s", e.Seq, e.Kind, e.Detail)
	}
	return b.String()
}
