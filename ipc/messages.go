package ipc

import "github.com/nstehr/vimy/vimy-raid/model"

// Host → core message types. These must stay in sync with the host addon.
const (
	TypeHello       = "hello"
	TypeBattleStart = "battle_start"
	TypeBattleState = "battle_state"
	TypeBattleEnd   = "battle_end"
)

// Core → host message types.
const (
	TypeAck            = "ack"
	TypePlace          = "place"
	TypeActivate       = "activate_ability"
	TypeSurrender      = "surrender"
	TypeEngagementDone = "engagement_done"
)

type HelloMessage struct {
	Player   string `json:"player"`
	Strategy string `json:"strategy,omitempty"` // overrides the configured strategy
}

type AckMessage struct {
	Status       string `json:"status"`
	EngagementID string `json:"engagement_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// BattleStartMessage opens an engagement.
type BattleStartMessage = model.BattleStart

// BattleStateMessage is a live snapshot. A null loot is a failed loot read.
type BattleStateMessage = model.BattleState

type BattleEndMessage struct {
	Reason string `json:"reason,omitempty"`
}

type EngagementDoneMessage struct {
	EngagementID string       `json:"engagement_id"`
	Strategy     string       `json:"strategy"`
	Mode         string       `json:"mode"`
	Reason       string       `json:"reason,omitempty"`
	Waves        int          `json:"waves"`
	Faults       []string     `json:"faults,omitempty"`
	Loot         []model.Loot `json:"loot,omitempty"`
}
