package model

// BattleState is the live snapshot the host streams while an attack is running.
type BattleState struct {
	Inventory []UnitGroup  `json:"inventory"`
	Features  []Feature    `json:"features,omitempty"`
	Loot      *Loot        `json:"loot"` // nil when the host could not read the loot counters
	Objective Objective    `json:"objective"`
	Heroes    []HeroStatus `json:"heroes,omitempty"`
}

// BattleStart describes the opponent's layout at the moment the attack begins.
type BattleStart struct {
	Boundary  []Point     `json:"boundary"`
	Features  []Feature   `json:"features"`
	PrimaryID string      `json:"primary_id"`
	Inventory []UnitGroup `json:"inventory"`
	Loot      *Loot       `json:"loot"`
	Objective Objective   `json:"objective"`
}

// Loot is the opponent's remaining available resources.
type Loot struct {
	Gold       int `json:"gold"`
	Elixir     int `json:"elixir"`
	DarkElixir int `json:"dark_elixir"`
}

// UnreadableLoot is substituted when the host's loot read fails.
var UnreadableLoot = Loot{Gold: -1, Elixir: -1, DarkElixir: -1}

// Valid reports whether the snapshot came from a successful read.
func (l Loot) Valid() bool {
	return l.Gold+l.Elixir+l.DarkElixir >= 0
}

// Objective carries the battle's star/destruction flags.
type Objective struct {
	Stars            int  `json:"stars"`
	PrimaryDestroyed bool `json:"primary_destroyed"`
}

func (o Objective) HaveAStar() bool { return o.Stars > 0 }

// HeroStatus reports a placed hero's ability state.
type HeroStatus struct {
	Unit         string `json:"unit"`
	Active       bool   `json:"active"`
	AbilityReady bool   `json:"ability_ready"`
}

// FeatureKind names the structure classes the geometry engine cares about.
type FeatureKind string

const (
	GoldMine        FeatureKind = "gold_mine"
	ElixirCollector FeatureKind = "elixir_collector"
	DarkDrill       FeatureKind = "dark_drill"
	TownHall        FeatureKind = "town_hall"
	Storage         FeatureKind = "storage"
	InfernoTower    FeatureKind = "inferno_tower"
)

// Feature is a map structure with a bounding rectangle in map space.
type Feature struct {
	ID        string      `json:"id"`
	Kind      FeatureKind `json:"kind"`
	Rect      Rect        `json:"rect"`
	Destroyed bool        `json:"destroyed"`
}

func (f Feature) IsCollector() bool {
	return f.Kind == GoldMine || f.Kind == ElixirCollector || f.Kind == DarkDrill
}
