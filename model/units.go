package model

import "fmt"

// Role tags a unit group by what it does in an attack.
type Role int

const (
	Tank Role = iota
	Damage
	Heal
	Wallbreak
	Spell
	Hero
	ClanTroops
)

var roleNames = [...]string{"tank", "damage", "heal", "wallbreak", "spell", "hero", "clan_troops"}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Role) UnmarshalText(b []byte) error {
	for i, n := range roleNames {
		if n == string(b) {
			*r = Role(i)
			return nil
		}
	}
	return fmt.Errorf("unknown role %q", b)
}

// HeroKind distinguishes the heroes that have their own enable flags.
type HeroKind string

const (
	NoHero HeroKind = ""
	King   HeroKind = "king"
	Queen  HeroKind = "queen"
	Warden HeroKind = "warden"
)

// UnitGroup is one deployable unit type and its live count. Count is
// authoritative only as of the last snapshot or recount.
type UnitGroup struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Role   Role     `json:"role"`
	Ranged bool     `json:"ranged"`
	Range  float64  `json:"range,omitempty"` // attack range in tiles
	Hero   HeroKind `json:"hero,omitempty"`
	Count  int      `json:"count"`
}

func (u *UnitGroup) IsHero() bool { return u.Role == Hero || u.Hero != NoHero }

func (u *UnitGroup) String() string {
	return fmt.Sprintf("%s x%d", u.Name, u.Count)
}
