package inventory

import (
	"strings"

	"github.com/nstehr/vimy/vimy-raid/model"
)

func ByRole(r model.Role) Predicate {
	return func(u *model.UnitGroup) bool { return u.Role == r }
}

func IsHero(u *model.UnitGroup) bool { return u.IsHero() }

func IsRanged(u *model.UnitGroup) bool { return u.Ranged }

func IsSpell(u *model.UnitGroup) bool { return u.Role == model.Spell }

func IsClanTroops(u *model.UnitGroup) bool { return u.Role == model.ClanTroops }

// IsNormal matches troops that are neither heroes, spells nor clan troops.
func IsNormal(u *model.UnitGroup) bool {
	return !u.IsHero() && u.Role != model.Spell && u.Role != model.ClanTroops
}

func HeroOf(k model.HeroKind) Predicate {
	return func(u *model.UnitGroup) bool { return u.Hero == k }
}

// Named matches any of the given unit names, case-insensitively.
func Named(names ...string) Predicate {
	return func(u *model.UnitGroup) bool {
		for _, n := range names {
			if strings.EqualFold(u.Name, n) {
				return true
			}
		}
		return false
	}
}

func And(ps ...Predicate) Predicate {
	return func(u *model.UnitGroup) bool {
		for _, p := range ps {
			if !p(u) {
				return false
			}
		}
		return true
	}
}

func Or(ps ...Predicate) Predicate {
	return func(u *model.UnitGroup) bool {
		for _, p := range ps {
			if p(u) {
				return true
			}
		}
		return false
	}
}

func Not(p Predicate) Predicate {
	return func(u *model.UnitGroup) bool { return !p(u) }
}

// Enabled mirrors the user's per-role switches: normal troops always, heroes
// and clan troops only when switched on.
type Enabled struct {
	King       bool
	Queen      bool
	Warden     bool
	ClanTroops bool
}

// Hero reports whether the given hero is switched on.
func (e Enabled) Hero(k model.HeroKind) bool {
	switch k {
	case model.King:
		return e.King
	case model.Queen:
		return e.Queen
	case model.Warden:
		return e.Warden
	}
	return false
}

// Allows is the predicate form of the switches.
func (e Enabled) Allows(u *model.UnitGroup) bool {
	switch {
	case u.IsHero():
		return e.Hero(u.Hero)
	case u.Role == model.ClanTroops:
		return e.ClanTroops
	}
	return true
}
