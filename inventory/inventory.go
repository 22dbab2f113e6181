// Package inventory classifies a live unit pool into role-tagged groups.
package inventory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nstehr/vimy/vimy-raid/model"
)

// Pool is an ordered unit pool. Groups are shared by pointer so a recount
// on one view is visible through every other view of the same snapshot.
type Pool []*model.UnitGroup

// Predicate selects unit groups.
type Predicate func(u *model.UnitGroup) bool

// Partition splits pool without modifying it. Both halves keep the pool's order.
func Partition(pool Pool, pred Predicate) (matching, remaining Pool) {
	for _, u := range pool {
		if u == nil {
			continue
		}
		if pred(u) {
			matching = append(matching, u)
		} else {
			remaining = append(remaining, u)
		}
	}
	return matching, remaining
}

// ExtractAll removes every match from the pool and returns them.
func (p *Pool) ExtractAll(pred Predicate) Pool {
	matching, remaining := Partition(*p, pred)
	*p = remaining
	return matching
}

// ExtractOne removes the first match from the pool. Later matches stay in
// the pool. It returns nil when nothing matches.
func (p *Pool) ExtractOne(pred Predicate) *model.UnitGroup {
	for i, u := range *p {
		if u != nil && pred(u) {
			*p = slices.Delete(slices.Clone(*p), i, i+1)
			return u
		}
	}
	return nil
}

// Total is the summed count of the pool.
func (p Pool) Total() int {
	n := 0
	for _, u := range p {
		if u != nil {
			n += u.Count
		}
	}
	return n
}

// Available drops groups whose count is exhausted.
func (p Pool) Available() Pool {
	m, _ := Partition(p, func(u *model.UnitGroup) bool { return u.Count > 0 })
	return m
}

// Empty reports whether no unit remains.
func (p Pool) Empty() bool { return p.Total() <= 0 }

// ByCount orders a copy of the pool by descending count, keeping pool order
// for ties, so the most plentiful type is used first.
func (p Pool) ByCount() Pool {
	out := slices.Clone(p)
	slices.SortStableFunc(out, func(a, b *model.UnitGroup) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

// IDs returns the group IDs in order.
func (p Pool) IDs() []string {
	ids := make([]string, 0, len(p))
	for _, u := range p {
		ids = append(ids, u.ID)
	}
	return ids
}

func (p Pool) String() string {
	parts := make([]string, 0, len(p))
	for _, u := range p {
		parts = append(parts, u.String())
	}
	return strings.Join(parts, ", ")
}

// FromSnapshot builds a pool of fresh groups from a host inventory snapshot.
func FromSnapshot(groups []model.UnitGroup) Pool {
	pool := make(Pool, 0, len(groups))
	for i := range groups {
		g := groups[i]
		pool = append(pool, &g)
	}
	return pool
}

// deployPriority is the scheduling order: tanks absorb the defensive lock-on
// before the damage dealers arrive.
var deployPriority = map[model.Role]int{
	model.Tank:       0,
	model.Wallbreak:  1,
	model.Heal:       2,
	model.Damage:     3,
	model.Hero:       4,
	model.ClanTroops: 5,
	model.Spell:      6,
}

// OrderForDeploy stable-sorts groups in place by deploy priority.
func OrderForDeploy(groups Pool) {
	slices.SortStableFunc(groups, func(a, b *model.UnitGroup) int {
		return cmp.Compare(priority(a), priority(b))
	})
}

func priority(u *model.UnitGroup) int {
	if u.IsHero() {
		return deployPriority[model.Hero]
	}
	if p, ok := deployPriority[u.Role]; ok {
		return p
	}
	return len(deployPriority)
}
