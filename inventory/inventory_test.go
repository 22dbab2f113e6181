package inventory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nstehr/vimy/vimy-raid/model"
)

func samplePool() Pool {
	return FromSnapshot([]model.UnitGroup{
		{ID: "barb", Name: "Barbarian", Role: model.Damage, Count: 40},
		{ID: "arch", Name: "Archer", Role: model.Damage, Ranged: true, Count: 60},
		{ID: "giant", Name: "Giant", Role: model.Tank, Count: 6},
		{ID: "bk", Name: "Barbarian King", Role: model.Hero, Hero: model.King, Count: 1},
		{ID: "wb", Name: "Wall Breaker", Role: model.Wallbreak, Count: 4},
		{ID: "cc", Name: "Clan Castle", Role: model.ClanTroops, Count: 1},
		{ID: "heal", Name: "Healer", Role: model.Heal, Count: 2},
		{ID: "aq", Name: "Archer Queen", Role: model.Hero, Hero: model.Queen, Ranged: true, Count: 1},
		{ID: "rage", Name: "Rage", Role: model.Spell, Count: 2},
	})
}

func TestPartitionConservesCount(t *testing.T) {
	preds := []Predicate{IsRanged, IsHero, ByRole(model.Tank), Named("nothing"), func(*model.UnitGroup) bool { return true }}
	for _, pred := range preds {
		pool := samplePool()
		total := pool.Total()
		m, r := Partition(pool, pred)
		require.Equal(t, total, m.Total()+r.Total())
		require.Len(t, append(m, r...), len(pool))
		// non-destructive
		require.Equal(t, total, pool.Total())
		require.Len(t, pool, 9)
	}
}

func TestPartitionKeepsOrder(t *testing.T) {
	m, r := Partition(samplePool(), IsRanged)
	require.Equal(t, []string{"arch", "aq"}, m.IDs())
	require.Equal(t, []string{"barb", "giant", "bk", "wb", "cc", "heal", "rage"}, r.IDs())
}

func TestPartitionIdempotent(t *testing.T) {
	pool := samplePool()
	m1, r1 := Partition(pool, IsNormal)
	m2, r2 := Partition(pool, IsNormal)
	require.Equal(t, m1.IDs(), m2.IDs())
	require.Equal(t, r1.IDs(), r2.IDs())
}

func TestExtractAll(t *testing.T) {
	pool := samplePool()
	heroes := pool.ExtractAll(IsHero)
	require.Equal(t, []string{"bk", "aq"}, heroes.IDs())
	require.Len(t, pool, 7)

	none := pool.ExtractAll(Named("Dragon"))
	require.Empty(t, none)
	require.Len(t, pool, 7)
}

func TestExtractOneLeavesOthers(t *testing.T) {
	pool := samplePool()
	dmg := pool.ExtractOne(ByRole(model.Damage))
	require.NotNil(t, dmg)
	require.Equal(t, "barb", dmg.ID)
	// the archers also matched and stay behind
	require.Contains(t, pool.IDs(), "arch")
	require.Len(t, pool, 8)

	require.Nil(t, pool.ExtractOne(Named("Golem")))
}

func TestOrderForDeploy(t *testing.T) {
	pool := samplePool()
	OrderForDeploy(pool)
	require.Equal(t, []string{"giant", "wb", "heal", "barb", "arch", "bk", "aq", "cc", "rage"}, pool.IDs())
}

func TestOrderForDeployStable(t *testing.T) {
	pool := FromSnapshot([]model.UnitGroup{
		{ID: "d1", Role: model.Damage}, {ID: "t1", Role: model.Tank},
		{ID: "d2", Role: model.Damage}, {ID: "t2", Role: model.Tank},
	})
	OrderForDeploy(pool)
	require.Equal(t, []string{"t1", "t2", "d1", "d2"}, pool.IDs())
}

func TestByCount(t *testing.T) {
	pool := FromSnapshot([]model.UnitGroup{
		{ID: "a", Count: 3}, {ID: "b", Count: 9}, {ID: "c", Count: 3},
	})
	require.Equal(t, []string{"b", "a", "c"}, pool.ByCount().IDs())
	require.Equal(t, []string{"a", "b", "c"}, pool.IDs())
}

func TestEnabled(t *testing.T) {
	pool := samplePool()
	en := Enabled{King: true}
	allowed, _ := Partition(pool, en.Allows)
	require.Contains(t, allowed.IDs(), "bk")
	require.NotContains(t, allowed.IDs(), "aq")
	require.NotContains(t, allowed.IDs(), "cc")
	require.Contains(t, allowed.IDs(), "barb")
}

func TestAvailable(t *testing.T) {
	pool := FromSnapshot([]model.UnitGroup{{ID: "a", Count: 0}, {ID: "b", Count: 2}})
	require.Equal(t, []string{"b"}, pool.Available().IDs())
	require.False(t, pool.Empty())
	pool[1].Count = 0
	require.True(t, pool.Empty())
}
