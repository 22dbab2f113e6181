package agent

import (
	"testing"

	"github.com/nstehr/vimy/vimy-raid/model"
)

func TestBattlefieldSnapshots(t *testing.T) {
	bf := NewBattlefield(battleStart())

	if p, ok := bf.Primary(); !ok || p.ID != "th" {
		t.Fatalf("primary = %+v %v", p, ok)
	}
	if got := bf.Loot(true); got == nil || got.Gold != 50000 {
		t.Fatalf("loot = %+v", got)
	}

	state := bf.Snapshot()
	state.Inventory[0].Count = 4
	state.Loot = nil
	state.Features = []model.Feature{
		{ID: "th", Kind: model.TownHall, Destroyed: true},
	}
	state.Objective = model.Objective{Stars: 1, PrimaryDestroyed: true}
	bf.Update(state)

	if got := bf.Recount("barb"); got != 4 {
		t.Errorf("recount = %d", got)
	}
	if got := bf.Recount("nope"); got != 0 {
		t.Errorf("unknown recount = %d", got)
	}
	if bf.Loot(true) != nil {
		t.Error("null loot must read as nil")
	}
	if got := len(bf.Features(false)); got != 2 {
		t.Errorf("cached scan has %d features", got)
	}
	if got := bf.Features(true); len(got) != 1 || !got[0].Destroyed {
		t.Errorf("rescan = %+v", got)
	}
	if p, _ := bf.Primary(); !p.Destroyed {
		t.Error("primary should reflect the rescan")
	}
	if !bf.Objective().HaveAStar() {
		t.Error("objective not updated")
	}
	if got := bf.Inventory().Total(); got != 4+12+1 {
		t.Errorf("inventory total = %d", got)
	}
}

func TestBattlefieldKeepsFeaturesWhenOmitted(t *testing.T) {
	bf := NewBattlefield(battleStart())
	bf.Update(model.BattleState{Loot: &model.Loot{Gold: 1}})
	if got := len(bf.Features(true)); got != 2 {
		t.Errorf("features = %d", got)
	}
}

func TestBattlefieldSnapshotIsACopy(t *testing.T) {
	bf := NewBattlefield(battleStart())
	s := bf.Snapshot()
	s.Inventory[0].Count = 0
	s.Loot.Gold = 0
	if bf.Recount("barb") != 12 || bf.Loot(false).Gold != 50000 {
		t.Error("snapshot aliases live state")
	}
}
