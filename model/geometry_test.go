package model

import (
	"math"
	"testing"
)

func TestPointNormalize(t *testing.T) {
	tests := []struct {
		p    Point
		want Point
	}{
		{Pt(3, 4), Pt(0.6, 0.8)},
		{Pt(-10, 0), Pt(-1, 0)},
		{Pt(0, 0), Pt(0, 0)}, // origin stays put
	}
	for _, tc := range tests {
		got := tc.p.Normalize()
		if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 {
			t.Errorf("Normalize(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestPointLerp(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, -20)
	if got := a.Lerp(b, 0.5); got != Pt(5, -10) {
		t.Errorf("Lerp(0.5) = %v, want (5,-10)", got)
	}
	if got := a.Lerp(b, 1.05); math.Abs(got.X-10.5) > 1e-9 {
		t.Errorf("Lerp(1.05).X = %v, want 10.5", got.X)
	}
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 2, Y: -4, W: 4, H: 2}
	if got := r.Center(); got != Pt(4, -3) {
		t.Errorf("Center() = %v, want (4,-3)", got)
	}
}

func TestLootValid(t *testing.T) {
	if UnreadableLoot.Valid() {
		t.Error("UnreadableLoot should not be valid")
	}
	if !(Loot{Gold: 0, Elixir: 0}).Valid() {
		t.Error("zero loot is a successful read")
	}
}

func TestRoleTextRoundTrip(t *testing.T) {
	for r := Tank; r <= ClanTroops; r++ {
		b, _ := r.MarshalText()
		var got Role
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if got != r {
			t.Errorf("round trip %v -> %v", r, got)
		}
	}
	var r Role
	if err := r.UnmarshalText([]byte("catapult")); err == nil {
		t.Error("expected error for unknown role")
	}
}
