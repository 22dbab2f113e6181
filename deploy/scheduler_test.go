package deploy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nstehr/vimy/vimy-raid/inventory"
	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
)

// fakeGame registers placements like the host would. Units listed in stuck
// never register; units in flaky register every other placement.
type fakeGame struct {
	counts map[string]int
	stuck  map[string]bool
	flaky  map[string]bool
	toggle int
}

func newFakeGame(pool inventory.Pool) *fakeGame {
	f := &fakeGame{counts: map[string]int{}, stuck: map[string]bool{}, flaky: map[string]bool{}}
	for _, u := range pool {
		f.counts[u.ID] = u.Count
	}
	return f
}

func (f *fakeGame) Recount(id string) int { return f.counts[id] }

func (f *fakeGame) apply(st model.Step) {
	if st.Kind != model.StepPlace || f.stuck[st.Unit] {
		return
	}
	if f.flaky[st.Unit] {
		f.toggle++
		if f.toggle%2 == 0 {
			return
		}
	}
	if f.counts[st.Unit] > 0 {
		f.counts[st.Unit]--
	}
}

func drive(f *fakeGame, steps func(func(model.Step) bool)) []model.Step {
	var out []model.Step
	for st := range steps {
		f.apply(st)
		out = append(out, st)
	}
	return out
}

func kinds(steps []model.Step) string {
	b := make([]byte, len(steps))
	for i, st := range steps {
		switch st.Kind {
		case model.StepPlace:
			b[i] = 'P'
		case model.StepWait:
			b[i] = 'W'
		default:
			b[i] = '?'
		}
	}
	return string(b)
}

func ring(n int) []model.Point {
	pts := make([]model.Point, n)
	for i := range pts {
		pts[i] = model.Pt(float64(i), 20)
	}
	return pts
}

func TestScenarioTankThenRanged(t *testing.T) {
	pool := inventory.FromSnapshot([]model.UnitGroup{
		{ID: "arch", Name: "Archer", Role: model.Damage, Ranged: true, Count: 6},
		{ID: "giant", Name: "Giant", Role: model.Tank, Count: 2},
	})
	game := newFakeGame(pool)
	s := NewScheduler(game, rng.New(1), Options{WaveSize: 4, WaveDelay: 2 * time.Second})

	steps := drive(game, s.DeployAll(pool, ring(20)))
	require.Equal(t, "PPWPPPPWPPW", kinds(steps))
	for _, st := range steps[:2] {
		require.Equal(t, "giant", st.Unit)
	}
	for _, i := range []int{3, 4, 5, 6, 8, 9} {
		require.Equal(t, "arch", steps[i].Unit)
	}
	require.Equal(t, 2*time.Second, steps[7].Wait)
	require.Zero(t, game.counts["giant"])
	require.Zero(t, game.counts["arch"])
	require.Zero(t, pool.Total())
	require.Empty(t, s.Faults())
}

func TestWavePauseBound(t *testing.T) {
	src := rng.New(77)
	for trial := range 50 {
		var groups []model.UnitGroup
		for i := range 1 + src.IntN(5) {
			groups = append(groups, model.UnitGroup{
				ID: string(rune('a' + i)), Role: model.Role(src.IntN(4)), Count: src.IntN(40),
			})
		}
		pool := inventory.FromSnapshot(groups)
		game := newFakeGame(pool)
		waveSize := 1 + src.IntN(8)
		s := NewScheduler(game, rng.New(uint64(trial+1)), Options{WaveSize: waveSize, Jitter: 12})

		run := 0
		for _, st := range drive(game, s.DeployAll(pool, ring(30))) {
			if st.Kind == model.StepPlace {
				run++
				require.LessOrEqual(t, run, waveSize)
			} else {
				run = 0
			}
		}
		require.Zero(t, pool.Total())
	}
}

func TestStuckUnitAbandoned(t *testing.T) {
	pool := inventory.FromSnapshot([]model.UnitGroup{{ID: "wb", Name: "Wall Breaker", Role: model.Wallbreak, Count: 3}})
	game := newFakeGame(pool)
	game.stuck["wb"] = true
	s := NewScheduler(game, rng.New(1), Options{WaveSize: 10})

	steps := drive(game, s.Deploy(pool[0], ring(4)))
	require.Equal(t, "PPPW", kinds(steps))
	require.Len(t, s.Faults(), 1)
	require.ErrorIs(t, s.Faults()[0], ErrStuckUnit)
	require.Equal(t, 3, pool[0].Count)
}

func TestPartialPlacementRetriesOnce(t *testing.T) {
	pool := inventory.FromSnapshot([]model.UnitGroup{{ID: "barb", Name: "Barbarian", Role: model.Damage, Count: 6}})
	game := newFakeGame(pool)
	game.flaky["barb"] = true
	s := NewScheduler(game, rng.New(1), Options{WaveSize: 100})

	steps := drive(game, s.Deploy(pool[0], ring(4)))
	require.Equal(t, "PPPPPPWPPPW", kinds(steps))
	require.Len(t, s.Faults(), 2)
	for _, err := range s.Faults() {
		require.ErrorIs(t, err, ErrPartialPlacement)
	}
	require.Equal(t, 1, pool[0].Count)
}

func TestLimitStopsAfterBatch(t *testing.T) {
	pool := inventory.FromSnapshot([]model.UnitGroup{{ID: "barb", Count: 30}})
	game := newFakeGame(pool)
	s := NewScheduler(game, rng.New(1), Options{WaveSize: 100})

	steps := drive(game, s.Run(Batch{Group: pool[0], Points: ring(3), Limit: 7, JitterX: 20, JitterY: 30}))
	require.Equal(t, "PPPPPPPW", kinds(steps))
	require.Equal(t, 20, steps[0].JitterX)
	require.Equal(t, 30, steps[0].JitterY)
	require.Equal(t, 23, pool[0].Count)
	require.Empty(t, s.Faults())
}

func TestSpreadUsesMostPlentifulFirst(t *testing.T) {
	pool := inventory.FromSnapshot([]model.UnitGroup{
		{ID: "gob", Count: 3}, {ID: "barb", Count: 4},
	})
	game := newFakeGame(pool)
	s := NewScheduler(game, rng.New(1), Options{WaveSize: 100})
	pts := ring(6)

	steps := drive(game, s.Spread(pool, pts, 6, 0, 0))
	var placed []model.Step
	for _, st := range steps {
		if st.Kind == model.StepPlace {
			placed = append(placed, st)
		}
	}
	require.Len(t, placed, 6)
	for i, st := range placed {
		require.Equal(t, pts[i], st.Point, "each point used once, in order")
	}
	require.Equal(t, "barb", placed[0].Unit)
	require.Equal(t, "gob", placed[5].Unit)
	require.Equal(t, 1, game.counts["gob"])
}

func TestTransformAndJitter(t *testing.T) {
	pool := inventory.FromSnapshot([]model.UnitGroup{{ID: "arch", Ranged: true, Count: 40}})
	game := newFakeGame(pool)
	s := NewScheduler(game, rng.New(4), Options{
		WaveSize: 100,
		Jitter:   12,
		Transform: func(u *model.UnitGroup, p model.Point) model.Point {
			if u.Ranged {
				return p.Add(model.Pt(0, 100))
			}
			return p
		},
	})
	for st := range s.Deploy(pool[0], []model.Point{model.Pt(0, 0)}) {
		game.apply(st)
		if st.Kind != model.StepPlace {
			continue
		}
		require.GreaterOrEqual(t, st.Point.X, -12.0)
		require.Less(t, st.Point.X, 12.0)
		require.GreaterOrEqual(t, st.Point.Y, 88.0)
		require.Less(t, st.Point.Y, 112.0)
	}
}

func TestConsumerCanStopEarly(t *testing.T) {
	pool := inventory.FromSnapshot([]model.UnitGroup{{ID: "barb", Count: 50}})
	game := newFakeGame(pool)
	s := NewScheduler(game, rng.New(1), Options{WaveSize: 5})
	n := 0
	for range s.Deploy(pool[0], ring(10)) {
		n++
		if n == 3 {
			break
		}
	}
	require.Equal(t, 3, n)
}

func TestGoldenCursorSequence(t *testing.T) {
	c := &GoldenCursor{}
	var got []int
	for range 11 {
		got = append(got, c.Next(10))
	}
	require.Equal(t, []int{0, 6, 2, 8, 4, 0, 7, 3, 9, 5, 0}, got)
}

func TestModuloCursorWraps(t *testing.T) {
	c := &ModuloCursor{}
	var got []int
	for range 7 {
		got = append(got, c.Next(3))
	}
	require.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, got)
	require.Zero(t, c.Next(0))
}
