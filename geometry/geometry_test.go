package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
)

func circle(n int, r float64) []model.Point {
	out := make([]model.Point, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = model.Pt(r*math.Cos(a), r*math.Sin(a))
	}
	return out
}

func TestSampleEveryCircle(t *testing.T) {
	pts := OrderClockwise(circle(8, 20), nil)
	idx := SampleIndices(len(pts), SampleStep(len(pts), 4))
	require.Equal(t, []int{0, 2, 4, 6}, idx)
	require.Len(t, SampleEvery(pts, SampleStep(len(pts), 4)), 4)
}

func TestSampleIndicesLengthAndRange(t *testing.T) {
	for l := 1; l <= 60; l++ {
		for u := 1; u <= 90; u++ {
			step := SampleStep(l, u)
			idx := SampleIndices(l, step)
			want := int(math.Ceil(float64(l)/step - 1e-9))
			require.Len(t, idx, want, "L=%d U=%d", l, u)
			for _, i := range idx {
				require.GreaterOrEqual(t, i, 0)
				require.Less(t, i, l)
			}
		}
	}
}

func TestSampleIndicesDegenerate(t *testing.T) {
	require.Nil(t, SampleIndices(0, 1))
	require.Nil(t, SampleIndices(5, 0))
	require.Equal(t, 0.0, SampleStep(10, 0))
}

func TestOrderClockwiseMonotone(t *testing.T) {
	s := rng.New(3)
	var pts []model.Point
	for range 200 {
		pts = append(pts, model.Pt(float64(s.IntN(60)-30), float64(s.IntN(60)-30)))
	}
	ordered := OrderClockwise(pts, nil)
	require.Len(t, ordered, len(pts))
	for i := 1; i < len(ordered); i++ {
		a := math.Atan2(ordered[i-1].Y, ordered[i-1].X)
		b := math.Atan2(ordered[i].Y, ordered[i].X)
		require.LessOrEqual(t, a, b)
	}
}

func TestOrderClockwiseTiesKeepInputOrder(t *testing.T) {
	// Same angle, different radius: input order must win.
	pts := []model.Point{model.Pt(4, 4), model.Pt(1, 1), model.Pt(2, 2)}
	require.Equal(t, pts, OrderClockwise(pts, nil))
	require.Equal(t, OrderClockwise(pts, nil), OrderClockwise(pts, nil))
}

func TestExcludeCorners(t *testing.T) {
	pts := []model.Point{model.Pt(20, 20), model.Pt(20, 0), model.Pt(-19, -19), model.Pt(0, -25), model.Pt(-20, 18)}
	got := OrderClockwise(pts, ExcludeCorners(18))
	require.Len(t, got, 3)
	require.NotContains(t, got, model.Pt(20, 20))
	require.NotContains(t, got, model.Pt(-19, -19))
}

func TestOrderHalves(t *testing.T) {
	pts := []model.Point{model.Pt(5, 3), model.Pt(-5, 1), model.Pt(5, -3), model.Pt(-5, -1)}
	require.Equal(t, []model.Point{
		model.Pt(5, -3), model.Pt(5, 3), model.Pt(-5, 1), model.Pt(-5, -1),
	}, OrderHalves(pts))
}

func TestInflate(t *testing.T) {
	got := Inflate([]model.Point{model.Pt(3, 4), model.Pt(0, 0)}, 5)
	require.InDelta(t, 6.0, got[0].X, 1e-9)
	require.InDelta(t, 8.0, got[0].Y, 1e-9)
	require.Equal(t, model.Pt(0, 0), got[1])
}

func TestAlongLine(t *testing.T) {
	l := model.Line{A: model.Pt(0, 0), B: model.Pt(9, 0)}
	require.Equal(t, []model.Point{model.Pt(0, 0), model.Pt(3, 0), model.Pt(6, 0), model.Pt(9, 0)}, AlongLine(l, 4))
	require.Equal(t, []model.Point{model.Pt(4.5, 0)}, AlongLine(l, 1))
	require.Nil(t, AlongLine(l, 0))
}

func TestEdgeLines(t *testing.T) {
	lines, err := EdgeLines(circle(16, 20))
	require.NoError(t, err)
	require.Len(t, lines, 4)
	require.InDelta(t, -20, lines[0].A.X, 1e-9)
	require.InDelta(t, 20, lines[0].B.Y, 1e-9)

	_, err = EdgeLines(nil)
	require.ErrorIs(t, err, ErrNoDeployPoints)
}

func TestRandomPointsInArea(t *testing.T) {
	c := model.Pt(10, -4)
	pts := RandomPointsInArea(rng.New(11), c, 1.4, 50)
	require.Len(t, pts, 50)
	for _, p := range pts {
		require.LessOrEqual(t, p.Distance(c), 1.4+1e-9)
	}
	require.Equal(t, pts, RandomPointsInArea(rng.New(11), c, 1.4, 50))
}

func TestPullBack(t *testing.T) {
	border := []model.Point{model.Pt(100, 0), model.Pt(0, 100)}
	p := model.Pt(40, 0)
	got := PullBack(rng.New(5), p, border, 2, DefaultPullBack)
	// moves outward along +x by about 32 * [0.85, 1.05)
	require.Greater(t, got.X, 40+32*0.85-1e-9)
	require.Less(t, got.X, 40+32*1.05)
	require.InDelta(t, 0, got.Y, 1e-9)

	near := model.Pt(95, 0)
	require.Equal(t, near, PullBack(rng.New(5), near, border, 2, DefaultPullBack))
}

func feature(id string, x, y float64) model.Feature {
	return model.Feature{ID: id, Kind: model.GoldMine, Rect: model.Rect{X: x - 1, Y: y - 1, W: 2, H: 2}}
}

func TestTargetFor(t *testing.T) {
	boundary := circle(64, 20)
	tg, ok := TargetFor(feature("m", 15, 0), boundary, DefaultTargetOptions)
	require.True(t, ok)
	require.InDelta(t, 5, tg.Distance, 1e-6)
	require.InDelta(t, 20.5, tg.Melee.X, 1e-6)
	require.InDelta(t, 23, tg.Ranged.X, 1e-6)
	require.Greater(t, tg.Ranged.Length(), tg.Melee.Length())

	_, ok = TargetFor(feature("m", 0, 0), nil, DefaultTargetOptions)
	require.False(t, ok)
}

func TestGenerateTargetsSkipsDestroyedAndHidden(t *testing.T) {
	boundary := circle(64, 20)
	dead := feature("dead", 15, 0)
	dead.Destroyed = true
	features := []model.Feature{feature("a", 15, 0), dead, feature("deep", 0, 0), feature("b", 0, 16)}
	opts := DefaultTargetOptions
	opts.MaxDistance = 8
	ts := GenerateTargets(features, boundary, nil, opts)
	require.Len(t, ts, 2)
	require.Equal(t, "a", ts[0].Feature.ID)
	require.Equal(t, "b", ts[1].Feature.ID)

	none := GenerateTargets(features, boundary, func(f model.Feature) bool { return f.Kind == model.TownHall }, opts)
	require.Empty(t, none)
}

func TestBuildClusters(t *testing.T) {
	boundary := circle(128, 20)
	features := []model.Feature{
		feature("e1", 16, 0), feature("n1", 0, 16), feature("e2", 16, 2),
		feature("n2", 2, 16), feature("e3", 16, -2), feature("w1", -16, 0),
	}
	opts := DefaultTargetOptions
	ts := GenerateTargets(features, boundary, nil, opts)
	require.Len(t, ts, 6)

	clusters := BuildClusters(ts, 5)
	require.Len(t, clusters, 3)
	require.Equal(t, 6, TargetCount(clusters))
	// starts from the cluster holding the first target
	require.Equal(t, "e1", clusters[0].Targets[0].Feature.ID)
	require.Equal(t, 3, clusters[0].Size())

	largest, second := Largest(clusters)
	require.Equal(t, 0, largest)
	require.Equal(t, 2, clusters[second].Size())

	// deterministic
	require.Equal(t, clusters, BuildClusters(ts, 5))
	require.Len(t, Flatten(clusters), 6)
}

func TestBuildClustersEmpty(t *testing.T) {
	require.Empty(t, BuildClusters(nil, 5))
	l, s := Largest(nil)
	require.Equal(t, -1, l)
	require.Equal(t, -1, s)
}

func TestLargestTiesPreferEarlier(t *testing.T) {
	mk := func(n int) Cluster { return Cluster{Targets: make([]Target, n)} }
	l, s := Largest([]Cluster{mk(2), mk(3), mk(3), mk(1)})
	require.Equal(t, 1, l)
	require.Equal(t, 2, s)
}

func TestOrderNearestNeighbor(t *testing.T) {
	pts := []model.Point{model.Pt(0, 0), model.Pt(10, 0), model.Pt(1, 0), model.Pt(5, 0)}
	require.Equal(t, []int{0, 2, 3, 1}, OrderNearestNeighbor(pts, 0))
	require.Equal(t, []int{1, 3, 2, 0}, OrderNearestNeighbor(pts, 1))
	require.Nil(t, OrderNearestNeighbor(nil, 0))
}
