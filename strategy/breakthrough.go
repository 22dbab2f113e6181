package strategy

import (
	"log/slog"
	"math"
	"time"

	"github.com/nstehr/vimy/vimy-raid/analysis"
	"github.com/nstehr/vimy/vimy-raid/deploy"
	"github.com/nstehr/vimy/vimy-raid/geometry"
	"github.com/nstehr/vimy/vimy-raid/inventory"
	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
	"github.com/nstehr/vimy/vimy-raid/rules"
)

const (
	tankOffset     = 6  // tiles either side of the origin
	healDepth      = 12 // heal spell, tiles inside the origin
	rageDepth      = 9  // rage spell, tiles inside the origin
	healerStandoff = 2  // healers stay this far outside the boundary
	queenRageShift = 5
	funnelPoints   = 4 // points along the attack line
	wallbreakBurst = 3
	queenWalkHeals = 4 // healers needed for a queen walk
	queenWalkDelay = 15 * time.Second
)

var (
	funnelTroops = inventory.Named("Barbarian", "Archer", "Minion")
	lineTroops   = inventory.Named("Wizard", "Balloon", "Dragon", "Baby Dragon", "Miner")
	pointTroops  = inventory.Named("Valkyrie", "P.E.K.K.A", "Pekka", "Witch", "Goblin")
	bowlerTroops = inventory.Named("Bowler")
	hogTroops    = inventory.Named("Hog Rider", "Hog")

	healSpell   = inventory.Named("Heal Spell", "Heal")
	rageSpell   = inventory.Named("Rage Spell", "Rage")
	freezeSpell = inventory.Named("Freeze Spell", "Freeze")
)

// breakthrough attacks from the single side nearest the target. Tanks flank
// the origin, wall breakers open it, cheap troops funnel in along the attack
// line, then the heavy hitters, spells, clan troops and heroes follow
// through. With four healers and the queen available it opens with a queen
// walk from the side's corner.
type breakthrough struct{ base }

func (breakthrough) Name() string { return Breakthrough }

// funnel is the geometry of a one-side attack.
type funnel struct {
	side      string
	origin    model.Point
	line      model.Line
	tanks     []model.Point
	healers   model.Point
	walk      model.Point // queen walk start
	queenRage model.Point
	rage      model.Point
	heal      model.Point
}

// side is one of the four attack sides of the boundary box.
type side struct {
	name   string
	out    model.Point // outward axis
	anchor func(b geometry.Bounds) model.Point
	line   func(b geometry.Bounds) model.Line
	walk   func(b geometry.Bounds) model.Point
}

var attackSides = []side{
	{"top right", model.Pt(1, 0),
		func(b geometry.Bounds) model.Point { return model.Pt(b.MaxX, 0) },
		func(b geometry.Bounds) model.Line { return model.Line{A: b.Top(), B: b.Right()} },
		geometry.Bounds.Right},
	{"bottom left", model.Pt(-1, 0),
		func(b geometry.Bounds) model.Point { return model.Pt(b.MinX, 0) },
		func(b geometry.Bounds) model.Line { return model.Line{A: b.Bottom(), B: b.Left()} },
		geometry.Bounds.Left},
	{"top left", model.Pt(0, 1),
		func(b geometry.Bounds) model.Point { return model.Pt(0, b.MaxY) },
		func(b geometry.Bounds) model.Line { return model.Line{A: b.Left(), B: b.Top()} },
		geometry.Bounds.Left},
	{"bottom right", model.Pt(0, -1),
		func(b geometry.Bounds) model.Point { return model.Pt(0, b.MinY) },
		func(b geometry.Bounds) model.Line { return model.Line{A: b.Right(), B: b.Bottom()} },
		geometry.Bounds.Right},
}

// planFunnel picks the side whose midpoint is nearest target and lays out
// the attack from the boundary point nearest that midpoint.
func planFunnel(boundary []model.Point, target model.Point, queenWalk bool) (funnel, error) {
	b, ok := geometry.BoundsOf(boundary)
	if !ok {
		return funnel{}, geometry.ErrNoDeployPoints
	}
	anchors := make([]model.Point, len(attackSides))
	for i, sd := range attackSides {
		anchors[i] = sd.anchor(b)
	}
	sd := attackSides[geometry.Nearest(anchors, target)]
	origin := boundary[geometry.Nearest(boundary, sd.anchor(b))]

	in := sd.out.Scale(-1)
	across := model.Pt(math.Abs(sd.out.Y), math.Abs(sd.out.X))
	f := funnel{
		side:    sd.name,
		origin:  origin,
		line:    sd.line(b),
		tanks:   []model.Point{origin.Add(across.Scale(tankOffset)), origin.Add(across.Scale(-tankOffset))},
		healers: origin.Add(sd.out.Scale(healerStandoff)),
		rage:    origin.Add(in.Scale(rageDepth)),
		heal:    origin.Add(in.Scale(healDepth)),
	}
	if queenWalk {
		f.walk = sd.walk(b)
		centre := model.Pt((b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2)
		toCentre := model.Pt(sign(centre.X-f.walk.X), sign(centre.Y-f.walk.Y))
		f.queenRage = f.walk.Add(toCentre.Scale(queenRageShift))
		f.healers = f.walk.Add(toCentre.Scale(-healerStandoff))
	}
	return f, nil
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// breakthroughTarget is the first live storage, else the primary structure,
// else the map centre.
func breakthroughTarget(bf Battlefield) model.Point {
	for _, f := range bf.Features(false) {
		if f.Kind == model.Storage && !f.Destroyed {
			return f.Rect.Center()
		}
	}
	if p, ok := bf.Primary(); ok {
		return p.Rect.Center()
	}
	return model.Point{}
}

// breakthroughArmy is one snapshot's units sorted into deploy roles.
type breakthroughArmy struct {
	spells, heroes             inventory.Pool
	tanks, funnel, line, point inventory.Pool
	clan, wallbreak, healers   *model.UnitGroup
	bowlers, hogs              *model.UnitGroup
	queen                      *model.UnitGroup
	heal, rage, freeze         *model.UnitGroup
}

func (b breakthrough) sort(bf Battlefield) breakthroughArmy {
	pool := bf.Inventory().Available()
	var a breakthroughArmy
	a.spells = pool.ExtractAll(inventory.IsSpell)
	a.heroes = pool.ExtractAll(inventory.IsHero)
	a.heroes, _ = inventory.Partition(a.heroes, b.cfg.Enabled().Allows)
	a.clan = pool.ExtractOne(inventory.IsClanTroops)
	if !b.cfg.UseClanTroops {
		a.clan = nil
	}
	a.tanks = pool.ExtractAll(inventory.ByRole(model.Tank))
	a.wallbreak = pool.ExtractOne(inventory.ByRole(model.Wallbreak))
	a.healers = pool.ExtractOne(inventory.ByRole(model.Heal))
	a.funnel = pool.ExtractAll(funnelTroops)
	a.line = pool.ExtractAll(lineTroops)
	a.point = pool.ExtractAll(pointTroops)
	a.bowlers = pool.ExtractOne(bowlerTroops)
	a.hogs = pool.ExtractOne(hogTroops)
	// anything unnamed goes in at the origin with the heavy hitters
	a.point = append(a.point, pool...)

	a.heal = a.spells.ExtractOne(healSpell)
	a.rage = a.spells.ExtractOne(rageSpell)
	a.freeze = a.spells.ExtractOne(freezeSpell)

	if a.healers != nil && a.healers.Count >= queenWalkHeals {
		a.queen = a.heroes.ExtractOne(inventory.HeroOf(model.Queen))
	}
	return a
}

func (b breakthrough) Compute(bf Battlefield, src rng.Source) *Engagement {
	boundary := bf.Boundary()
	army := b.sort(bf)
	target := breakthroughTarget(bf)
	plan, planErr := planFunnel(boundary, target, army.queen != nil)

	st := rules.NewState(rules.Sweeping, bf.Loot(true), bf.Objective())
	sched := b.scheduler(bf, src, 0, &deploy.ModuloCursor{}, nil)
	return b.engagement(b.Name(), bf, st, sched, func(s *stream) {
		if planErr != nil {
			s.st.Surrender(planErr)
			return
		}
		slog.Info("attacking from one side", "side", plan.side, "x", plan.origin.X, "y", plan.origin.Y,
			"target", target, "queenWalk", army.queen != nil)
		if b.cfg.DebugImageDir != "" {
			b.render(boundary, bf.Features(false), plan)
		}
		b.run(s, bf, src, sched, army, plan)
	})
}

// dropAt places up to limit units of g at the given points, the whole group
// when limit is 0.
func dropAt(s *stream, sched *deploy.Scheduler, g *model.UnitGroup, limit int, pts ...model.Point) bool {
	if g == nil || g.Count <= 0 {
		return true
	}
	slog.Info("deploying", "unit", g.Name, "count", g.Count, "limit", limit)
	return s.all(sched.Run(deploy.Batch{Group: g, Points: pts, Limit: limit, Cursor: &deploy.ModuloCursor{}}))
}

// repeatDrop keeps placing groups at pts until they are empty or a pass
// places nothing.
func repeatDrop(s *stream, sched *deploy.Scheduler, groups inventory.Pool, limit int, pts ...model.Point) bool {
	return untilEmpty(groups, func(g *model.UnitGroup) bool {
		return dropAt(s, sched, g, limit, pts...)
	})
}

func (b breakthrough) run(s *stream, bf Battlefield, src rng.Source, sched *deploy.Scheduler, a breakthroughArmy, f funnel) {
	if a.queen != nil {
		slog.Info("queen walk available", "x", f.walk.X, "y", f.walk.Y)
		if !dropAt(s, sched, a.queen, 0, f.walk) ||
			!dropAt(s, sched, a.healers, queenWalkHeals, f.healers) ||
			!s.one(model.WatchHeroes(a.queen.ID)) {
			return
		}
		if a.rage != nil && a.rage.Count > 1 && !dropAt(s, sched, a.rage, 1, f.queenRage) {
			return
		}
		if !s.one(model.Wait(queenWalkDelay)) {
			return
		}
	}

	// two of each tank type flank the origin first
	for _, g := range a.tanks {
		if g.Count > 1 && !dropAt(s, sched, g, len(f.tanks), f.tanks...) {
			return
		}
	}
	if a.wallbreak != nil && !repeatDrop(s, sched, inventory.Pool{a.wallbreak}, wallbreakBurst, f.origin) {
		return
	}

	line := geometry.AlongLine(f.line, funnelPoints)
	if !repeatDrop(s, sched, a.funnel, b.cfg.WaveSize, line...) ||
		!repeatDrop(s, sched, a.tanks, 0, f.origin) ||
		!repeatDrop(s, sched, a.line, 0, line...) ||
		!dropAt(s, sched, a.rage, 1, f.rage) ||
		!dropAt(s, sched, a.heal, 1, f.heal) ||
		!repeatDrop(s, sched, a.point, 0, f.origin) ||
		!dropAt(s, sched, a.bowlers, 0, f.origin) ||
		!dropAt(s, sched, a.clan, 0, f.origin) {
		return
	}
	if !placeHeroes(s, sched, src, a.heroes, f.origin, [2]int{}) {
		return
	}
	if !dropAt(s, sched, a.healers, 0, f.healers) || !dropAt(s, sched, a.hogs, 0, f.tanks...) {
		return
	}
	b.freezeInfernos(s, bf, sched, a.freeze)
}

// freezeInfernos drops one freeze on each live inferno tower while spells
// last.
func (breakthrough) freezeInfernos(s *stream, bf Battlefield, sched *deploy.Scheduler, freeze *model.UnitGroup) {
	if freeze == nil || freeze.Count <= 0 {
		return
	}
	for _, ft := range bf.Features(true) {
		if ft.Kind != model.InfernoTower || ft.Destroyed {
			continue
		}
		if freeze.Count <= 0 || !dropAt(s, sched, freeze, 1, ft.Rect.Center()) {
			return
		}
	}
}

// render saves the plan: tank points and origin, the attack line, and the
// spell drops.
func (b breakthrough) render(boundary []model.Point, features []model.Feature, f funnel) {
	frame, err := analysis.Plan(boundary, features, append([]model.Point{f.origin}, f.tanks...))
	if err != nil {
		slog.Warn("analysis frame unavailable", "error", err)
		return
	}
	defer frame.Release()
	frame.Line(f.line.A, f.line.B, analysis.Red)
	frame.Points([]model.Point{f.rage, f.heal}, 6, analysis.DarkOrange)
	frame.Points([]model.Point{f.healers}, 4, analysis.White)
	frame.Label(b.Name() + " " + f.side)
	if path, err := frame.Save(b.cfg.DebugImageDir, "BreakthroughDeploy"); err != nil {
		slog.Warn("failed to save analysis image", "error", err)
	} else {
		slog.Info("analysis image saved", "path", path)
	}
}
