// Package game owns the world state and advances it one tick at a time.
package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/grazers/components"
	"github.com/pthm-cable/grazers/config"
	"github.com/pthm-cable/grazers/rng"
	"github.com/pthm-cable/grazers/systems"
	"github.com/pthm-cable/grazers/telemetry"
)

// World is a toroidal grass field and the creatures living on it.
// It exclusively owns the creature list and the grass field; readers
// (renderers, telemetry) may inspect it only between calls to Update.
type World struct {
	cfg      *config.Config
	rng      rng.Sampler
	layout   components.Layout
	mutation components.Mutation

	width, height float64
	cols, rows    int

	grass     []uint32
	creatures []*components.Creature
	grid      *systems.Grid[int] // payload is the index into creatures
	nextID    uint64
	tick      int64

	// Per-tick scratch, indexed like creatures
	alive        []bool
	observations []*components.Observation
	actions      []components.Actions
	newborns     []*components.Creature

	pool  *workerPool
	perf  *telemetry.PerfCollector
	stats *telemetry.Collector
}

// NewWorld creates a world with grass at its maximum and
// world.initial_population random creatures, each founding its own lineage.
// Panics if cfg does not validate.
func NewWorld(cfg *config.Config, s rng.Sampler) *World {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("game: %v", err))
	}

	w := &World{
		cfg: cfg,
		rng: s,
		layout: components.Layout{
			Sites:       cfg.Vision.Sites,
			GrassRadius: cfg.Vision.GrassRadius,
			MaxDist:     cfg.Vision.MaxDist,
		},
		mutation: components.Mutation{
			BrainStd:    cfg.Mutation.BrainStd,
			VegEffStd:   cfg.Mutation.VegEffStd,
			StartEnergy: cfg.Creature.StartEnergy,
		},
		width:  cfg.Derived.WorldW,
		height: cfg.Derived.WorldH,
		cols:   cfg.World.Width,
		rows:   cfg.World.Height,
		grass:  make([]uint32, cfg.Derived.Cells),
		grid:   systems.NewGrid[int](cfg.Derived.WorldW, cfg.Derived.WorldH, cfg.Derived.GridStep),
		pool:   newWorkerPool(cfg.Parallel.Workers, cfg.Parallel.Threshold),
	}

	for i := range w.grass {
		w.grass[i] = cfg.Grass.Max
	}
	for i := 0; i < cfg.World.InitialPopulation; i++ {
		w.creatures = append(w.creatures, w.spawnRandom())
	}

	return w
}

// SetPerf attaches a phase timer. nil disables timing.
func (w *World) SetPerf(p *telemetry.PerfCollector) { w.perf = p }

// SetCollector attaches an event collector. nil disables event counting.
func (w *World) SetCollector(c *telemetry.Collector) { w.stats = c }

// Close stops the worker goroutines. The world must not be updated afterwards.
func (w *World) Close() {
	w.pool.stop()
}

// AddCreature appends a creature, e.g. a hand-built one in tests or tools.
// Must not be called while Update is running.
func (w *World) AddCreature(c *components.Creature) {
	if c.ID() >= w.nextID {
		w.nextID = c.ID() + 1
	}
	w.creatures = append(w.creatures, c)
}

// NewID issues the next creature id. Ids are strictly increasing and never reused.
func (w *World) NewID() uint64 {
	if w.nextID == math.MaxUint64 {
		panic("game: creature id space exhausted")
	}
	id := w.nextID
	w.nextID++
	return id
}

// Layout returns the observation layout that sizes every brain in this world.
func (w *World) Layout() components.Layout { return w.layout }

// Config returns the world configuration.
func (w *World) Config() *config.Config { return w.cfg }

// Width returns the world width in world units (and grass columns).
func (w *World) Width() float64 { return w.width }

// Height returns the world height in world units (and grass rows).
func (w *World) Height() float64 { return w.height }

// Tick returns the number of completed updates.
func (w *World) Tick() int64 { return w.tick }

// Grass returns the grass field, row-major. Callers must not modify it.
func (w *World) Grass() []uint32 { return w.grass }

// GrassMax returns the saturation value of a grass cell.
func (w *World) GrassMax() uint32 { return w.cfg.Grass.Max }

// GrassLoc returns the cell coordinates of flat grass index i.
func (w *World) GrassLoc(i int) (x, y int) {
	return i % w.cols, i / w.cols
}

// GrassAt returns the grass value of the cell under world position (x, y).
func (w *World) GrassAt(x, y float64) uint32 {
	return w.grass[w.cellIndex(x, y)]
}

// Creatures returns the live creatures. Callers must not modify the slice
// or the creatures, and must not hold it across Update.
func (w *World) Creatures() []*components.Creature { return w.creatures }

// NumCreatures returns the live creature count.
func (w *World) NumCreatures() int { return len(w.creatures) }

// NumFamilies returns the number of distinct lineages alive.
func (w *World) NumFamilies() int {
	fams := make(map[uint64]struct{}, len(w.creatures))
	for _, c := range w.creatures {
		fams[c.Fam()] = struct{}{}
	}
	return len(fams)
}

// TotalGrass returns the sum over all grass cells.
func (w *World) TotalGrass() uint64 {
	var total uint64
	for _, g := range w.grass {
		total += uint64(g)
	}
	return total
}

// Population summarizes the world for telemetry.
func (w *World) Population() telemetry.Population {
	p := telemetry.Population{
		Creatures:  len(w.creatures),
		Families:   w.NumFamilies(),
		Energies:   make([]float64, len(w.creatures)),
		VegEffs:    make([]float64, len(w.creatures)),
		Ages:       make([]float64, len(w.creatures)),
		TotalGrass: w.TotalGrass(),
		MaxGrass:   w.cfg.Derived.MaxGrassTotal,
	}
	for i, c := range w.creatures {
		p.Energies[i] = float64(c.Energy())
		p.VegEffs[i] = c.VegEff()
		p.Ages[i] = float64(c.Age())
	}
	return p
}

// cellIndex returns the flat grass index of the cell under (x, y).
func (w *World) cellIndex(x, y float64) int {
	cx := systems.WrapIndex(int(math.Floor(x)), w.cols)
	cy := systems.WrapIndex(int(math.Floor(y)), w.rows)
	return cy*w.cols + cx
}
