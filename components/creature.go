package components

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/pthm-cable/grazers/neural"
	"github.com/pthm-cable/grazers/rng"
	"github.com/pthm-cable/grazers/systems"
)

// vegEffEpsilon keeps veg_eff strictly inside (0, 1) when the logistic
// function rounds to an endpoint in float64.
const vegEffEpsilon = 1e-9

// Creature is one autonomous agent. It owns its brain exclusively.
type Creature struct {
	id     uint64
	fam    uint64
	x, y   float64
	theta  float64
	color  float64
	energy int
	age    int
	vegEff float64
	brain  *neural.Brain

	lastObs *Observation
}

// Mutation holds the parameters applied when a creature reproduces.
type Mutation struct {
	BrainStd    float64
	VegEffStd   float64
	StartEnergy int
}

// NewCreature creates a creature. theta is normalized into [0, 2pi).
func NewCreature(id, fam uint64, x, y, theta, vegEff float64, energy int, brain *neural.Brain) *Creature {
	c := &Creature{
		id:     id,
		fam:    fam,
		x:      x,
		y:      y,
		color:  ColorOf(fam),
		energy: max(energy, 0),
		vegEff: clampVegEff(vegEff),
		brain:  brain,
	}
	c.SetTheta(theta)
	return c
}

// ColorOf maps a lineage id to a stable colour value in [0, 1).
func ColorOf(fam uint64) float64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], fam)
	h := xxhash.Sum64(buf[:])
	return float64(h>>11) / (1 << 53)
}

// ID returns the unique creature id.
func (c *Creature) ID() uint64 { return c.id }

// Fam returns the lineage id inherited through reproduction.
func (c *Creature) Fam() uint64 { return c.fam }

// Pos returns the position on the torus.
func (c *Creature) Pos() (x, y float64) { return c.x, c.y }

// Theta returns the heading in [0, 2pi).
func (c *Creature) Theta() float64 { return c.theta }

// Color returns the lineage colour.
func (c *Creature) Color() float64 { return c.color }

// Energy returns the current energy.
func (c *Creature) Energy() int { return c.energy }

// Age returns the number of ticks survived.
func (c *Creature) Age() int { return c.age }

// VegEff returns the vegetarian efficiency in (0, 1).
func (c *Creature) VegEff() float64 { return c.vegEff }

// Brain returns the creature's own network.
func (c *Creature) Brain() *neural.Brain { return c.brain }

// LastObservation returns the observation behind the last action choice, or nil.
func (c *Creature) LastObservation() *Observation { return c.lastObs }

// SetPos moves the creature. The caller wraps coordinates into the world.
func (c *Creature) SetPos(x, y float64) {
	c.x, c.y = x, y
}

// SetTheta sets the heading, normalized into [0, 2pi).
func (c *Creature) SetTheta(theta float64) {
	c.theta = systems.NormalizeAngle(theta)
}

// Turn rotates the heading by delta radians.
func (c *Creature) Turn(delta float64) {
	c.SetTheta(c.theta + delta)
}

// TickAge advances the age by one tick.
func (c *Creature) TickAge() {
	c.age++
}

// AddEnergy credits energy. Negative amounts are ignored.
func (c *Creature) AddEnergy(n int) {
	if n > 0 {
		c.energy += n
	}
}

// RemoveEnergy subtracts up to n energy and returns the amount actually
// removed. Energy never goes below zero.
func (c *Creature) RemoveEnergy(n int) int {
	if n <= 0 {
		return 0
	}
	removed := min(n, c.energy)
	c.energy -= removed
	return removed
}

// Dead reports whether the creature has run out of energy.
func (c *Creature) Dead() bool {
	return c.energy == 0
}

// PreferredActions feeds the observation through the brain and picks one
// action from each group. The observation is kept for later inspection.
func (c *Creature) PreferredActions(o *Observation, l Layout) Actions {
	c.lastObs = o
	return DecodeActions(c.brain.Feed(o.Flatten(l)))
}

// CloneMutate produces a child with a fresh id, the same lineage, a mutated
// brain and a mutated veg_eff. The child starts at the parent's position and
// heading with start energy, age 0 and no observation.
func (c *Creature) CloneMutate(newID uint64, m Mutation, s rng.Sampler) *Creature {
	vegEff := logistic(logit(c.vegEff) + s.Normal(0, m.VegEffStd))
	return NewCreature(newID, c.fam, c.x, c.y, c.theta, vegEff, m.StartEnergy, c.brain.CloneMutate(m.BrainStd, s))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clampVegEff(v float64) float64 {
	return math.Min(math.Max(v, vegEffEpsilon), 1-vegEffEpsilon)
}
