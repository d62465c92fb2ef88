package game

import (
	"math"

	"github.com/pthm-cable/grazers/components"
	"github.com/pthm-cable/grazers/systems"
)

// observe builds the observation for creature i from the spatial index and
// the grass field. It only reads shared state.
func (w *World) observe(i int) *components.Observation {
	c := w.creatures[i]
	x, y := c.Pos()
	o := components.NewObservation(w.layout)

	maxD2 := w.layout.MaxDist * w.layout.MaxDist
	w.grid.Query(x, y, func(e systems.Entry[int]) {
		if e.Payload == i {
			return
		}
		dx, dy := e.X-x, e.Y-y
		d2 := dx*dx + dy*dy
		if d2 >= maxD2 {
			return
		}
		bin, ok := w.inView(c, dx, dy)
		if !ok {
			return
		}
		o.See(bin, math.Sqrt(d2), w.creatures[e.Payload].Color())
	})
	o.Finish(w.layout)

	w.grassWindow(x, y, o.Grass)
	o.Energy = math.Min(1, float64(c.Energy())/float64(w.cfg.Derived.ReplicateEnergy))

	return o
}

// inView reports whether offset (dx, dy) lies in c's vision cone, and which
// site it falls in. Observation and biting share this test.
func (w *World) inView(c *components.Creature, dx, dy float64) (int, bool) {
	return systems.VisionBin(dx, dy, c.Theta(), w.cfg.Vision.HalfAngle, w.layout.Sites)
}

// grassWindow fills dst with the normalized grass values of the
// (2r+1)x(2r+1) cells centred on the cell under (x, y), wrapping at edges.
func (w *World) grassWindow(x, y float64, dst []float64) {
	r := w.layout.GrassRadius
	cx := int(math.Floor(x))
	cy := int(math.Floor(y))
	grassMax := float64(w.cfg.Grass.Max)

	k := 0
	for dy := -r; dy <= r; dy++ {
		row := systems.WrapIndex(cy+dy, w.rows)
		for dx := -r; dx <= r; dx++ {
			col := systems.WrapIndex(cx+dx, w.cols)
			dst[k] = float64(w.grass[row*w.cols+col]) / grassMax
			k++
		}
	}
}
