// Package systems provides spatial indexing and torus geometry for the simulation.
package systems

import (
	"fmt"
	"math"
)

// Entry is one indexed item. X and Y are the stored coordinates, shifted by a
// world width or height when the shortest toroidal path crosses the seam, so
// that X-qx and Y-qy give the true toroidal delta from the query point.
type Entry[T any] struct {
	X, Y    float64
	Payload T
}

// Grid is a toroidal uniform bin grid answering "everything within one step"
// in expected O(1). It has no per-entry removal: Clear and rebuild every tick.
//
// Bins are at least one step wide, so the 3x3 block around a point's bin
// covers every point within one step of it along both wrapped axes.
type Grid[T any] struct {
	width, height float64
	step          float64
	binW, binH    float64
	cols, rows    int
	bins          [][]Entry[T]
}

// NewGrid creates a grid covering a width x height torus with the given step.
func NewGrid[T any](width, height, step float64) *Grid[T] {
	if width <= 0 || height <= 0 || step <= 0 {
		panic(fmt.Sprintf("systems: bad grid %vx%v step %v", width, height, step))
	}

	cols := max(1, int(math.Floor(width/step)))
	rows := max(1, int(math.Floor(height/step)))

	bins := make([][]Entry[T], cols*rows)
	for i := range bins {
		bins[i] = make([]Entry[T], 0, 8) // pre-allocate small capacity
	}

	return &Grid[T]{
		width:  width,
		height: height,
		step:   step,
		binW:   width / float64(cols),
		binH:   height / float64(rows),
		cols:   cols,
		rows:   rows,
		bins:   bins,
	}
}

// Step returns the query radius along each axis.
func (g *Grid[T]) Step() float64 { return g.step }

// Dims returns the number of bin columns and rows.
func (g *Grid[T]) Dims() (cols, rows int) { return g.cols, g.rows }

// Clear removes all entries, keeping bin capacity.
func (g *Grid[T]) Clear() {
	for i := range g.bins {
		g.bins[i] = g.bins[i][:0]
	}
}

// Len returns the number of stored entries.
func (g *Grid[T]) Len() int {
	n := 0
	for _, b := range g.bins {
		n += len(b)
	}
	return n
}

// Put inserts payload at (x, y). Coordinates are wrapped into the world first.
func (g *Grid[T]) Put(x, y float64, payload T) {
	x = Wrap(x, g.width)
	y = Wrap(y, g.height)
	col, row := g.binOf(x, y)
	idx := row*g.cols + col
	g.bins[idx] = append(g.bins[idx], Entry[T]{X: x, Y: y, Payload: payload})
}

func (g *Grid[T]) binOf(x, y float64) (col, row int) {
	col = min(int(x/g.binW), g.cols-1)
	row = min(int(y/g.binH), g.rows-1)
	return col, row
}

// neighbourBins returns the distinct bin indices at offsets -1, 0, +1 around
// c on an axis of n bins. Fewer than three bins means fewer distinct indices.
func neighbourBins(c, n int, dst *[3]int) int {
	k := 0
	for _, d := range [3]int{-1, 0, 1} {
		b := (c + d + n) % n
		dup := false
		for i := 0; i < k; i++ {
			if dst[i] == b {
				dup = true
				break
			}
		}
		if !dup {
			dst[k] = b
			k++
		}
	}
	return k
}

// Query calls visit for every entry whose wrapped |dx| and |dy| from (x, y)
// are both within one step. The entry passed to visit carries coordinates
// reflected across the world seam where that is the shorter direction.
// Query only reads the grid and may run concurrently with other queries.
func (g *Grid[T]) Query(x, y float64, visit func(Entry[T])) {
	x = Wrap(x, g.width)
	y = Wrap(y, g.height)
	col, row := g.binOf(x, y)

	var cols, rows [3]int
	nc := neighbourBins(col, g.cols, &cols)
	nr := neighbourBins(row, g.rows, &rows)

	for i := 0; i < nc; i++ {
		for j := 0; j < nr; j++ {
			for _, e := range g.bins[rows[j]*g.cols+cols[i]] {
				cx, dx := reflect(e.X, x, g.width)
				cy, dy := reflect(e.Y, y, g.height)
				if dx <= g.step && dy <= g.step {
					visit(Entry[T]{X: cx, Y: cy, Payload: e.Payload})
				}
			}
		}
	}
}

// QueryInto appends the matches of Query to dst and returns it.
// Reuse dst across calls to avoid allocations.
func (g *Grid[T]) QueryInto(dst []Entry[T], x, y float64) []Entry[T] {
	g.Query(x, y, func(e Entry[T]) {
		dst = append(dst, e)
	})
	return dst
}

// Fold reduces the matches of a query around (x, y) into an accumulator.
func Fold[T, V any](g *Grid[T], x, y float64, init V, fn func(V, Entry[T]) V) V {
	acc := init
	g.Query(x, y, func(e Entry[T]) {
		acc = fn(acc, e)
	})
	return acc
}

// reflect returns c moved by one world size when the seam is the shorter
// way to q, and the absolute toroidal distance |c - q| along the axis.
func reflect(c, q, size float64) (float64, float64) {
	d := math.Abs(c - q)
	if d > size/2 {
		d = size - d
		if c > q {
			c -= size
		} else {
			c += size
		}
	}
	return c, d
}
