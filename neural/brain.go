// Package neural provides the feedforward brains that drive creatures.
package neural

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/grazers/rng"
)

// Brain is a fixed-shape feedforward network without biases.
// Layer i maps the previous layer (or the input vector) through mats[i];
// every layer but the last is squashed with tanh. The last layer is linear
// and yields raw action scores.
type Brain struct {
	inputs  int
	outputs int
	mats    []*mat.Dense
}

// NewRandom creates a brain with the given hidden shape and standard normal weights.
func NewRandom(inputs int, hidden []int, outputs int, s rng.Sampler) *Brain {
	if inputs <= 0 || outputs <= 0 {
		panic(fmt.Sprintf("neural: bad brain shape %d -> %v -> %d", inputs, hidden, outputs))
	}

	b := &Brain{inputs: inputs, outputs: outputs}
	last := inputs
	for _, next := range hidden {
		b.mats = append(b.mats, randomDense(next, last, s))
		last = next
	}
	b.mats = append(b.mats, randomDense(outputs, last, s))
	return b
}

func randomDense(rows, cols int, s rng.Sampler) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = s.Normal(0, 1)
	}
	return mat.NewDense(rows, cols, data)
}

// FromWeights builds a brain from explicit layer matrices.
// Adjacent layers must chain: layers[i] has as many columns as layers[i-1] has rows.
func FromWeights(layers ...*mat.Dense) *Brain {
	if len(layers) == 0 {
		panic("neural: brain needs at least one layer")
	}
	_, inputs := layers[0].Dims()
	b := &Brain{inputs: inputs}
	last := inputs
	for i, m := range layers {
		r, c := m.Dims()
		if c != last {
			panic(fmt.Sprintf("neural: layer %d has %d columns, want %d", i, c, last))
		}
		b.mats = append(b.mats, mat.DenseCopyOf(m))
		last = r
	}
	b.outputs = last
	return b
}

// Inputs returns the input width.
func (b *Brain) Inputs() int { return b.inputs }

// Outputs returns the output width.
func (b *Brain) Outputs() int { return b.outputs }

// Shape returns the layer widths from input to output, e.g. [20 8 9].
func (b *Brain) Shape() []int {
	shape := []int{b.inputs}
	for _, m := range b.mats {
		r, _ := m.Dims()
		shape = append(shape, r)
	}
	return shape
}

// Layers exposes the weight matrices for inspection. Callers must not modify them.
func (b *Brain) Layers() []mat.Matrix {
	out := make([]mat.Matrix, len(b.mats))
	for i, m := range b.mats {
		out[i] = m
	}
	return out
}

// Feed runs the network. It is pure and safe to call from several goroutines.
// Panics if len(inputs) differs from the input width.
func (b *Brain) Feed(inputs []float64) []float64 {
	if len(inputs) != b.inputs {
		panic(fmt.Sprintf("neural: feed got %d inputs, want %d", len(inputs), b.inputs))
	}

	buf := mat.NewVecDense(len(inputs), append([]float64(nil), inputs...))
	last := len(b.mats) - 1
	for i, m := range b.mats {
		r, _ := m.Dims()
		out := mat.NewVecDense(r, nil)
		out.MulVec(m, buf)
		if i < last {
			raw := out.RawVector().Data
			for j := range raw {
				raw[j] = math.Tanh(raw[j])
			}
		}
		buf = out
	}

	return buf.RawVector().Data
}

// CloneMutate returns an independent brain of the same shape with every weight
// perturbed by Gaussian noise of the given standard deviation.
func (b *Brain) CloneMutate(std float64, s rng.Sampler) *Brain {
	child := &Brain{inputs: b.inputs, outputs: b.outputs, mats: make([]*mat.Dense, len(b.mats))}
	for i, m := range b.mats {
		r, c := m.Dims()
		data := make([]float64, r*c)
		for row := 0; row < r; row++ {
			for col := 0; col < c; col++ {
				data[row*c+col] = m.At(row, col) + s.Normal(0, std)
			}
		}
		child.mats[i] = mat.NewDense(r, c, data)
	}
	return child
}
