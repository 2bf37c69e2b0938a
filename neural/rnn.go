// Package neural provides the small recurrent controller that steers animals.
package neural

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Controller dimensions used by animals.
const (
	NumInputs  = 3 // potential, gradient x, gradient y
	NumOutputs = 3 // speed, direction x, direction y
)

// ErrInvalidArgument is returned when a controller is built from an unusable source.
var ErrInvalidArgument = errors.New("neural: invalid argument")

// Layer names in weight-vector order.
const (
	LayerWih = "Wih" // input -> hidden
	LayerWhh = "Whh" // hidden -> hidden
	LayerBh  = "bh"  // hidden bias
	LayerWho = "Who" // hidden -> output
	LayerBo  = "bo"  // output bias
)

// Layer describes one named sub-view of the flat weight vector.
// Matrices are row-major with Rows outputs and Cols inputs; biases have Cols == 1.
type Layer struct {
	Name   string
	Rows   int
	Cols   int
	Offset int
}

// Size returns the number of weights in the layer.
func (l Layer) Size() int { return l.Rows * l.Cols }

// Partition returns the fixed layout of the weight vector for the given dimensions.
// The order is Wih, Whh, bh, Who, bo.
func Partition(ni, no, nh int) []Layer {
	layers := []Layer{
		{Name: LayerWih, Rows: nh, Cols: ni},
		{Name: LayerWhh, Rows: nh, Cols: nh},
		{Name: LayerBh, Rows: nh, Cols: 1},
		{Name: LayerWho, Rows: no, Cols: nh},
		{Name: LayerBo, Rows: no, Cols: 1},
	}
	offset := 0
	for i := range layers {
		layers[i].Offset = offset
		offset += layers[i].Size()
	}
	return layers
}

// NumWeights returns the length of the weight vector for the given dimensions.
func NumWeights(ni, no, nh int) int {
	return nh*ni + nh*nh + nh + no*nh + no
}

// RNN is a single-hidden-layer recurrent network over a flat weight vector.
// The hidden state persists between Evaluate calls.
type RNN struct {
	input   []float64
	hidden  []float64
	output  []float64
	weights []float64

	// Views sharing the slices above
	in, h, out *mat.VecDense
	wih, whh   *mat.Dense
	bh         *mat.VecDense
	who        *mat.Dense
	bo         *mat.VecDense

	// Scratch for Evaluate
	pre, rec *mat.VecDense
}

// NewRNN creates a controller with weights, input and output drawn from U[0,1)
// and a zero hidden state.
func NewRNN(rng *rand.Rand, ni, no, nh int) (*RNN, error) {
	if ni <= 0 || no <= 0 || nh <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%dx%d", ErrInvalidArgument, ni, no, nh)
	}

	r := &RNN{
		input:   uniform(rng, ni),
		hidden:  make([]float64, nh),
		output:  uniform(rng, no),
		weights: uniform(rng, NumWeights(ni, no, nh)),
	}
	r.bind()
	return r, nil
}

// NewRNNFrom creates an offspring controller from parent.
// Input, output and weights are copied; the hidden state starts at zero.
func NewRNNFrom(parent *RNN) (*RNN, error) {
	if parent == nil {
		return nil, fmt.Errorf("%w: nil parent controller", ErrInvalidArgument)
	}
	if err := parent.Validate(); err != nil {
		return nil, err
	}

	r := &RNN{
		input:   append([]float64(nil), parent.input...),
		hidden:  make([]float64, len(parent.hidden)),
		output:  append([]float64(nil), parent.output...),
		weights: append([]float64(nil), parent.weights...),
	}
	r.bind()
	return r, nil
}

// bind builds the matrix views over the flat slices.
func (r *RNN) bind() {
	ni, no, nh := len(r.input), len(r.output), len(r.hidden)

	r.in = mat.NewVecDense(ni, r.input)
	r.h = mat.NewVecDense(nh, r.hidden)
	r.out = mat.NewVecDense(no, r.output)

	for _, l := range Partition(ni, no, nh) {
		data := r.weights[l.Offset : l.Offset+l.Size()]
		switch l.Name {
		case LayerWih:
			r.wih = mat.NewDense(l.Rows, l.Cols, data)
		case LayerWhh:
			r.whh = mat.NewDense(l.Rows, l.Cols, data)
		case LayerBh:
			r.bh = mat.NewVecDense(l.Rows, data)
		case LayerWho:
			r.who = mat.NewDense(l.Rows, l.Cols, data)
		case LayerBo:
			r.bo = mat.NewVecDense(l.Rows, data)
		}
	}

	r.pre = mat.NewVecDense(nh, nil)
	r.rec = mat.NewVecDense(nh, nil)
}

// Validate checks the shape invariants of the controller.
func (r *RNN) Validate() error {
	ni, no, nh := len(r.input), len(r.output), len(r.hidden)
	if ni == 0 || no == 0 || nh == 0 {
		return fmt.Errorf("%w: empty controller", ErrInvalidArgument)
	}
	if want := NumWeights(ni, no, nh); len(r.weights) != want {
		return fmt.Errorf("%w: %d weights, want %d", ErrInvalidArgument, len(r.weights), want)
	}
	return nil
}

// Evaluate advances the network one step:
// hidden = tanh(Wih*input + Whh*hidden + bh), output = Who*hidden + bo.
func (r *RNN) Evaluate() {
	r.pre.MulVec(r.wih, r.in)
	r.rec.MulVec(r.whh, r.h)
	r.pre.AddVec(r.pre, r.rec)
	r.pre.AddVec(r.pre, r.bh)

	for i := range r.hidden {
		r.hidden[i] = math.Tanh(r.pre.AtVec(i))
	}

	r.out.MulVec(r.who, r.h)
	r.out.AddVec(r.out, r.bo)
}

// Mutate adds zero-mean Gaussian noise with standard deviation delta to every weight.
func (r *RNN) Mutate(rng *rand.Rand, delta float64) {
	for i := range r.weights {
		r.weights[i] += rng.NormFloat64() * delta
	}
}

// SetInput copies values into the input vector.
func (r *RNN) SetInput(values ...float64) {
	copy(r.input, values)
}

// Input returns the input vector. Writes are seen by the next Evaluate.
func (r *RNN) Input() []float64 { return r.input }

// Hidden returns the recurrent state.
func (r *RNN) Hidden() []float64 { return r.hidden }

// Output returns the output vector from the last Evaluate.
func (r *RNN) Output() []float64 { return r.output }

// Weights returns the flat weight vector in Partition order.
func (r *RNN) Weights() []float64 { return r.weights }

// Shape returns the input, output and hidden sizes.
func (r *RNN) Shape() (ni, no, nh int) {
	return len(r.input), len(r.output), len(r.hidden)
}

func uniform(rng *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.Float64()
	}
	return v
}
