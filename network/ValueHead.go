package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// ValueHead implements the critic's value projection: a fully
// connected layer from the encoder's hidden width to the head's hidden
// width, a ReLU, and a fully connected layer down to a single scalar
// per position. The head holds its weights as plain tensors and builds
// a fresh computational graph per forward pass, since the number of
// scored positions (batch × sequence length) changes from call to
// call.
type ValueHead struct {
	inFeatures int
	hiddenSize int

	w1 *tensor.Dense // (inFeatures, hiddenSize)
	b1 *tensor.Dense // (1, hiddenSize)
	w2 *tensor.Dense // (hiddenSize, 1)
	b2 *tensor.Dense // (1, 1)
}

// NewValueHead returns a new ValueHead projecting inFeatures-wide
// hidden states to scalars through a hiddenSize-wide intermediate
// layer. The init parameter determines the weight initialization
// scheme; biases start at zero.
func NewValueHead(inFeatures, hiddenSize int,
	init G.InitWFn) (*ValueHead, error) {
	if inFeatures <= 0 || hiddenSize <= 0 {
		return nil, fmt.Errorf("newvaluehead: non-positive dimensions "+
			"(in %d, hidden %d)", inFeatures, hiddenSize)
	}

	w1 := tensor.New(
		tensor.WithShape(inFeatures, hiddenSize),
		tensor.WithBacking(init(tensor.Float64, inFeatures, hiddenSize)),
	)
	w2 := tensor.New(
		tensor.WithShape(hiddenSize, 1),
		tensor.WithBacking(init(tensor.Float64, hiddenSize, 1)),
	)
	b1 := tensor.New(
		tensor.WithShape(1, hiddenSize),
		tensor.WithBacking(make([]float64, hiddenSize)),
	)
	b2 := tensor.New(
		tensor.WithShape(1, 1),
		tensor.WithBacking(make([]float64, 1)),
	)

	return &ValueHead{
		inFeatures: inFeatures,
		hiddenSize: hiddenSize,
		w1:         w1,
		b1:         b1,
		w2:         w2,
		b2:         b2,
	}, nil
}

// InFeatures returns the hidden width the head consumes.
func (v *ValueHead) InFeatures() int {
	return v.inFeatures
}

// HiddenSize returns the width of the head's intermediate layer.
func (v *ValueHead) HiddenSize() int {
	return v.hiddenSize
}

// Learnables returns the head's weight tensors so that an outer
// training loop can update them in place.
func (v *ValueHead) Learnables() []*tensor.Dense {
	return []*tensor.Dense{v.w1, v.b1, v.w2, v.b2}
}

// Forward projects a (rows, inFeatures) matrix of hidden states to a
// (rows,) vector of scalar values.
func (v *ValueHead) Forward(hidden *tensor.Dense) (*tensor.Dense, error) {
	if hidden.Dims() != 2 || hidden.Shape()[1] != v.inFeatures {
		return nil, fmt.Errorf("forward: invalid hidden state shape"+
			"\n\twant(%v, %v)\n\thave(%v)", hidden.Shape()[0], v.inFeatures,
			hidden.Shape())
	}
	rows := hidden.Shape()[0]

	g := G.NewGraph()
	in := G.NewMatrix(g, tensor.Float64, G.WithShape(rows, v.inFeatures),
		G.WithName("hidden"), G.WithValue(hidden))
	w1 := G.NewMatrix(g, tensor.Float64, G.WithShape(v.inFeatures,
		v.hiddenSize), G.WithName("w1"), G.WithValue(v.w1))
	b1 := G.NewMatrix(g, tensor.Float64, G.WithShape(1, v.hiddenSize),
		G.WithName("b1"), G.WithValue(v.b1))
	w2 := G.NewMatrix(g, tensor.Float64, G.WithShape(v.hiddenSize, 1),
		G.WithName("w2"), G.WithValue(v.w2))
	b2 := G.NewMatrix(g, tensor.Float64, G.WithShape(1, 1),
		G.WithName("b2"), G.WithValue(v.b2))

	out := G.Must(G.Mul(in, w1))
	out = G.Must(G.BroadcastAdd(out, b1, nil, []byte{0}))
	out = G.Must(G.Rectify(out))
	out = G.Must(G.Mul(out, w2))
	out = G.Must(G.BroadcastAdd(out, b2, nil, []byte{0}))

	var outVal G.Value
	G.Read(out, &outVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return nil, fmt.Errorf("forward: could not run value head: %v", err)
	}

	// Squeeze the trailing singleton dimension: (rows, 1) -> (rows,)
	values := make([]float64, rows)
	copy(values, outVal.Data().([]float64))
	return tensor.New(
		tensor.WithShape(rows),
		tensor.WithBacking(values),
	), nil
}
