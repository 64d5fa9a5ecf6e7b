package padding

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/molfrag/quantize"
)

// Sentinel errors for padding.
var (
	// ErrBatchNil indicates a nil batch.
	ErrBatchNil = errors.New("padding: batch is nil")

	// ErrInvalidConfig indicates invalid bounds or species count.
	ErrInvalidConfig = errors.New("padding: invalid config")

	// ErrPaddingBoundExceeded indicates a clamped size below the real count plus slack.
	ErrPaddingBoundExceeded = errors.New("padding: bound too small for batch")

	// ErrSpeciesWidth indicates a SpeciesProbability row whose width differs from NumSpecies.
	ErrSpeciesWidth = errors.New("padding: species probability width mismatch")
)

// Config controls quantization of the padded sizes.
type Config struct {
	MantissaBits int             `yaml:"mantissa_bits"`
	Nodes        quantize.Bounds `yaml:"nodes"`
	Edges        quantize.Bounds `yaml:"edges"`
	Graphs       quantize.Bounds `yaml:"graphs"`
	NumSpecies   int             `yaml:"-"`
}

// Validate reports ErrInvalidConfig for negative mantissa bits, a species
// count below 1, or bounds rejected by quantize.
func (c Config) Validate() error {
	if c.MantissaBits < 0 {
		return fmt.Errorf("mantissa bits %d: %w", c.MantissaBits, ErrInvalidConfig)
	}
	if c.NumSpecies < 1 {
		return fmt.Errorf("species count %d: %w", c.NumSpecies, ErrInvalidConfig)
	}
	for _, d := range []struct {
		name string
		b    quantize.Bounds
	}{{"nodes", c.Nodes}, {"edges", c.Edges}, {"graphs", c.Graphs}} {
		if err := d.b.Validate(); err != nil {
			return fmt.Errorf("%s: %w: %w", d.name, ErrInvalidConfig, err)
		}
	}

	return nil
}

// Shape is the (nodes, edges, graphs) size of a padded batch.
type Shape struct {
	Nodes  int
	Edges  int
	Graphs int
}

// String renders the shape as nodes×edges×graphs.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Nodes, s.Edges, s.Graphs)
}

// PaddedBatch holds flat arrays for one batch. Node arrays have Shape().Nodes
// rows, edge arrays Shape().Edges rows, and graph arrays Shape().Graphs rows.
type PaddedBatch struct {
	// per graph
	NNode           []int
	NEdge           []int
	Stop            []bool
	TargetSpecies   []int
	TargetPositions [][3]float64
	GraphMask       []bool

	// per node
	Positions          [][3]float64
	Species            []int
	Focus              []float64
	SpeciesProbability [][]float64
	NodeMask           []bool

	// per edge
	Senders   []int
	Receivers []int
	EdgeMask  []bool

	used Shape
}

// Shape returns the padded sizes.
func (p *PaddedBatch) Shape() Shape {
	return Shape{Nodes: len(p.Positions), Edges: len(p.Senders), Graphs: len(p.NNode)}
}

// Real returns the unpadded sizes.
func (p *PaddedBatch) Real() Shape { return p.used }

// NodeWaste returns the fraction of node rows that are padding.
func (p *PaddedBatch) NodeWaste() float64 {
	n := len(p.Positions)
	if n == 0 {
		return 0
	}

	return float64(n-p.used.Nodes) / float64(n)
}
