package padding_test

import (
	"testing"

	"github.com/katalvlaran/molfrag/batch"
	"github.com/katalvlaran/molfrag/fragments"
	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/katalvlaran/molfrag/padding"
	"github.com/katalvlaran/molfrag/quantize"
	"github.com/katalvlaran/molfrag/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nSpecies = 2

func config() padding.Config {
	wide := quantize.Bounds{Min: 1, Max: 1000}

	return padding.Config{MantissaBits: 1, Nodes: wide, Edges: wide, Graphs: wide, NumSpecies: nSpecies}
}

// chainBatch returns the full trajectory of a 3-atom chain as one batch:
// 4 graphs, 1+2+3+3 = 9 nodes, 0+1+2+2 = 5 edges.
func chainBatch(t *testing.T) *batch.Batch {
	t.Helper()
	atoms := []molgraph.Atom{
		{Position: [3]float64{0, 0, 0}, Species: 1},
		{Position: [3]float64{1, 0, 0}, Species: 1},
		{Position: [3]float64{2, 0, 0}, Species: 1},
	}
	g, err := molgraph.Build(atoms, molgraph.ModeRadius, 1.5)
	require.NoError(t, err)
	traj, err := fragments.Generate(rng.New(3), g, nSpecies)
	require.NoError(t, err)

	b := &batch.Batch{Fragments: traj, Graphs: len(traj)}
	for _, f := range traj {
		b.Nodes += f.NumNodes()
		b.Edges += f.NumEdges()
	}

	return b
}

func sum(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}

	return s
}

func count(xs []bool) int {
	c := 0
	for _, x := range xs {
		if x {
			c++
		}
	}

	return c
}

// TestPad_Layout checks sizes, per-graph counts and padding placement.
func TestPad_Layout(t *testing.T) {
	p, err := padding.Pad(chainBatch(t), config())
	require.NoError(t, err)

	assert.Equal(t, padding.Shape{Nodes: 12, Edges: 6, Graphs: 6}, p.Shape())
	assert.Equal(t, padding.Shape{Nodes: 9, Edges: 5, Graphs: 4}, p.Real())
	assert.Equal(t, []int{1, 2, 3, 3, 3, 0}, p.NNode)
	assert.Equal(t, []int{0, 1, 2, 2, 1, 0}, p.NEdge)
	assert.Equal(t, 12, sum(p.NNode))
	assert.Equal(t, 6, sum(p.NEdge))

	assert.Equal(t, 9, count(p.NodeMask))
	assert.Equal(t, 5, count(p.EdgeMask))
	assert.Equal(t, 4, count(p.GraphMask))
	assert.Equal(t, []bool{false, false, false, true, false, false}, p.Stop)
	assert.Equal(t, fragments.NoSpecies, p.TargetSpecies[4])
	assert.Equal(t, fragments.NoSpecies, p.TargetSpecies[5])

	// padding edge is a self-loop on the first padding node
	assert.Equal(t, 9, p.Senders[5])
	assert.Equal(t, 9, p.Receivers[5])
	assert.Len(t, p.SpeciesProbability[11], nSpecies)
	assert.InDelta(t, 3.0/12, p.NodeWaste(), 1e-12)
}

// TestPad_EdgesStayInGraph checks every real edge joins nodes of its own graph.
func TestPad_EdgesStayInGraph(t *testing.T) {
	p, err := padding.Pad(chainBatch(t), config())
	require.NoError(t, err)

	nodeStart, edgeStart := 0, 0
	for g := range p.NNode {
		lo, hi := nodeStart, nodeStart+p.NNode[g]
		for k := edgeStart; k < edgeStart+p.NEdge[g]; k++ {
			assert.GreaterOrEqual(t, p.Senders[k], lo)
			assert.Less(t, p.Receivers[k], hi)
			if p.EdgeMask[k] {
				assert.Less(t, p.Senders[k], p.Receivers[k])
			}
		}
		nodeStart, edgeStart = hi, edgeStart+p.NEdge[g]
	}
}

// TestPad_Features checks node features and soft targets are copied.
func TestPad_Features(t *testing.T) {
	b := chainBatch(t)
	p, err := padding.Pad(b, config())
	require.NoError(t, err)

	row := 0
	for g, f := range b.Fragments {
		assert.Equal(t, f.TargetSpecies, p.TargetSpecies[g])
		assert.Equal(t, f.TargetPosition, p.TargetPositions[g])
		for i, a := range f.Atoms {
			assert.Equal(t, a.Position, p.Positions[row+i])
			assert.Equal(t, a.Species, p.Species[row+i])
			assert.InDelta(t, f.Focus[i], p.Focus[row+i], 0)
			assert.Equal(t, f.SpeciesProbability[i], p.SpeciesProbability[row+i])
		}
		row += f.NumNodes()
	}
}

// TestPad_Empty pads a batch without fragments.
func TestPad_Empty(t *testing.T) {
	p, err := padding.Pad(&batch.Batch{}, config())
	require.NoError(t, err)
	assert.Equal(t, padding.Shape{Nodes: 1, Edges: 1, Graphs: 1}, p.Shape())
	assert.Equal(t, []int{1}, p.NNode)
	assert.Equal(t, []int{1}, p.NEdge)
	assert.Zero(t, count(p.GraphMask))
}

// TestPad_Errors covers invalid inputs and tight bounds.
func TestPad_Errors(t *testing.T) {
	_, err := padding.Pad(nil, config())
	require.ErrorIs(t, err, padding.ErrBatchNil)

	b := chainBatch(t)
	cases := []struct {
		name string
		mod  func(*padding.Config)
		want error
	}{
		{"nodes", func(c *padding.Config) { c.Nodes.Max = 9 }, padding.ErrPaddingBoundExceeded},
		{"edges", func(c *padding.Config) { c.Edges.Max = 4 }, padding.ErrPaddingBoundExceeded},
		{"graphs", func(c *padding.Config) { c.Graphs.Max = 4 }, padding.ErrPaddingBoundExceeded},
		{"species", func(c *padding.Config) { c.NumSpecies = 0 }, padding.ErrInvalidConfig},
		{"bits", func(c *padding.Config) { c.MantissaBits = -1 }, padding.ErrInvalidConfig},
		{"bounds", func(c *padding.Config) { c.Nodes = quantize.Bounds{Min: 5, Max: 2} }, quantize.ErrInvalidBounds},
		{"width", func(c *padding.Config) { c.NumSpecies = 3 }, padding.ErrSpeciesWidth},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config()
			tc.mod(&cfg)
			_, err := padding.Pad(b, cfg)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// TestPad_TightBoundsAccepted pads exactly at the minimum admissible maxima.
func TestPad_TightBoundsAccepted(t *testing.T) {
	cfg := config()
	cfg.Nodes.Max, cfg.Edges.Max, cfg.Graphs.Max = 10, 5, 5
	p, err := padding.Pad(chainBatch(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, padding.Shape{Nodes: 10, Edges: 5, Graphs: 5}, p.Shape())
	assert.Equal(t, 1, p.NNode[4])
	assert.Zero(t, p.NEdge[4])
}

// TestPad_NeverShrinks pads many random sub-batches and checks slack.
func TestPad_NeverShrinks(t *testing.T) {
	full := chainBatch(t)
	for mask := 1; mask < 1<<len(full.Fragments); mask++ {
		b := &batch.Batch{}
		for i, f := range full.Fragments {
			if mask&(1<<i) != 0 {
				b.Fragments = append(b.Fragments, f)
				b.Nodes += f.NumNodes()
				b.Edges += f.NumEdges()
				b.Graphs++
			}
		}
		p, err := padding.Pad(b, config())
		require.NoError(t, err)
		s := p.Shape()
		assert.GreaterOrEqual(t, s.Nodes, b.Nodes+1)
		assert.GreaterOrEqual(t, s.Edges, b.Edges)
		assert.GreaterOrEqual(t, s.Graphs, b.Graphs+1)
	}
}

// TestPad_ShapesAreFixedPoints checks that padded sizes quantize to
// themselves, also when the minima are not representable.
func TestPad_ShapesAreFixedPoints(t *testing.T) {
	cfg := config()
	cfg.Nodes.Min, cfg.Edges.Min, cfg.Graphs.Min = 5, 7, 5

	full := chainBatch(t)
	for k := 1; k <= len(full.Fragments); k++ {
		b := &batch.Batch{Fragments: full.Fragments[:k], Graphs: k}
		for _, f := range b.Fragments {
			b.Nodes += f.NumNodes()
			b.Edges += f.NumEdges()
		}
		p, err := padding.Pad(b, cfg)
		require.NoError(t, err)
		s := p.Shape()
		assert.Equal(t, s.Nodes, cfg.Nodes.Apply(s.Nodes, cfg.MantissaBits), "nodes k=%d", k)
		assert.Equal(t, s.Edges, cfg.Edges.Apply(s.Edges, cfg.MantissaBits), "edges k=%d", k)
		assert.Equal(t, s.Graphs, cfg.Graphs.Apply(s.Graphs, cfg.MantissaBits), "graphs k=%d", k)
	}

	// one single-atom fragment: minima 5, 7, 5 round up to 6, 8, 6
	p, err := padding.Pad(&batch.Batch{Fragments: full.Fragments[:1], Nodes: 1, Graphs: 1}, cfg)
	require.NoError(t, err)
	assert.Equal(t, padding.Shape{Nodes: 6, Edges: 8, Graphs: 6}, p.Shape())
}
