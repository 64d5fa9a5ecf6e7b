// SPDX-License-Identifier: MIT
// Package: molfrag/padding
//
// pad.go - Pad: Batch → PaddedBatch.

package padding

import (
	"fmt"

	"github.com/katalvlaran/molfrag/batch"
	"github.com/katalvlaran/molfrag/fragments"
)

// Pad lays b out in flat arrays with quantized sizes.
// Returns ErrBatchNil, ErrInvalidConfig, ErrSpeciesWidth or ErrPaddingBoundExceeded.
//
// Complexity: O(N·S + E + G) for N nodes, S species, E edges, G graphs.
func Pad(b *batch.Batch, cfg Config) (*PaddedBatch, error) {
	if b == nil {
		return nil, ErrBatchNil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	used := Shape{Graphs: len(b.Fragments)}
	for _, f := range b.Fragments {
		used.Nodes += f.NumNodes()
		used.Edges += f.NumEdges()
	}
	shape, err := paddedShape(used, cfg)
	if err != nil {
		return nil, err
	}

	p := allocate(shape, cfg.NumSpecies)
	p.used = used

	node, edge := 0, 0
	for g, f := range b.Fragments {
		if err := fill(p, f, g, node, edge, cfg.NumSpecies); err != nil {
			return nil, fmt.Errorf("Pad: graph %d: %w", g, err)
		}
		node += f.NumNodes()
		edge += f.NumEdges()
	}

	// first padding graph collects every padding node and edge
	pg := used.Graphs
	p.NNode[pg] = shape.Nodes - used.Nodes
	p.NEdge[pg] = shape.Edges - used.Edges
	for k := used.Edges; k < shape.Edges; k++ {
		p.Senders[k] = used.Nodes
		p.Receivers[k] = used.Nodes
	}
	for g := used.Graphs; g < shape.Graphs; g++ {
		p.TargetSpecies[g] = fragments.NoSpecies
	}

	return p, nil
}

// paddedShape quantizes used sizes and checks the clamp left room for the slack.
func paddedShape(used Shape, cfg Config) (Shape, error) {
	s := Shape{
		Nodes:  cfg.Nodes.Apply(used.Nodes+1, cfg.MantissaBits),
		Edges:  cfg.Edges.Apply(used.Edges, cfg.MantissaBits),
		Graphs: cfg.Graphs.Apply(used.Graphs+1, cfg.MantissaBits),
	}
	switch {
	case s.Nodes < used.Nodes+1:
		return Shape{}, fmt.Errorf("nodes %d need %d, max %d: %w", used.Nodes, used.Nodes+1, cfg.Nodes.Max, ErrPaddingBoundExceeded)
	case s.Edges < used.Edges:
		return Shape{}, fmt.Errorf("edges %d, max %d: %w", used.Edges, cfg.Edges.Max, ErrPaddingBoundExceeded)
	case s.Graphs < used.Graphs+1:
		return Shape{}, fmt.Errorf("graphs %d need %d, max %d: %w", used.Graphs, used.Graphs+1, cfg.Graphs.Max, ErrPaddingBoundExceeded)
	}

	return s, nil
}

func allocate(s Shape, nSpecies int) *PaddedBatch {
	p := &PaddedBatch{
		NNode:           make([]int, s.Graphs),
		NEdge:           make([]int, s.Graphs),
		Stop:            make([]bool, s.Graphs),
		TargetSpecies:   make([]int, s.Graphs),
		TargetPositions: make([][3]float64, s.Graphs),
		GraphMask:       make([]bool, s.Graphs),

		Positions:          make([][3]float64, s.Nodes),
		Species:            make([]int, s.Nodes),
		Focus:              make([]float64, s.Nodes),
		SpeciesProbability: make([][]float64, s.Nodes),
		NodeMask:           make([]bool, s.Nodes),

		Senders:   make([]int, s.Edges),
		Receivers: make([]int, s.Edges),
		EdgeMask:  make([]bool, s.Edges),
	}
	// one backing array for all probability rows
	flat := make([]float64, s.Nodes*nSpecies)
	for i := range p.SpeciesProbability {
		p.SpeciesProbability[i] = flat[i*nSpecies : (i+1)*nSpecies : (i+1)*nSpecies]
	}

	return p
}

// fill copies fragment f into graph row g, node rows from node, edge rows from edge.
func fill(p *PaddedBatch, f fragments.Fragment, g, node, edge, nSpecies int) error {
	p.NNode[g] = f.NumNodes()
	p.NEdge[g] = f.NumEdges()
	p.Stop[g] = f.Stop
	p.TargetSpecies[g] = f.TargetSpecies
	p.TargetPositions[g] = f.TargetPosition
	p.GraphMask[g] = true

	for i, a := range f.Atoms {
		r := node + i
		p.Positions[r] = a.Position
		p.Species[r] = a.Species
		p.NodeMask[r] = true
		if i < len(f.Focus) {
			p.Focus[r] = f.Focus[i]
		}
		if i < len(f.SpeciesProbability) {
			row := f.SpeciesProbability[i]
			if len(row) != nSpecies {
				return fmt.Errorf("node %d width %d, want %d: %w", i, len(row), nSpecies, ErrSpeciesWidth)
			}
			copy(p.SpeciesProbability[r], row)
		}
	}
	for k, e := range f.Edges {
		r := edge + k
		p.Senders[r] = node + e.I
		p.Receivers[r] = node + e.J
		p.EdgeMask[r] = true
	}

	return nil
}
