package molgraph

import (
	"fmt"
	"math"
	"sort"
)

// Build constructs the neighbor graph of atoms.
//
// ModeRadius: threshold is the cutoff; pairs with distance <= cutoff are joined.
// ModeNearest: threshold is the tolerance; atom i selects every j with
// dist(i,j) <= min_k dist(i,k) + tolerance, and the union of all selections
// is made undirected.
//
// Build deep-copies atoms. It does not check connectivity: a graph too sparse
// for generation is reported by the fragment generator when it is traversed.
// Complexity: O(N²) time, O(N + E) memory.
func Build(atoms []Atom, mode Mode, threshold float64) (*MoleculeGraph, error) {
	if len(atoms) == 0 {
		return nil, ErrNoAtoms
	}
	if math.IsNaN(threshold) {
		return nil, fmt.Errorf("Build: threshold NaN: %w", ErrInvalidThreshold)
	}
	switch mode {
	case ModeRadius:
		if threshold <= 0 {
			return nil, fmt.Errorf("Build: cutoff=%g must be > 0: %w", threshold, ErrInvalidThreshold)
		}
	case ModeNearest:
		if threshold < 0 {
			return nil, fmt.Errorf("Build: tolerance=%g must be >= 0: %w", threshold, ErrInvalidThreshold)
		}
	default:
		return nil, fmt.Errorf("Build: %v: %w", mode, ErrUnknownMode)
	}
	for i, a := range atoms {
		for _, c := range a.Position {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, fmt.Errorf("Build: atom %d position %v: %w", i, a.Position, ErrInvalidPosition)
			}
		}
		if a.Species < 0 {
			return nil, fmt.Errorf("Build: atom %d species %d: %w", i, a.Species, ErrInvalidSpecies)
		}
	}

	own := make([]Atom, len(atoms))
	copy(own, atoms)

	var edges []Edge
	if mode == ModeRadius {
		edges = radiusEdges(own, threshold)
	} else {
		edges = nearestEdges(own, threshold)
	}

	return newGraph(own, edges), nil
}

// radiusEdges joins every unordered pair within cutoff. Output is already sorted.
func radiusEdges(atoms []Atom, cutoff float64) []Edge {
	var edges []Edge
	for i := range atoms {
		for j := i + 1; j < len(atoms); j++ {
			if dist(atoms[i].Position, atoms[j].Position) <= cutoff {
				edges = append(edges, Edge{I: i, J: j})
			}
		}
	}

	return edges
}

// nearestEdges joins each atom to every atom within tolerance of its nearest
// neighbor. A single atom has no neighbors and yields no edges.
func nearestEdges(atoms []Atom, tolerance float64) []Edge {
	n := len(atoms)
	if n < 2 {
		return nil
	}
	// full distance table; reused by both passes
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := dist(atoms[i].Position, atoms[j].Position)
			d[i][j], d[j][i] = v, v
		}
	}

	selected := make(map[Edge]struct{})
	for i := 0; i < n; i++ {
		nearest := math.Inf(1)
		for j := 0; j < n; j++ {
			if j != i && d[i][j] < nearest {
				nearest = d[i][j]
			}
		}
		for j := 0; j < n; j++ {
			if j == i || d[i][j] > nearest+tolerance {
				continue
			}
			selected[canonical(i, j)] = struct{}{}
		}
	}

	edges := make([]Edge, 0, len(selected))
	for e := range selected {
		edges = append(edges, e)
	}
	sortEdges(edges)

	return edges
}

// newGraph assembles adjacency from a sorted, unique edge list.
func newGraph(atoms []Atom, edges []Edge) *MoleculeGraph {
	adj := make([][]int, len(atoms))
	for _, e := range edges {
		adj[e.I] = append(adj[e.I], e.J)
		adj[e.J] = append(adj[e.J], e.I)
	}
	for i := range adj {
		sort.Ints(adj[i])
	}

	return &MoleculeGraph{atoms: atoms, edges: edges, adj: adj}
}

// canonical orders an index pair as I < J.
func canonical(i, j int) Edge {
	if i > j {
		i, j = j, i
	}

	return Edge{I: i, J: j}
}

// sortEdges orders edges lexicographically by (I, J).
func sortEdges(edges []Edge) {
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].I != edges[b].I {
			return edges[a].I < edges[b].I
		}
		return edges[a].J < edges[b].J
	})
}

func dist(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
