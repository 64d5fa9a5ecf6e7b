package molgraph

import "sort"

// NumNodes returns the number of atoms.
func (g *MoleculeGraph) NumNodes() int { return len(g.atoms) }

// NumEdges returns the number of undirected edges.
func (g *MoleculeGraph) NumEdges() int { return len(g.edges) }

// Atom returns node i. Panics on an out-of-range index, like slice indexing.
func (g *MoleculeGraph) Atom(i int) Atom { return g.atoms[i] }

// Atoms returns a copy of all atoms in node order.
func (g *MoleculeGraph) Atoms() []Atom {
	out := make([]Atom, len(g.atoms))
	copy(out, g.atoms)

	return out
}

// Edges returns a copy of the sorted edge list.
func (g *MoleculeGraph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)

	return out
}

// Neighbors returns the ascending neighbor indices of node i.
// The returned slice is shared and must not be modified.
func (g *MoleculeGraph) Neighbors(i int) []int { return g.adj[i] }

// Degree returns the number of neighbors of node i.
func (g *MoleculeGraph) Degree(i int) int { return len(g.adj[i]) }

// HasEdge reports whether i and j are joined.
// Complexity: O(log deg(i)).
func (g *MoleculeGraph) HasEdge(i, j int) bool {
	if i < 0 || i >= len(g.adj) || i == j {
		return false
	}
	nb := g.adj[i]
	k := sort.SearchInts(nb, j)

	return k < len(nb) && nb[k] == j
}

// Distance returns the Euclidean distance between nodes i and j.
func (g *MoleculeGraph) Distance(i, j int) float64 {
	return dist(g.atoms[i].Position, g.atoms[j].Position)
}

// InducedEdges returns the edges among nodes, expressed over local slots:
// slot s refers to nodes[s]. The result is sorted with I < J.
// Nodes absent from the graph are ignored.
// Complexity: O(Σ deg(nodes) + E' log E').
func (g *MoleculeGraph) InducedEdges(nodes []int) []Edge {
	slot := make(map[int]int, len(nodes))
	for s, v := range nodes {
		slot[v] = s
	}
	var edges []Edge
	for s, v := range nodes {
		if v < 0 || v >= len(g.adj) {
			continue
		}
		for _, w := range g.adj[v] {
			// visit every edge from its lower-index endpoint only
			if w < v {
				continue
			}
			if t, ok := slot[w]; ok {
				edges = append(edges, canonical(s, t))
			}
		}
	}
	sortEdges(edges)

	return edges
}
