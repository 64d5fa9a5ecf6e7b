package molgraph

import "sort"

// ConnectedComponents partitions the nodes into connected components.
// Each component lists its nodes in ascending order; components are ordered
// by their smallest node.
//
// Time:   O(N + E).
// Memory: O(N) for visited flags and output.
func (g *MoleculeGraph) ConnectedComponents() [][]int {
	seen := make([]bool, len(g.atoms))
	var comps [][]int

	for i0 := range g.atoms {
		if seen[i0] {
			continue
		}
		// BFS to collect component
		queue := []int{i0}
		seen[i0] = true
		for qi := 0; qi < len(queue); qi++ {
			for _, v := range g.adj[queue[qi]] {
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		comps = append(comps, sortedCopy(queue))
	}

	return comps
}

// Connected reports whether every node is reachable from node 0.
func (g *MoleculeGraph) Connected() bool {
	return len(g.ConnectedComponents()) <= 1
}

func sortedCopy(xs []int) []int {
	out := make([]int, len(xs))
	copy(out, xs)
	sort.Ints(out)

	return out
}
