// Package molgraph turns atoms (positions and species) into an immutable,
// index-based neighbor graph of candidate bonds.
//
// What
//
//   - Atom, Molecule and SpeciesTable describe the input: raw molecules carry
//     atomic numbers, the table maps them to compact species indices.
//   - Build connects atoms in one of two modes:
//     ModeRadius  - every unordered pair within a cutoff distance;
//     ModeNearest - every atom to all atoms within a tolerance of its own
//     nearest-neighbor distance, so tied neighbors are all kept.
//   - MoleculeGraph answers adjacency, distance, induced-subgraph and
//     connected-component queries.
//
// Representation
//
//	Nodes are addressed by their index in the input slice. Edges are stored
//	once as Edge{I, J} with I < J, sorted ascending; adjacency lists are
//	sorted ascending. There are no pointers between nodes, so a graph can be
//	shared read-only between goroutines.
//
// Complexity (N = atoms, E = edges)
//
//   - Build: O(N²) distance evaluations, O(N + E) memory.
//   - Neighbors, HasEdge: O(deg) / O(log deg).
//   - ConnectedComponents: O(N + E).
package molgraph
