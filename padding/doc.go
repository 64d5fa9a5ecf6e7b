// Package padding turns a variable-size batch into flat, fixed-shape arrays.
//
// The layout follows the usual "graphs tuple" convention: nodes of every
// fragment are concatenated, edges are expressed as sender/receiver indices
// into the concatenated node array, and per-graph counts NNode/NEdge say
// which rows belong to which fragment.
//
// Sizes are rounded with quantize so only a few distinct shapes occur:
//
//	nodes  = Q(real nodes + 1)
//	edges  = Q(real edges)
//	graphs = Q(real graphs + 1)
//
// The extra node and graph guarantee at least one padding graph that holds
// every padding node and edge (padding edges are self-loops on the first
// padding node); any further padding graphs are empty. Masks mark real rows.
//
// Edges are undirected and appear once each, sender < receiver.
package padding
