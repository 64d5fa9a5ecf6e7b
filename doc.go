// Package molfrag prepares training data for models that build molecules one
// atom at a time.
//
// Every molecule becomes a trajectory of partial structures (fragments), each
// labeled with the next atom to place and where to place it. Fragments from
// many molecules are shuffled in a pool, packed into batches under a node,
// edge and graph budget, and padded to a small set of fixed shapes.
//
// Subpackages:
//
//	rng/       - splittable deterministic keys
//	molgraph/  - atoms, species tables, neighbor graphs, connected components
//	fragments/ - trajectory generation and verification
//	pool/      - shuffle-pool sampler over trajectories
//	batch/     - greedy dynamic batcher
//	quantize/  - mantissa rounding of counts
//	padding/   - fixed-shape flat arrays with masks
//	xyz/       - XYZ molecule reader
//	pipeline/  - YAML config, Loader, concurrent Run, metrics
//
// Quick ASCII example, a three-atom chain revealed from the middle:
//
//	step 0:      B          target A
//	step 1:  A───B          target C
//	step 2:  A───B───C      complete
//	step 3:  A───B───C      stop
//
// The cmd/molfrag binary exposes the pipeline on the command line:
//
//	go install github.com/katalvlaran/molfrag/cmd/molfrag@latest
package molfrag
