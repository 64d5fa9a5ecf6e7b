package pipeline_test

import (
	"github.com/katalvlaran/molfrag/batch"
	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/katalvlaran/molfrag/pipeline"
	"github.com/katalvlaran/molfrag/quantize"
)

func water() molgraph.Molecule {
	return molgraph.Molecule{
		Name:          "water",
		AtomicNumbers: []int{8, 1, 1},
		Positions:     [][3]float64{{0, 0, 0.117}, {0, 0.757, -0.471}, {0, -0.757, -0.471}},
	}
}

func methane() molgraph.Molecule {
	return molgraph.Molecule{
		Name:          "methane",
		AtomicNumbers: []int{6, 1, 1, 1, 1},
		Positions: [][3]float64{
			{0, 0, 0}, {0.629, 0.629, 0.629}, {-0.629, -0.629, 0.629},
			{-0.629, 0.629, -0.629}, {0.629, -0.629, -0.629},
		},
	}
}

func ammonia() molgraph.Molecule {
	return molgraph.Molecule{
		Name:          "ammonia",
		AtomicNumbers: []int{7, 1, 1, 1},
		Positions:     [][3]float64{{0, 0, 0.116}, {0, 0.939, -0.271}, {0.813, -0.470, -0.271}, {-0.813, -0.470, -0.271}},
	}
}

// split returns a bonded carbon pair and a third carbon 20 Å away:
// disconnected under a 5 Å cutoff.
func split() molgraph.Molecule {
	return molgraph.Molecule{
		Name:          "split",
		AtomicNumbers: []int{6, 6, 6},
		Positions:     [][3]float64{{0, 0, 0}, {1.5, 0, 0}, {20, 0, 0}},
	}
}

// chloride carries an element outside the default species table.
func chloride() molgraph.Molecule {
	return molgraph.Molecule{
		Name:          "hcl",
		AtomicNumbers: []int{1, 17},
		Positions:     [][3]float64{{0, 0, 0}, {1.27, 0, 0}},
	}
}

func molecules() []molgraph.Molecule {
	return []molgraph.Molecule{water(), methane(), ammonia()}
}

// smallConfig keeps pools and batches small so tests stay fast.
func smallConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.Seed = 11
	cfg.PoolSize = 64
	cfg.Budget = batch.Budget{MaxNodes: 24, MaxEdges: 64, MaxGraphs: 4}
	cfg.Padding.Nodes = quantize.Bounds{Min: 1, Max: 25}
	cfg.Padding.Edges = quantize.Bounds{Min: 1, Max: 64}
	cfg.Padding.Graphs = quantize.Bounds{Min: 1, Max: 5}

	return cfg
}
