package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/molfrag/fragments"
	"github.com/katalvlaran/molfrag/molgraph"
)

// ErrNoGraphs indicates no molecule produced a usable graph.
var ErrNoGraphs = errors.New("pipeline: no usable molecules")

// dataset is the read-only graph set shared by every loader of a run.
type dataset struct {
	table  *molgraph.SpeciesTable
	graphs []*molgraph.MoleculeGraph
}

// prepare converts molecules and builds their graphs. With SkipInvalid a
// molecule that fails either step, or whose graph is disconnected, is logged
// and dropped. Without it connectivity errors surface from the generator.
func prepare(cfg Config, molecules []molgraph.Molecule, logger *slog.Logger) (*dataset, error) {
	table, err := molgraph.NewSpeciesTable(cfg.Species)
	if err != nil {
		return nil, fmt.Errorf("%w: species: %w", ErrInvalidConfig, err)
	}
	mode, threshold, err := cfg.Graph.Threshold()
	if err != nil {
		return nil, fmt.Errorf("%w: graph: %w", ErrInvalidConfig, err)
	}

	ds := &dataset{table: table}
	for i, m := range molecules {
		g, err := buildGraph(table, m, mode, threshold)
		if err == nil && cfg.SkipInvalid {
			err = connected(g)
		}
		if err != nil {
			err = fmt.Errorf("molecule %d: %w", i, err)
			if !cfg.SkipInvalid {
				return nil, err
			}
			skippedMolecules.Inc()
			logger.Warn("skipping molecule", "index", i, "name", m.Name, "error", err)
			continue
		}
		ds.graphs = append(ds.graphs, g)
	}
	if len(ds.graphs) == 0 {
		return nil, ErrNoGraphs
	}

	return ds, nil
}

func buildGraph(table *molgraph.SpeciesTable, m molgraph.Molecule, mode molgraph.Mode, threshold float64) (*molgraph.MoleculeGraph, error) {
	atoms, err := table.Atoms(m)
	if err != nil {
		return nil, err
	}

	return molgraph.Build(atoms, mode, threshold)
}

// connected rejects graphs the generator could not traverse from any start.
func connected(g *molgraph.MoleculeGraph) error {
	if g.Connected() {
		return nil
	}
	comps := len(g.ConnectedComponents())
	if g.NumEdges() == 0 {
		return fmt.Errorf("%d isolated atoms: %w", comps, fragments.ErrEmptyGraph)
	}

	return fmt.Errorf("%d components: %w", comps, fragments.ErrDisconnectedGraph)
}
