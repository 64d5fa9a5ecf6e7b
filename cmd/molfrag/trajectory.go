package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/molfrag/fragments"
	"github.com/katalvlaran/molfrag/pipeline"
	"github.com/katalvlaran/molfrag/rng"
)

// fragmentLine is the JSON form of one fragment. Edges use molecule indices.
type fragmentLine struct {
	Molecule       string     `json:"molecule"`
	Step           int        `json:"step"`
	Nodes          []int      `json:"nodes"`
	Edges          [][2]int   `json:"edges"`
	Focus          []float64  `json:"focus"`
	FocusNode      int        `json:"focus_node"`
	TargetSpecies  int        `json:"target_species"`
	TargetPosition [3]float64 `json:"target_position"`
	Stop           bool       `json:"stop"`
}

func newTrajectoryCmd(g *globals) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "trajectory FILE",
		Short: "Print the fragment trajectory of one molecule as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			mols, err := readMolecules(args)
			if err != nil {
				return err
			}
			if index < 0 || index >= len(mols) {
				return fmt.Errorf("--index %d: file has %d molecules", index, len(mols))
			}

			m := mols[index]
			traj, err := pipeline.Trajectory(cfg, m, rng.New(cfg.Seed))
			if err != nil {
				return fmt.Errorf("molecule %d (%s): %w", index, m.Name, err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for step, f := range traj {
				if err := enc.Encode(toLine(m.Name, step, f)); err != nil {
					return err
				}
			}

			return nil
		},
	}
	cmd.Flags().IntVarP(&index, "index", "i", 0, "molecule index within the file")

	return cmd
}

func toLine(name string, step int, f fragments.Fragment) fragmentLine {
	line := fragmentLine{
		Molecule:       name,
		Step:           step,
		Nodes:          f.Nodes,
		Edges:          make([][2]int, 0, f.NumEdges()),
		Focus:          f.Focus,
		FocusNode:      -1,
		TargetSpecies:  f.TargetSpecies,
		TargetPosition: f.TargetPosition,
		Stop:           f.Stop,
	}
	for _, e := range f.MoleculeEdges() {
		line.Edges = append(line.Edges, [2]int{e.I, e.J})
	}
	if f.FocusSlot >= 0 {
		line.FocusNode = f.Nodes[f.FocusSlot]
	}

	return line
}
