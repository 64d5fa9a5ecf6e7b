// Command molfrag turns XYZ molecule files into fragment trajectories and
// fixed-shape training batches.
//
//	molfrag stream --batches 10 qm9.xyz
//	molfrag trajectory --index 3 qm9.xyz
//	molfrag config > molfrag.yaml
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/katalvlaran/molfrag/pipeline"
	"github.com/katalvlaran/molfrag/xyz"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "molfrag",
		Short:         "Fragment trajectories and padded batches for atom-by-atom molecule generation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newStreamCmd(g), newTrajectoryCmd(g), newConfigCmd(g))

	return root
}

func (g *globals) config() (pipeline.Config, error) {
	if g.configPath == "" {
		return pipeline.DefaultConfig(), nil
	}

	return pipeline.LoadConfig(g.configPath)
}

func (g *globals) logger(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(g.logLevel))); err != nil {
		return nil, fmt.Errorf("--log-level %q: %w", g.logLevel, err)
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})), nil
}

// readMolecules concatenates the frames of every file.
func readMolecules(paths []string) ([]molgraph.Molecule, error) {
	var all []molgraph.Molecule
	for _, p := range paths {
		mols, err := xyz.ReadFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, mols...)
	}

	return all, nil
}
