package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/molfrag/batch"
	"github.com/katalvlaran/molfrag/fragments"
	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/katalvlaran/molfrag/padding"
	"github.com/katalvlaran/molfrag/quantize"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("pipeline: invalid config")

// GraphConfig selects how neighbor graphs are built.
type GraphConfig struct {
	// Mode is "radius" or "nn".
	Mode string `yaml:"mode"`
	// Cutoff is the radius-mode distance cutoff in Ångström.
	Cutoff float64 `yaml:"cutoff"`
	// Tolerance is the nn-mode tolerance in Ångström.
	Tolerance float64 `yaml:"tolerance"`
}

// Threshold returns the parsed mode and its threshold.
func (g GraphConfig) Threshold() (molgraph.Mode, float64, error) {
	mode, err := molgraph.ParseMode(g.Mode)
	if err != nil {
		return 0, 0, err
	}
	if mode == molgraph.ModeNearest {
		return mode, g.Tolerance, nil
	}

	return mode, g.Cutoff, nil
}

// FragmentConfig holds trajectory generation parameters.
type FragmentConfig struct {
	Epsilon    float64 `yaml:"epsilon"`
	HeavyFirst bool    `yaml:"heavy_first"`
	BetaCOM    float64 `yaml:"beta_com"`
}

// Config is the full loader configuration.
type Config struct {
	Seed        uint64         `yaml:"seed"`
	Species     []int          `yaml:"species"` // atomic numbers, index = species
	Graph       GraphConfig    `yaml:"graph"`
	Fragments   FragmentConfig `yaml:"fragments"`
	PoolSize    int            `yaml:"pool_size"`
	Budget      batch.Budget   `yaml:"budget"`
	Padding     padding.Config `yaml:"padding"`
	Workers     int            `yaml:"workers"`
	SkipInvalid bool           `yaml:"skip_invalid"`
}

// DefaultConfig returns the QM9 setup: species H, C, N, O, F; radius graphs
// with a 5 Å cutoff; epsilon 0.1 Å; pool of 1024 fragments; batches of at
// most 128 nodes, 1024 edges and 16 graphs; one mantissa bit. The graph
// dimension is pinned at 17 so every padded batch has the same graph count.
func DefaultConfig() Config {
	return Config{
		Species: []int{1, 6, 7, 8, 9},
		Graph: GraphConfig{
			Mode:      molgraph.ModeRadius.String(),
			Cutoff:    5.0,
			Tolerance: 0.1,
		},
		Fragments: FragmentConfig{Epsilon: 0.1},
		PoolSize:  1024,
		Budget:    batch.Budget{MaxNodes: 128, MaxEdges: 1024, MaxGraphs: 16},
		Padding: padding.Config{
			MantissaBits: 1,
			Nodes:        quantize.Bounds{Min: 1, Max: 129},
			Edges:        quantize.Bounds{Min: 1, Max: 1024},
			Graphs:       quantize.Bounds{Min: 17, Max: 17},
		},
		Workers: 1,
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("pipeline: read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig, fills zero bound maxima and
// validates the result. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Marshal renders cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// normalized fills zero bound maxima with the smallest value that admits a
// full batch, and a zero worker count with 1.
func (c Config) normalized() Config {
	if c.Padding.Nodes.Max == 0 {
		c.Padding.Nodes.Max = max(c.Budget.MaxNodes+1, c.Padding.Nodes.Min)
	}
	if c.Padding.Edges.Max == 0 {
		c.Padding.Edges.Max = max(c.Budget.MaxEdges, c.Padding.Edges.Min)
	}
	if c.Padding.Graphs.Max == 0 {
		c.Padding.Graphs.Max = max(c.Budget.MaxGraphs+1, c.Padding.Graphs.Min)
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	c.Padding.NumSpecies = len(c.Species)

	return c
}

// Validate checks every section. Failures wrap ErrInvalidConfig and the
// underlying package error.
func (c Config) Validate() error {
	c = c.normalized()
	invalid := func(what string, err error) error {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, what, err)
	}

	if _, err := molgraph.NewSpeciesTable(c.Species); err != nil {
		return invalid("species", err)
	}
	mode, threshold, err := c.Graph.Threshold()
	if err != nil {
		return invalid("graph", err)
	}
	if (mode == molgraph.ModeRadius && !(threshold > 0)) || (mode == molgraph.ModeNearest && !(threshold >= 0)) {
		return invalid("graph", fmt.Errorf("%s threshold %g: %w", mode, threshold, molgraph.ErrInvalidThreshold))
	}
	if _, err := fragments.Apply(c.fragmentOptions(nil)...); err != nil {
		return invalid("fragments", err)
	}
	if c.PoolSize < 1 {
		return invalid("pool_size", fmt.Errorf("%d must be positive", c.PoolSize))
	}
	if c.Workers < 1 {
		return invalid("workers", fmt.Errorf("%d must be positive", c.Workers))
	}
	if err := c.Budget.Validate(); err != nil {
		return invalid("budget", err)
	}
	if err := c.Padding.Validate(); err != nil {
		return invalid("padding", err)
	}
	p, b := c.Padding, c.Budget
	switch {
	case p.Nodes.Max < b.MaxNodes+1:
		return invalid("padding", fmt.Errorf("nodes.max %d < budget max_nodes+1 = %d", p.Nodes.Max, b.MaxNodes+1))
	case p.Edges.Max < b.MaxEdges:
		return invalid("padding", fmt.Errorf("edges.max %d < budget max_edges = %d", p.Edges.Max, b.MaxEdges))
	case p.Graphs.Max < b.MaxGraphs+1:
		return invalid("padding", fmt.Errorf("graphs.max %d < budget max_graphs+1 = %d", p.Graphs.Max, b.MaxGraphs+1))
	}

	return nil
}

// fragmentOptions maps the fragment section to generator options. With a
// table, its hydrogen-class species replace the generator default.
func (c Config) fragmentOptions(table *molgraph.SpeciesTable) []fragments.Option {
	opts := []fragments.Option{
		fragments.WithEpsilon(c.Fragments.Epsilon),
		fragments.WithHeavyFirst(c.Fragments.HeavyFirst),
		fragments.WithBetaCOM(c.Fragments.BetaCOM),
	}
	if table != nil {
		opts = append(opts, fragments.WithHydrogenSpecies(table.HydrogenIndices()...))
	}

	return opts
}
