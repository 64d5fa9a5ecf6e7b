package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/molfrag/batch"
	"github.com/katalvlaran/molfrag/fragments"
	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/katalvlaran/molfrag/padding"
	"github.com/katalvlaran/molfrag/pool"
	"github.com/katalvlaran/molfrag/rng"
)

// Option configures a Loader or Run.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
	key    *rng.Key
	shapes *ShapeTracker
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithKey overrides the key derived from Config.Seed.
func WithKey(k rng.Key) Option {
	return func(s *settings) { s.key = &k }
}

// WithShapeTracker records output shapes into t instead of a private tracker.
func WithShapeTracker(t *ShapeTracker) Option {
	return func(s *settings) {
		if t != nil {
			s.shapes = t
		}
	}
}

func apply(opts []Option) settings {
	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.shapes == nil {
		s.shapes = NewShapeTracker()
	}

	return s
}

// Loader produces an unbounded stream of padded batches. It is not safe for
// concurrent use; run one Loader per goroutine.
type Loader struct {
	logger  *slog.Logger
	shapes  *ShapeTracker
	padCfg  padding.Config
	sampler *pool.Sampler
	batcher *batch.Batcher
	batches int
}

// NewLoader validates cfg, builds the molecule graphs and wires
// sampler → batcher → padder. Returns ErrInvalidConfig, ErrNoGraphs or the
// first molecule error when SkipInvalid is off.
func NewLoader(cfg Config, molecules []molgraph.Molecule, opts ...Option) (*Loader, error) {
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := apply(opts)
	ds, err := prepare(cfg, molecules, s.logger)
	if err != nil {
		return nil, err
	}
	key := rng.New(cfg.Seed)
	if s.key != nil {
		key = *s.key
	}

	return newLoader(cfg, ds, key, s)
}

func newLoader(cfg Config, ds *dataset, key rng.Key, s settings) (*Loader, error) {
	logger := s.logger
	sampler, err := pool.NewSampler(key, ds.graphs, ds.table.Len(), cfg.PoolSize,
		pool.WithFragmentOptions(cfg.fragmentOptions(ds.table)...),
		pool.WithSkipInvalid(cfg.SkipInvalid),
		pool.WithLogger(logger),
		pool.WithOnSkip(func(int, error) { skippedMolecules.Inc() }),
	)
	if err != nil {
		return nil, err
	}
	batcher, err := batch.New(sampler, cfg.Budget)
	if err != nil {
		return nil, err
	}
	logger.Info("loader ready",
		"molecules", len(ds.graphs),
		"species", cfg.Species,
		"pool", cfg.PoolSize,
		"budget", fmt.Sprintf("%d/%d/%d", cfg.Budget.MaxNodes, cfg.Budget.MaxEdges, cfg.Budget.MaxGraphs),
		"key", key.String(),
	)

	return &Loader{
		logger:  logger,
		shapes:  s.shapes,
		padCfg:  cfg.Padding,
		sampler: sampler,
		batcher: batcher,
	}, nil
}

// Next returns the next padded batch.
func (l *Loader) Next() (*padding.PaddedBatch, error) {
	b, err := l.batcher.Next()
	if err != nil {
		return nil, err
	}
	p, err := padding.Pad(b, l.padCfg)
	if err != nil {
		return nil, err
	}
	l.batches++
	l.observe(p)

	return p, nil
}

// Batches returns the number of batches emitted so far.
func (l *Loader) Batches() int { return l.batches }

// Shapes returns the tracker recording this loader's output shapes.
func (l *Loader) Shapes() *ShapeTracker { return l.shapes }

func (l *Loader) observe(p *padding.PaddedBatch) {
	shape, used := p.Shape(), p.Real()
	fragmentsEmitted.Add(float64(used.Graphs))
	batchesEmitted.Inc()
	paddingWaste.Observe(p.NodeWaste())
	if l.shapes.Observe(shape) {
		distinctShapes.Set(float64(l.shapes.Len()))
	}
	l.logger.Debug("batch",
		"n", l.batches,
		"shape", shape.String(),
		"nodes", used.Nodes,
		"edges", used.Edges,
		"graphs", used.Graphs,
		"pool", l.sampler.Len(),
	)
}

// Trajectory builds the graph of molecule m under cfg and returns its full
// fragment trajectory for key.
func Trajectory(cfg Config, m molgraph.Molecule, key rng.Key) ([]fragments.Fragment, error) {
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	table, err := molgraph.NewSpeciesTable(cfg.Species)
	if err != nil {
		return nil, err
	}
	mode, threshold, err := cfg.Graph.Threshold()
	if err != nil {
		return nil, err
	}
	g, err := buildGraph(table, m, mode, threshold)
	if err != nil {
		return nil, err
	}

	return fragments.Generate(key, g, table.Len(), cfg.fragmentOptions(table)...)
}
