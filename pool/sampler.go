package pool

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/molfrag/fragments"
	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/katalvlaran/molfrag/rng"
)

// Sentinel errors for the sampler.
var (
	// ErrNoMolecules indicates an empty molecule list.
	ErrNoMolecules = errors.New("pool: no molecules")

	// ErrInvalidPoolSize indicates a pool size below 1.
	ErrInvalidPoolSize = errors.New("pool: pool size must be positive")

	// ErrNoUsableMolecules indicates every molecule was excluded after
	// failing trajectory generation (skip-invalid mode).
	ErrNoUsableMolecules = errors.New("pool: every molecule failed trajectory generation")
)

// Option configures a Sampler.
type Option func(*Sampler)

// WithFragmentOptions sets the options passed to fragments.Generate.
func WithFragmentOptions(opts ...fragments.Option) Option {
	return func(s *Sampler) { s.fragOpts = append([]fragments.Option(nil), opts...) }
}

// WithSkipInvalid excludes a molecule from future draws when its trajectory
// cannot be generated, instead of failing the pull.
func WithSkipInvalid(on bool) Option {
	return func(s *Sampler) { s.skipInvalid = on }
}

// WithLogger sets the logger used for skipped molecules.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOnSkip registers a callback invoked with the index of each excluded molecule.
func WithOnSkip(fn func(index int, err error)) Option {
	return func(s *Sampler) {
		if fn != nil {
			s.onSkip = fn
		}
	}
}

// Sampler is the shuffle-pool stream. It is not safe for concurrent use.
type Sampler struct {
	key      rng.Key
	graphs   []*molgraph.MoleculeGraph
	nSpecies int
	size     int

	fragOpts    []fragments.Option
	skipInvalid bool
	logger      *slog.Logger
	onSkip      func(int, error)

	pool   []fragments.Fragment
	usable []int // indices into graphs still eligible for draws
}

// NewSampler prepares a sampler over graphs with target pool size.
// Returns ErrNoMolecules, ErrInvalidPoolSize, fragments.ErrInvalidSpeciesCount,
// fragments.ErrGraphNil for a nil entry, or fragments.ErrOptionViolation.
func NewSampler(key rng.Key, graphs []*molgraph.MoleculeGraph, nSpecies, size int, opts ...Option) (*Sampler, error) {
	if len(graphs) == 0 {
		return nil, ErrNoMolecules
	}
	if size < 1 {
		return nil, fmt.Errorf("NewSampler: size=%d: %w", size, ErrInvalidPoolSize)
	}
	if nSpecies < 1 {
		return nil, fmt.Errorf("NewSampler: nSpecies=%d: %w", nSpecies, fragments.ErrInvalidSpeciesCount)
	}
	s := &Sampler{
		key:      key,
		graphs:   graphs,
		nSpecies: nSpecies,
		size:     size,
		logger:   slog.Default(),
		onSkip:   func(int, error) {},
		usable:   make([]int, len(graphs)),
	}
	for i, g := range graphs {
		if g == nil {
			return nil, fmt.Errorf("NewSampler: molecule %d: %w", i, fragments.ErrGraphNil)
		}
		s.usable[i] = i
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	// surface option violations now rather than on the first refill
	if _, err := fragments.Apply(s.fragOpts...); err != nil {
		return nil, err
	}
	s.pool = make([]fragments.Fragment, 0, size+64)

	return s, nil
}

// Len returns the number of fragments currently pooled.
func (s *Sampler) Len() int { return len(s.pool) }

// Usable returns the number of molecules still eligible for draws.
func (s *Sampler) Usable() int { return len(s.usable) }

// Next refills the pool to its target size and pops one uniformly random
// fragment. Errors from trajectory generation are returned on the pull that
// triggered the refill, unless skip-invalid mode is on.
func (s *Sampler) Next() (fragments.Fragment, error) {
	if err := s.refill(); err != nil {
		return fragments.Fragment{}, err
	}
	i, err := rng.Intn(s.split(), len(s.pool))
	if err != nil {
		return fragments.Fragment{}, err
	}
	f := s.pool[i]
	last := len(s.pool) - 1
	s.pool[i] = s.pool[last]
	s.pool[last] = fragments.Fragment{} // release references held by the tail slot
	s.pool = s.pool[:last]

	return f, nil
}

func (s *Sampler) split() rng.Key {
	var k rng.Key
	s.key, k = rng.Split(s.key)

	return k
}

// refill appends whole trajectories until the pool reaches its target size.
func (s *Sampler) refill() error {
	for len(s.pool) < s.size {
		if len(s.usable) == 0 {
			return ErrNoUsableMolecules
		}
		pick, err := rng.Intn(s.split(), len(s.usable))
		if err != nil {
			return err
		}
		idx := s.usable[pick]
		traj, err := fragments.Generate(s.split(), s.graphs[idx], s.nSpecies, s.fragOpts...)
		if err != nil {
			err = fmt.Errorf("molecule %d: %w", idx, err)
			if !s.skipInvalid {
				return err
			}
			s.exclude(pick, idx, err)
			continue
		}
		s.pool = append(s.pool, traj...)
	}

	return nil
}

// exclude removes usable[pick] while keeping the remaining order stable.
func (s *Sampler) exclude(pick, idx int, err error) {
	s.usable = append(s.usable[:pick], s.usable[pick+1:]...)
	s.logger.Warn("skipping molecule", "index", idx, "remaining", len(s.usable), "error", err)
	s.onSkip(idx, err)
}
