package fragments

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/molfrag/molgraph"
)

// Sentinel errors for trajectory generation.
var (
	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("fragments: graph is nil")

	// ErrEmptyMolecule is returned for a graph without atoms.
	ErrEmptyMolecule = errors.New("fragments: molecule has no atoms")

	// ErrInvalidSpeciesCount is returned when nSpecies < 1.
	ErrInvalidSpeciesCount = errors.New("fragments: species count must be positive")

	// ErrSpeciesOutOfRange is returned when an atom's species is >= nSpecies.
	ErrSpeciesOutOfRange = errors.New("fragments: atom species out of range")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("fragments: invalid option supplied")

	// ErrEmptyGraph indicates unvisited atoms remain but the neighbor graph has
	// no edges at all (cutoff too small).
	ErrEmptyGraph = errors.New("fragments: neighbor graph has no edges")

	// ErrDisconnectedGraph indicates unvisited atoms remain that cannot be
	// reached from the visited set.
	ErrDisconnectedGraph = errors.New("fragments: neighbor graph is disconnected")

	// ErrInvalidTrajectory is returned by Verify for a trajectory that does
	// not rebuild its molecule.
	ErrInvalidTrajectory = errors.New("fragments: invalid trajectory")
)

// NoSpecies marks an absent target species (stop and completed fragments).
const NoSpecies = -1

// Fragment is one partial-construction snapshot with next-step labels.
type Fragment struct {
	// Nodes are the molecule indices of visited atoms, in reveal order.
	Nodes []int
	// Atoms are the visited atoms in reveal order; Atoms[s] is node Nodes[s].
	Atoms []molgraph.Atom
	// Edges are the induced edges among visited atoms over local slots, I < J.
	Edges []molgraph.Edge
	// Focus is, per visited slot, the probability of being the expansion point.
	Focus []float64
	// SpeciesProbability[s][k] is the probability that slot s is the focus and
	// the next atom has species k. Row s sums to Focus[s].
	SpeciesProbability [][]float64
	// FocusSlot is the slot of the sampled focus atom, or -1.
	FocusSlot int
	// TargetNode is the molecule index of the next atom, or -1.
	TargetNode int
	// TargetSpecies is the species of the next atom, or NoSpecies.
	TargetSpecies int
	// TargetPosition is the next atom's position relative to the focus atom.
	TargetPosition [3]float64
	// Stop is set on the final fragment of a trajectory only.
	Stop bool
}

// NumNodes returns the number of visited atoms.
func (f Fragment) NumNodes() int { return len(f.Atoms) }

// NumEdges returns the number of induced undirected edges.
func (f Fragment) NumEdges() int { return len(f.Edges) }

// HasTarget reports whether the fragment names a next atom.
func (f Fragment) HasTarget() bool { return f.TargetSpecies != NoSpecies }

// MoleculeEdges returns the induced edges in molecule index space,
// canonical (I < J) and sorted.
func (f Fragment) MoleculeEdges() []molgraph.Edge {
	out := make([]molgraph.Edge, len(f.Edges))
	for k, e := range f.Edges {
		i, j := f.Nodes[e.I], f.Nodes[e.J]
		if i > j {
			i, j = j, i
		}
		out[k] = molgraph.Edge{I: i, J: j}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})

	return out
}

// Option configures generation via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation by
// NewGenerator and Generate.
type Option func(*Options)

// Options holds the traversal parameters.
type Options struct {
	// Epsilon is the nearest-neighbor tolerance in Ångström applied to
	// frontier edge lengths. +Inf keeps the whole frontier.
	Epsilon float64

	// HeavyFirst reveals every heavy atom before any hydrogen-class atom.
	HeavyFirst bool

	// BetaCOM is the inverse temperature of the start-atom distribution
	// around the centroid. 0 means uniform.
	BetaCOM float64

	// Hydrogen lists the hydrogen-class species indices.
	Hydrogen []int

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with:
//   - Epsilon 0.1 Å
//   - HeavyFirst false
//   - BetaCOM 0 (uniform start)
//   - Hydrogen {0}, matching species tables that list H first.
func DefaultOptions() Options {
	return Options{
		Epsilon:  0.1,
		Hydrogen: []int{0},
	}
}

// WithEpsilon sets the frontier tolerance.
//
//	eps >= 0 (or +Inf): accepted
//	eps < 0 or NaN: ErrOptionViolation
func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		if eps < 0 || math.IsNaN(eps) {
			o.err = fmt.Errorf("%w: epsilon must be >= 0 (%v)", ErrOptionViolation, eps)
			return
		}
		o.Epsilon = eps
	}
}

// WithHeavyFirst toggles heavy-atoms-first ordering.
func WithHeavyFirst(on bool) Option {
	return func(o *Options) { o.HeavyFirst = on }
}

// WithBetaCOM sets the start-atom inverse temperature; beta must be finite and >= 0.
func WithBetaCOM(beta float64) Option {
	return func(o *Options) {
		if beta < 0 || math.IsNaN(beta) || math.IsInf(beta, 0) {
			o.err = fmt.Errorf("%w: beta_com must be finite and >= 0 (%v)", ErrOptionViolation, beta)
			return
		}
		o.BetaCOM = beta
	}
}

// WithHydrogenSpecies replaces the hydrogen-class species list.
// Negative indices are a violation; an empty list makes every atom heavy.
func WithHydrogenSpecies(species ...int) Option {
	return func(o *Options) {
		for _, s := range species {
			if s < 0 {
				o.err = fmt.Errorf("%w: hydrogen species %d is negative", ErrOptionViolation, s)
				return
			}
		}
		o.Hydrogen = append([]int(nil), species...)
	}
}

// Apply folds opts over DefaultOptions and returns any recorded violation.
func Apply(opts ...Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o, o.err
}
