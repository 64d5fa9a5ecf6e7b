package molgraph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for graph construction and species lookup.
var (
	// ErrNoAtoms indicates Build was called with an empty atom slice.
	ErrNoAtoms = errors.New("molgraph: no atoms")

	// ErrInvalidThreshold indicates a non-positive cutoff (radius mode),
	// a negative tolerance (nearest mode), or a NaN threshold.
	ErrInvalidThreshold = errors.New("molgraph: invalid cutoff or tolerance")

	// ErrUnknownMode indicates an unsupported neighbor mode.
	ErrUnknownMode = errors.New("molgraph: unknown neighbor mode")

	// ErrInvalidPosition indicates a NaN or infinite coordinate.
	ErrInvalidPosition = errors.New("molgraph: invalid atom position")

	// ErrInvalidSpecies indicates a negative species index.
	ErrInvalidSpecies = errors.New("molgraph: invalid species index")

	// ErrUnknownSpecies indicates an atomic number missing from the species table.
	ErrUnknownSpecies = errors.New("molgraph: atomic number not in species table")

	// ErrDuplicateSpecies indicates an atomic number listed twice in a species table.
	ErrDuplicateSpecies = errors.New("molgraph: duplicate atomic number in species table")

	// ErrEmptySpeciesTable indicates a species table without entries.
	ErrEmptySpeciesTable = errors.New("molgraph: empty species table")

	// ErrShapeMismatch indicates a Molecule whose positions and atomic numbers differ in length.
	ErrShapeMismatch = errors.New("molgraph: positions and atomic numbers differ in length")
)

// Atom is one atom of a molecule: a position in Ångström and a compact species index.
type Atom struct {
	Position [3]float64
	Species  int
}

// Edge is an undirected connection between node indices I < J.
type Edge struct {
	I, J int
}

// Molecule is a raw input structure as read from disk,
// before atomic numbers are mapped to compact species.
type Molecule struct {
	Name          string
	AtomicNumbers []int
	Positions     [][3]float64
}

// Len returns the number of atoms.
func (m Molecule) Len() int { return len(m.AtomicNumbers) }

// Mode selects how Build infers candidate bonds.
type Mode int

const (
	// ModeRadius connects every pair of atoms within a cutoff distance.
	ModeRadius Mode = iota
	// ModeNearest connects each atom to all atoms within a tolerance of its
	// nearest-neighbor distance.
	ModeNearest
)

// String returns the configuration name of the mode ("radius" or "nn").
func (m Mode) String() string {
	switch m {
	case ModeRadius:
		return "radius"
	case ModeNearest:
		return "nn"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "radius" and "nn" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "radius":
		return ModeRadius, nil
	case "nn", "nearest":
		return ModeNearest, nil
	default:
		return 0, fmt.Errorf("ParseMode(%q): %w", s, ErrUnknownMode)
	}
}

// MoleculeGraph is an immutable neighbor graph over a molecule's atoms.
// atoms[i] is node i; edges are unique, I < J, sorted; adj[i] is sorted ascending.
type MoleculeGraph struct {
	atoms []Atom
	edges []Edge
	adj   [][]int
}
