package molgraph

import "fmt"

// hydrogenZ is the atomic number treated as hydrogen-class.
const hydrogenZ = 1

// SpeciesTable maps raw atomic numbers to compact species indices.
// Index i of the table holds atomic number Z[i]; e.g. [1, 6, 7, 8, 9]
// maps H→0, C→1, N→2, O→3, F→4.
type SpeciesTable struct {
	numbers []int
	index   map[int]int
}

// NewSpeciesTable builds a table from an ordered list of atomic numbers.
// Returns ErrEmptySpeciesTable, ErrDuplicateSpecies or ErrInvalidSpecies.
func NewSpeciesTable(atomicNumbers []int) (*SpeciesTable, error) {
	if len(atomicNumbers) == 0 {
		return nil, ErrEmptySpeciesTable
	}
	t := &SpeciesTable{
		numbers: make([]int, len(atomicNumbers)),
		index:   make(map[int]int, len(atomicNumbers)),
	}
	for i, z := range atomicNumbers {
		if z < 1 {
			return nil, fmt.Errorf("NewSpeciesTable: atomic number %d: %w", z, ErrInvalidSpecies)
		}
		if _, dup := t.index[z]; dup {
			return nil, fmt.Errorf("NewSpeciesTable: atomic number %d: %w", z, ErrDuplicateSpecies)
		}
		t.numbers[i] = z
		t.index[z] = i
	}

	return t, nil
}

// Len returns the number of species.
func (t *SpeciesTable) Len() int { return len(t.numbers) }

// Index returns the compact species of atomic number z.
func (t *SpeciesTable) Index(z int) (int, error) {
	i, ok := t.index[z]
	if !ok {
		return 0, fmt.Errorf("atomic number %d: %w", z, ErrUnknownSpecies)
	}

	return i, nil
}

// AtomicNumber returns the atomic number of species i, or 0 when out of range.
func (t *SpeciesTable) AtomicNumber(i int) int {
	if i < 0 || i >= len(t.numbers) {
		return 0
	}

	return t.numbers[i]
}

// Hydrogen reports whether species i is hydrogen-class.
func (t *SpeciesTable) Hydrogen(i int) bool { return t.AtomicNumber(i) == hydrogenZ }

// HydrogenIndices lists the hydrogen-class species indices.
func (t *SpeciesTable) HydrogenIndices() []int {
	var out []int
	for i, z := range t.numbers {
		if z == hydrogenZ {
			out = append(out, i)
		}
	}

	return out
}

// Atoms converts m into atoms with compact species.
func (t *SpeciesTable) Atoms(m Molecule) ([]Atom, error) {
	if len(m.Positions) != len(m.AtomicNumbers) {
		return nil, fmt.Errorf("molecule %q: %d positions, %d atomic numbers: %w",
			m.Name, len(m.Positions), len(m.AtomicNumbers), ErrShapeMismatch)
	}
	atoms := make([]Atom, len(m.AtomicNumbers))
	for i, z := range m.AtomicNumbers {
		s, err := t.Index(z)
		if err != nil {
			return nil, fmt.Errorf("molecule %q atom %d: %w", m.Name, i, err)
		}
		atoms[i] = Atom{Position: m.Positions[i], Species: s}
	}

	return atoms, nil
}
