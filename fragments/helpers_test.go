package fragments_test

import (
	"testing"

	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/stretchr/testify/require"
)

// Species indices follow the table [1, 6, 7, 8, 9]: H=0, C=1.
const (
	speciesH      = 0
	speciesC      = 1
	nSpecies      = 5
	propaneCutoff = 2.0 // Å, radius mode
)

// propane returns C3H8 with carbons first.
func propane() []molgraph.Atom {
	pos := [][3]float64{
		{-1.27, -0.26, 0}, {0, 0.59, 0}, {1.27, -0.26, 0},
		{-2.16, 0.37, 0}, {-1.30, -0.90, 0.89}, {-1.30, -0.90, -0.89},
		{0, 1.24, 0.88}, {0, 1.24, -0.88},
		{2.16, 0.37, 0}, {1.30, -0.90, 0.89}, {1.30, -0.90, -0.89},
	}
	atoms := make([]molgraph.Atom, len(pos))
	for i, p := range pos {
		s := speciesH
		if i < 3 {
			s = speciesC
		}
		atoms[i] = molgraph.Atom{Position: p, Species: s}
	}

	return atoms
}

// line returns n atoms of one species spaced 1Å apart on x.
func line(n, species int) []molgraph.Atom {
	atoms := make([]molgraph.Atom, n)
	for i := range atoms {
		atoms[i] = molgraph.Atom{Position: [3]float64{float64(i), 0, 0}, Species: species}
	}

	return atoms
}

func mustBuild(t testing.TB, atoms []molgraph.Atom, mode molgraph.Mode, threshold float64) *molgraph.MoleculeGraph {
	t.Helper()
	g, err := molgraph.Build(atoms, mode, threshold)
	require.NoError(t, err)

	return g
}
