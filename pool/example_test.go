package pool_test

import (
	"fmt"

	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/katalvlaran/molfrag/pool"
	"github.com/katalvlaran/molfrag/rng"
)

// ExampleSampler pulls a few fragments from a pool fed by one molecule.
func ExampleSampler() {
	atoms := []molgraph.Atom{
		{Position: [3]float64{0, 0, 0}, Species: 1},
		{Position: [3]float64{1.2, 0, 0}, Species: 1},
	}
	g, _ := molgraph.Build(atoms, molgraph.ModeRadius, 1.5)

	s, _ := pool.NewSampler(rng.New(0), []*molgraph.MoleculeGraph{g}, 5, 6)
	total := 0
	for i := 0; i < 30; i++ {
		f, err := s.Next()
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		total += f.NumNodes()
	}
	fmt.Println("pool occupancy stays near target:", s.Len() >= 5)
	fmt.Println("fragments carry 1 or 2 atoms:", total >= 30 && total <= 60)

	// Output:
	// pool occupancy stays near target: true
	// fragments carry 1 or 2 atoms: true
}
