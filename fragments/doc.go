// Package fragments generates fragment trajectories: ordered sequences of
// labeled partial-construction snapshots that rebuild a molecule atom by atom.
//
// What
//
//   - A Fragment holds the visited atoms (in reveal order), the edges induced
//     among them, a focus distribution over the visited atoms, the species and
//     focus-relative position of the next atom, and a stop flag.
//   - A trajectory for an n-atom molecule has n+1 fragments. Fragment k
//     (k < n) shows k+1 atoms; fragments 0..n-2 carry the next reveal,
//     fragment n-1 is the completed molecule without a target, and fragment n
//     repeats the full molecule with Stop set.
//   - Generator yields the trajectory lazily; Generate collects it.
//
// Traversal
//
//  1. The first atom is drawn with probability ∝ exp(-β·d²), d being the
//     distance to the centroid (heavy atoms only under heavy-first), or
//     uniformly when β = 0.
//  2. The frontier is every graph edge from a visited to an unvisited atom.
//     Under heavy-first, while heavy atoms remain unvisited, only heavy
//     targets are kept. Edges longer than the shortest frontier edge plus
//     epsilon are dropped.
//  3. With counts[i][s] = surviving frontier edges from visited slot i to
//     species s, the focus is drawn ∝ Σ_s counts[i][s], the species
//     ∝ counts[focus][s], and the target uniformly among the focus's
//     surviving neighbors of that species, in ascending index order.
//
// Errors
//
//	A frontier that empties while atoms remain unvisited is reported on the
//	pull that detects it: ErrEmptyGraph when the graph has no edges at all,
//	ErrDisconnectedGraph otherwise. Heavy-first never admits a hydrogen to
//	get past an unreachable heavy atom; that case is ErrDisconnectedGraph too.
//
// Determinism
//
//	Every draw consumes a key split from the generator's key, so a Generator
//	rebuilt from the same key replays the same trajectory.
//
// Usage
//
//	traj, err := fragments.Generate(key, g, 5,
//	    fragments.WithHeavyFirst(true),
//	    fragments.WithBetaCOM(10),
//	)
package fragments
