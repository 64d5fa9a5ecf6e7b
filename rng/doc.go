// Package rng provides splittable, deterministic random keys for the
// molfrag pipeline.
//
// What
//
//   - Key is an immutable 128-bit value naming one random stream.
//   - Split derives two fresh keys from one; SplitN derives many.
//   - Intn, Float64 and Categorical consume a key for a single draw.
//
// Why
//
//	Every stochastic choice in the pipeline takes a key and hands back fresh
//	keys instead of reading a process-wide generator. Results are therefore a
//	pure function of the initial seed, independent instances never share
//	state, and a trajectory can be regenerated from the key that produced it.
//
// Convention
//
//	A key that has been split or drawn from must not be used again:
//
//		key, k := rng.Split(key)
//		i, err := rng.Intn(k, len(items))
//
// Determinism
//
//	Draws are produced by math/rand/v2's PCG generator seeded from the key,
//	so identical keys give identical values on every platform.
package rng
