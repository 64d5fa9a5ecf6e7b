// Package pool implements the shuffle-pool sampler: an infinite, pull-based
// stream of fragments drawn from many molecules' trajectories.
//
// The sampler keeps a bounded pool of not-yet-emitted fragments. Whenever the
// pool holds fewer than its target size, it draws a molecule uniformly at
// random (with replacement), generates that molecule's full trajectory and
// appends every fragment in order. Each pull then removes one uniformly
// random fragment. Neighboring fragments of one trajectory are thereby
// decorrelated, and fragments of different molecules are interleaved.
//
// The stream never ends; callers stop pulling to cancel. A Sampler owns its
// key and its pool and holds no external resources.
package pool
