// Package batch packs a fragment stream into batches under a node, edge and
// graph budget.
//
// The Batcher admits fragments greedily, in arrival order. When admitting
// the next fragment would overflow any of the three budgets, the pending
// batch is emitted and the fragment opens the next one. A fragment that
// exceeds a budget on its own can never be placed and is reported as
// ErrFragmentTooLarge: fragments are atomic and are never split.
//
// A Source signals closure with io.EOF; the Batcher then flushes its
// pending batch and returns io.EOF itself. Infinite sources (the shuffle
// pool) never close, and the Batcher keeps producing batches for as long as
// it is pulled.
package batch
