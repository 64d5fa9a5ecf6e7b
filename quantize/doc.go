// Package quantize rounds counts up to values with bounded binary precision.
//
// A batch whose node count is rounded to the next value of the form m·2^k,
// with m restricted to bits+1 significant bits, can only take a logarithmic
// number of distinct sizes. Downstream fixed-shape computations therefore
// see a small, bounded set of shapes over an arbitrarily long run.
//
//	bits = 1:  1 2 3 4 6 8 12 16 24 32 48 64 96 128 ...
//	bits = 2:  1 2 3 4 5 6 7 8 10 12 14 16 20 24 28 32 ...
//
// Guarantees
//
//   - CeilMantissa(v, b) >= v for every v.
//   - Monotone: v1 <= v2 implies Quantize(v1) <= Quantize(v2).
//   - Idempotent: Quantize(Quantize(v)) == Quantize(v).
//
// Clamping into Bounds may break the first guarantee; callers that need
// q >= v (the padding stage) must check it themselves.
package quantize
