// SPDX-License-Identifier: MIT
// Package: molfrag/quantize
//
// quantize.go - mantissa rounding and clamping.

package quantize

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrInvalidBounds indicates Min > Max, a negative Min, or negative mantissa bits.
var ErrInvalidBounds = errors.New("quantize: invalid bounds")

// Bounds is a closed clamp interval [Min, Max].
type Bounds struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Validate reports ErrInvalidBounds for Min < 0 or Min > Max.
func (b Bounds) Validate() error {
	if b.Min < 0 || b.Min > b.Max {
		return fmt.Errorf("bounds [%d,%d]: %w", b.Min, b.Max, ErrInvalidBounds)
	}

	return nil
}

// Clamp limits v to [Min, Max].
func (b Bounds) Clamp(v int) int {
	return min(max(v, b.Min), b.Max)
}

// Apply is Quantize(v, mantissaBits, b.Min, b.Max).
func (b Bounds) Apply(v, mantissaBits int) int {
	return Quantize(v, mantissaBits, b.Min, b.Max)
}

// CeilMantissa returns the smallest q >= v whose binary representation has
// at most mantissaBits+1 significant bits, i.e. q = m·2^k with m < 2^(mantissaBits+1).
// Values v <= 0 are returned unchanged; negative mantissaBits behave as 0.
// Results that would exceed math.MaxInt saturate to math.MaxInt.
//
// Examples (mantissaBits = 1): 7 → 8, 9 → 12, 12 → 12, 13 → 16.
// Complexity: O(1).
func CeilMantissa(v, mantissaBits int) int {
	if v <= 0 {
		return v
	}
	if mantissaBits < 0 {
		mantissaBits = 0
	}
	keep := mantissaBits + 1
	width := bits.Len(uint(v))
	if width <= keep {
		// already representable with keep significant bits
		return v
	}
	shift := uint(width - keep)
	// ceil(v / 2^shift) · 2^shift; a carry into bit keep yields a power of two,
	// which is still representable. Unsigned so the carry past bit 62 is visible.
	m := (uint(v) + (1 << shift) - 1) >> shift
	q := m << shift
	if q > math.MaxInt {
		return math.MaxInt
	}

	return int(q)
}

// Quantize rounds v with CeilMantissa and clamps the result into
// [CeilMantissa(lower), upper]. Rounding lower keeps Quantize idempotent
// when lower itself is not representable.
func Quantize(v, mantissaBits, lower, upper int) int {
	q := CeilMantissa(v, mantissaBits)

	return min(max(q, CeilMantissa(lower, mantissaBits)), upper)
}
