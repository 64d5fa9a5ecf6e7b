package rng

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// Sentinel errors for key-consuming draws.
var (
	// ErrInvalidRange is returned by Intn when n <= 0.
	ErrInvalidRange = errors.New("rng: range must be positive")

	// ErrInvalidWeights is returned by Categorical when weights are empty,
	// negative, non-finite, or sum to zero.
	ErrInvalidWeights = errors.New("rng: invalid categorical weights")
)

// golden is the splitmix64 increment (2^64 / phi).
const golden = 0x9e3779b97f4a7c15

// Key names one deterministic random stream.
type Key struct {
	hi, lo uint64
}

// New returns the root key for seed.
func New(seed uint64) Key {
	return Key{hi: mix(seed), lo: mix(seed + golden)}
}

// String renders the key as 32 hex digits, for logs.
func (k Key) String() string {
	return fmt.Sprintf("%016x%016x", k.hi, k.lo)
}

// source builds the PCG generator owned by a single draw or split.
func (k Key) source() *rand.Rand {
	return rand.New(rand.NewPCG(k.hi, k.lo))
}

// Split derives two independent keys from k.
func Split(k Key) (Key, Key) {
	r := k.source()
	a := Key{hi: mix(r.Uint64()), lo: mix(r.Uint64())}
	b := Key{hi: mix(r.Uint64()), lo: mix(r.Uint64())}

	return a, b
}

// SplitN derives n independent keys from k. n <= 0 yields nil.
func SplitN(k Key, n int) []Key {
	if n <= 0 {
		return nil
	}
	r := k.source()
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = Key{hi: mix(r.Uint64()), lo: mix(r.Uint64())}
	}

	return keys
}

// Intn draws a uniform integer in [0, n).
func Intn(k Key, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("Intn(%d): %w", n, ErrInvalidRange)
	}

	return k.source().IntN(n), nil
}

// Float64 draws a uniform float in [0, 1).
func Float64(k Key) float64 {
	return k.source().Float64()
}

// Categorical draws index i with probability weights[i] / Σweights.
// Zero-weight entries are never selected.
func Categorical(k Key, weights []float64) (int, error) {
	var total float64
	last := -1
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return 0, fmt.Errorf("Categorical: weight[%d]=%v: %w", i, w, ErrInvalidWeights)
		}
		if w > 0 {
			last = i
		}
		total += w
	}
	if last < 0 {
		return 0, fmt.Errorf("Categorical: %d weights with zero mass: %w", len(weights), ErrInvalidWeights)
	}

	u := Float64(k) * total
	var acc float64
	for i, w := range weights {
		if w == 0 {
			continue
		}
		acc += w
		if u < acc {
			return i, nil
		}
	}
	// rounding can leave u == total; the last positive entry owns that edge.
	return last, nil
}

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z += golden
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return z ^ (z >> 31)
}
