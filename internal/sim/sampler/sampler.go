// Package sampler provides the distribution-sampling primitives used by
// the entity generators. Every function is a pure function of its
// arguments and the supplied random source, so a fixed seed reproduces
// identical draws.
package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrInvalidDistribution is returned for malformed sampling specs:
// empty option lists, negative weights, or a non-positive weight total.
var ErrInvalidDistribution = errors.New("invalid distribution")

// Weighted pairs an outcome with its selection weight. Weights need not
// sum to 1; they are normalized internally.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// WeightedChoice draws one outcome from a weighted categorical
// distribution. Options are a slice, not a map, so draw order is stable.
func WeightedChoice[T any](rng *rand.Rand, options []Weighted[T]) (T, error) {
	var zero T
	if err := ValidateWeights(options); err != nil {
		return zero, err
	}

	var total float64
	for _, o := range options {
		total += o.Weight
	}

	r := rng.Float64() * total
	for _, o := range options {
		r -= o.Weight
		if r < 0 {
			return o.Value, nil
		}
	}
	// Float underflow can leave r at exactly zero; the last option with
	// positive weight wins.
	for i := len(options) - 1; i >= 0; i-- {
		if options[i].Weight > 0 {
			return options[i].Value, nil
		}
	}
	return zero, fmt.Errorf("%w: no selectable option", ErrInvalidDistribution)
}

// ValidateWeights checks a weighted option list without drawing from it.
func ValidateWeights[T any](options []Weighted[T]) error {
	if len(options) == 0 {
		return fmt.Errorf("%w: no options", ErrInvalidDistribution)
	}
	var total float64
	for _, o := range options {
		if o.Weight < 0 {
			return fmt.Errorf("%w: negative weight %v", ErrInvalidDistribution, o.Weight)
		}
		total += o.Weight
	}
	if total <= 0 {
		return fmt.Errorf("%w: total weight must be positive", ErrInvalidDistribution)
	}
	return nil
}

// Bucket is one range of a bucketed numeric distribution, e.g. team
// size 3-7 at weight 40.
type Bucket struct {
	Min    int
	Max    int
	Weight float64
}

// BucketedInt picks a bucket by weight, then a uniform integer within
// it (bounds inclusive).
func BucketedInt(rng *rand.Rand, buckets []Bucket) (int, error) {
	options := make([]Weighted[Bucket], len(buckets))
	for i, b := range buckets {
		if b.Max < b.Min {
			return 0, fmt.Errorf("%w: bucket max %d below min %d", ErrInvalidDistribution, b.Max, b.Min)
		}
		options[i] = Weighted[Bucket]{Value: b, Weight: b.Weight}
	}
	b, err := WeightedChoice(rng, options)
	if err != nil {
		return 0, err
	}
	return IntBetween(rng, b.Min, b.Max), nil
}

// Bool draws true with probability p.
func Bool(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// IntBetween draws a uniform integer in [min, max].
func IntBetween(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

// Float64Between draws a uniform float in [min, max).
func Float64Between(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// Subset draws up to n distinct items, in shuffled order.
func Subset[T any](rng *rand.Rand, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, 0, n)
	for _, i := range rng.Perm(len(items))[:n] {
		out = append(out, items[i])
	}
	return out
}

// LogNormalDays draws a log-normal day count clamped to [min, max].
// Used for task cycle times.
func LogNormalDays(rng *rand.Rand, mu, sigma float64, min, max int) int {
	d := int(math.Exp(rng.NormFloat64()*sigma + mu))
	if d < min {
		d = min
	}
	if d > max {
		d = max
	}
	return d
}

// ExpDays draws from an exponential distribution with the given rate
// (events per day), returning a fractional day offset.
func ExpDays(rng *rand.Rand, rate float64) float64 {
	return rng.ExpFloat64() / rate
}
