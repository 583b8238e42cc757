// Iterator helpers
package iterutils

import (
	"iter"
	"slices"
)

// Turns a Seq into a Seq2 where the second element is always nil
func WithoutErrors[V any](seq iter.Seq[V]) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		for v := range seq {
			if !yield(v, nil) {
				break
			}
		}
	}
}

// Realizes the whole sequence in memory, stopping at the first error.
func Collect[V any](seq iter.Seq2[V, error]) ([]V, error) {
	var values []V
	for v, err := range seq {
		if err != nil {
			return values, err
		}

		values = append(values, v)
	}

	return values, nil
}

// Turns an in-memory slice back into a Seq2 with no errors.
func Values[V any](values []V) iter.Seq2[V, error] {
	return WithoutErrors(slices.Values(values))
}
