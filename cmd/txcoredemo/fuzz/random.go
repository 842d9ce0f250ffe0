package fuzz

import "math/rand"

// PickRandom returns a random element of items, or the zero value and
// false if items is empty.
func PickRandom[T any](r *rand.Rand, items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[r.Intn(len(items))], true
}
