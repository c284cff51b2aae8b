package algo

import "sort"

// SymmetricDifference charges missing(x) for every key of a absent from b and
// every key of b absent from a. Membership is pure key equality.
func SymmetricDifference[K comparable, V any](a, b map[K]V, missing func(K, V) float64) float64 {
	parts := make([]float64, 0)
	for k, v := range a {
		if _, ok := b[k]; !ok {
			parts = append(parts, missing(k, v))
		}
	}
	for k, v := range b {
		if _, ok := a[k]; !ok {
			parts = append(parts, missing(k, v))
		}
	}
	return SumStable(parts)
}

// KeyedDifference compares the values of keys present on both sides with compare
// and charges missing(v) for keys present on only one side.
func KeyedDifference[K comparable, V any](a, b map[K]V, compare func(x, y V) float64, missing func(V) float64) float64 {
	parts := make([]float64, 0, len(a))
	for k, av := range a {
		if bv, ok := b[k]; ok {
			parts = append(parts, compare(av, bv))
		} else {
			parts = append(parts, missing(av))
		}
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			parts = append(parts, missing(bv))
		}
	}
	return SumStable(parts)
}

// NormalizedSymmetricDifference returns |A Δ B| / |A ∪ B| over the distinct items
// of a and b, or 0 when both are empty. The result lies in [0, 1].
func NormalizedSymmetricDifference[K comparable](a, b []K) float64 {
	left := make(map[K]struct{}, len(a))
	for _, k := range a {
		left[k] = struct{}{}
	}
	right := make(map[K]struct{}, len(b))
	for _, k := range b {
		right[k] = struct{}{}
	}
	if len(left) == 0 && len(right) == 0 {
		return 0
	}

	union := len(left)
	var diff int
	for k := range left {
		if _, ok := right[k]; !ok {
			diff++
		}
	}
	for k := range right {
		if _, ok := left[k]; !ok {
			diff++
			union++
		}
	}
	return float64(diff) / float64(union)
}

// SumStable adds parts in ascending order so the total does not depend on
// map iteration order. parts is sorted in place.
func SumStable(parts []float64) float64 {
	sort.Float64s(parts)
	var total float64
	for _, p := range parts {
		total += p
	}
	return total
}
