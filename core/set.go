package core

import (
	"github.com/huangsam/diffscore/core/algo"
	"github.com/huangsam/diffscore/schema"
)

// SetScorer scores unordered collections by symmetric difference.
// Membership is key equality; there is no partial credit between members.
type SetScorer[K comparable] struct {
	item Scorer[K]
}

// Set returns the unnormalized set scorer for map-backed sets.
// item supplies the missing cost of each member.
func Set[K comparable](item Scorer[K]) *SetScorer[K] {
	return &SetScorer[K]{item: item}
}

// Compare charges the missing cost of every member present on only one side.
func (s *SetScorer[K]) Compare(a, b map[K]struct{}) float64 {
	return algo.SymmetricDifference(a, b, func(k K, _ struct{}) float64 {
		return s.item.MissingCost(k)
	})
}

// MissingCost of a whole set is the default constant.
func (s *SetScorer[K]) MissingCost(map[K]struct{}) float64 {
	return schema.DefaultMissingCost
}

func (s *SetScorer[K]) validate() error {
	if s.item == nil {
		return schema.NewConfigurationError("set", "no item scorer provided")
	}
	return Validate(s.item)
}

// UnorderedScorer treats slices as sets; duplicates collapse.
type UnorderedScorer[K comparable] struct {
	set *SetScorer[K]
}

// Unordered returns the set scorer for slices whose order carries no meaning.
func Unordered[K comparable](item Scorer[K]) *UnorderedScorer[K] {
	return &UnorderedScorer[K]{set: Set(item)}
}

// Compare scores the distinct members of a and b.
func (u *UnorderedScorer[K]) Compare(a, b []K) float64 {
	return u.set.Compare(toSet(a), toSet(b))
}

// MissingCost of a whole collection is the default constant.
func (u *UnorderedScorer[K]) MissingCost([]K) float64 {
	return schema.DefaultMissingCost
}

func (u *UnorderedScorer[K]) validate() error {
	return u.set.validate()
}

func toSet[K comparable](items []K) map[K]struct{} {
	out := make(map[K]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}

// MapScorer scores keyed collections.
type MapScorer[K comparable, V any] struct {
	value Scorer[V]
}

// Map returns the scorer for maps: shared keys compare their values with value,
// keys on one side only charge that value's missing cost.
func Map[K comparable, V any](value Scorer[V]) *MapScorer[K, V] {
	return &MapScorer[K, V]{value: value}
}

// Compare scores a against b key by key.
func (m *MapScorer[K, V]) Compare(a, b map[K]V) float64 {
	return algo.KeyedDifference(a, b, m.value.Compare, m.value.MissingCost)
}

// MissingCost of a whole map is the default constant.
func (m *MapScorer[K, V]) MissingCost(map[K]V) float64 {
	return schema.DefaultMissingCost
}

func (m *MapScorer[K, V]) validate() error {
	if m.value == nil {
		return schema.NewConfigurationError("map", "no value scorer provided")
	}
	return Validate(m.value)
}

// NormalizedSet scores two set-like slices as |A Δ B| / |A ∪ B|, bounded to [0, 1].
// It uses equality only and ignores missing costs; 0 when both are empty.
func NormalizedSet[K comparable](a, b []K) float64 {
	return algo.NormalizedSymmetricDifference(a, b)
}
