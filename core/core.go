// Package core is the diff scoring engine.
//
// A Scorer compares two values of the same shape and returns a non-negative,
// unnormalized diff score: 0 means identical, larger means more different.
// Leaf scorers handle atomic values; Sequence, Set and Map scorers handle
// containers; Product and Sum assemble composite values from their members.
//
// Scorers are immutable once built and safe for concurrent use.
package core

import (
	"github.com/huangsam/diffscore/schema"
)

// Scorer is the capability every scorable type is compared through.
type Scorer[T any] interface {
	// Compare returns the diff score between a and b.
	Compare(a, b T) float64

	// MissingCost returns the charge for v when it has no counterpart.
	MissingCost(v T) float64
}

// Scorable is implemented by values that know how to score themselves.
type Scorable[T any] interface {
	DiffScore(other T) float64
}

// MissingScorer optionally overrides the default missing cost of a Scorable value.
type MissingScorer interface {
	MissingScore() float64
}

// validator is implemented by scorers whose configuration can be invalid.
type validator interface {
	validate() error
}

// Validate reports whether s and every scorer nested in it are correctly configured.
// Constructors call it so configuration errors surface before any comparison.
func Validate[T any](s Scorer[T]) error {
	if s == nil {
		return schema.NewConfigurationError("scorer", "no scorer provided")
	}
	if v, ok := s.(validator); ok {
		return v.validate()
	}
	return nil
}

// funcScorer adapts a plain comparison function.
type funcScorer[T any] struct {
	cmp     func(a, b T) float64
	missing func(v T) float64
}

func (f funcScorer[T]) Compare(a, b T) float64 { return f.cmp(a, b) }

func (f funcScorer[T]) MissingCost(v T) float64 {
	if f.missing == nil {
		return schema.DefaultMissingCost
	}
	return f.missing(v)
}

func (f funcScorer[T]) validate() error {
	if f.cmp == nil {
		return schema.NewConfigurationError("func scorer", "comparison function is nil")
	}
	return nil
}

// Func builds a Scorer from a comparison function with the default missing cost.
func Func[T any](cmp func(a, b T) float64) Scorer[T] {
	return funcScorer[T]{cmp: cmp}
}

// FuncWithMissing builds a Scorer from a comparison and a missing cost function.
func FuncWithMissing[T any](cmp func(a, b T) float64, missing func(v T) float64) Scorer[T] {
	return funcScorer[T]{cmp: cmp, missing: missing}
}

// selfScorer forwards to the value's own DiffScore method.
type selfScorer[T Scorable[T]] struct{}

func (selfScorer[T]) Compare(a, b T) float64 { return a.DiffScore(b) }

func (selfScorer[T]) MissingCost(v T) float64 {
	if m, ok := any(v).(MissingScorer); ok {
		return m.MissingScore()
	}
	return schema.DefaultMissingCost
}

// Self returns a Scorer for types implementing Scorable.
func Self[T Scorable[T]]() Scorer[T] {
	return selfScorer[T]{}
}

// Score compares two Scorable values directly.
func Score[T Scorable[T]](a, b T) float64 {
	return a.DiffScore(b)
}
