package core

import (
	"reflect"

	"github.com/huangsam/diffscore/schema"
)

// PtrScorer forwards to the scorer of the pointed-to value.
type PtrScorer[T any] struct {
	inner Scorer[T]
}

// Ptr returns a pass-through scorer for pointers: a boxed value scores exactly
// like the value itself. Two nil pointers score 0; a nil pointer against a
// non-nil one scores the missing cost of the present value.
func Ptr[T any](inner Scorer[T]) *PtrScorer[T] {
	return &PtrScorer[T]{inner: inner}
}

// Compare dereferences both sides.
func (p *PtrScorer[T]) Compare(a, b *T) float64 {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return p.inner.MissingCost(*b)
	case b == nil:
		return p.inner.MissingCost(*a)
	default:
		return p.inner.Compare(*a, *b)
	}
}

// MissingCost forwards to the pointed-to value; a nil pointer costs the default.
func (p *PtrScorer[T]) MissingCost(v *T) float64 {
	if v == nil {
		return schema.DefaultMissingCost
	}
	return p.inner.MissingCost(*v)
}

func (p *PtrScorer[T]) validate() error {
	if p.inner == nil {
		return schema.NewConfigurationError("pointer", "no inner scorer provided")
	}
	return Validate(p.inner)
}

// Eq returns 0 if a and b are equal, 1 otherwise.
func Eq[T comparable](a, b T) float64 {
	if a == b {
		return 0
	}
	return 1
}

// SameKind returns 0 if a and b hold the same dynamic type, 1 otherwise.
// It ignores payloads, like comparing only the case of two sum values.
func SameKind(a, b any) float64 {
	if reflect.TypeOf(a) == reflect.TypeOf(b) {
		return 0
	}
	return 1
}
