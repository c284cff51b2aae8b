package core

import (
	"math"

	"github.com/huangsam/diffscore/schema"
)

// Number is every Go type the magnitude scorer accepts.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// equalScorer scores 0 for equal values and 1 otherwise.
type equalScorer[T comparable] struct{}

func (equalScorer[T]) Compare(a, b T) float64 {
	if a == b {
		return 0
	}
	return 1
}

func (equalScorer[T]) MissingCost(T) float64 { return schema.DefaultMissingCost }

// Equal returns the equality scorer for atomic values with no inspectable structure:
// booleans, identifiers, addresses, enums.
func Equal[T comparable]() Scorer[T] {
	return equalScorer[T]{}
}

// Equaler is implemented by types whose == is not meaningful, such as time.Time.
type Equaler[T any] interface {
	Equal(other T) bool
}

// equalMethodScorer scores through the value's Equal method.
type equalMethodScorer[T Equaler[T]] struct{}

func (equalMethodScorer[T]) Compare(a, b T) float64 {
	if a.Equal(b) {
		return 0
	}
	return 1
}

func (equalMethodScorer[T]) MissingCost(T) float64 { return schema.DefaultMissingCost }

// EqualFunc returns the equality scorer for types with an Equal method.
func EqualFunc[T Equaler[T]]() Scorer[T] {
	return equalMethodScorer[T]{}
}

// magnitudeScorer scores |a - b| in float64.
type magnitudeScorer[N Number] struct{}

func (magnitudeScorer[N]) Compare(a, b N) float64 {
	return math.Abs(float64(a) - float64(b))
}

func (magnitudeScorer[N]) MissingCost(N) float64 { return schema.DefaultMissingCost }

// Magnitude returns the scorer for numbers: the absolute difference computed in
// float64 so no integer kind can overflow. NaN operands give NaN.
func Magnitude[N Number]() Scorer[N] {
	return magnitudeScorer[N]{}
}

// textScorer aligns two strings byte by byte.
type textScorer struct {
	window schema.Window
}

func (t textScorer) Compare(a, b string) float64 {
	return alignBytes(a, b, t.window)
}

// MissingCost of a text is its comparison against the empty text: one per byte.
func (t textScorer) MissingCost(v string) float64 {
	return alignBytes(v, "", t.window)
}

func (t textScorer) validate() error {
	return t.window.Validate()
}

// Text returns the scorer for strings. Code units (bytes) are aligned with the
// default window and compared by equality.
func Text() Scorer[string] {
	return textScorer{window: schema.DefaultWindow()}
}

// TextWindow is Text with a custom window.
func TextWindow(w schema.Window) Scorer[string] {
	return textScorer{window: w}
}
