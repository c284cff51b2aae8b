package core

import (
	"github.com/huangsam/diffscore/core/algo"
	"github.com/huangsam/diffscore/schema"
)

// Sequence scores ordered collections with windowed greedy alignment.
type Sequence[T any] struct {
	item   Scorer[T]
	window schema.Window
}

// Slice returns a Sequence over item with the default window.
func Slice[T any](item Scorer[T]) *Sequence[T] {
	return &Sequence[T]{item: item, window: schema.DefaultWindow()}
}

// SliceWindow returns a Sequence over item with window w.
// The window is checked when the enclosing scorer is built or validated.
func SliceWindow[T any](item Scorer[T], w schema.Window) *Sequence[T] {
	return &Sequence[T]{item: item, window: w}
}

// NewSequence returns a validated Sequence over item with window w.
func NewSequence[T any](item Scorer[T], w schema.Window) (*Sequence[T], error) {
	s := SliceWindow(item, w)
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Window returns the alignment window.
func (s *Sequence[T]) Window() schema.Window {
	return s.window
}

// Compare aligns a against b.
func (s *Sequence[T]) Compare(a, b []T) float64 {
	return algo.AlignWindowed(len(a), len(b), s.window,
		func(i, j int) float64 { return s.item.Compare(a[i], b[j]) },
		func(i int) float64 { return s.item.MissingCost(a[i]) },
		func(j int) float64 { return s.item.MissingCost(b[j]) },
	)
}

// MissingCost of a whole sequence is the default constant.
func (s *Sequence[T]) MissingCost([]T) float64 {
	return schema.DefaultMissingCost
}

func (s *Sequence[T]) validate() error {
	if err := s.window.Validate(); err != nil {
		return err
	}
	if s.item == nil {
		return schema.NewConfigurationError("sequence", "no item scorer provided")
	}
	return Validate(s.item)
}

// alignBytes aligns two strings over their bytes with equality cost.
func alignBytes(a, b string, w schema.Window) float64 {
	return algo.AlignWindowed(len(a), len(b), w,
		func(i, j int) float64 {
			if a[i] == b[j] {
				return 0
			}
			return 1
		},
		func(int) float64 { return schema.DefaultMissingCost },
		func(int) float64 { return schema.DefaultMissingCost },
	)
}
