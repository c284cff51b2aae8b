package core

import (
	"math"
	"reflect"

	"github.com/huangsam/diffscore/schema"
)

// Case is one variant of a sum type: a concrete type implementing the sum's
// interface, scored by its own product.
type Case[T any] struct {
	name    string
	typ     reflect.Type
	compare func(a, b T) float64
	explain func(a, b T) []schema.MemberScore
	check   func() error
}

// CaseOf declares the variant V of the sum type T, compared with product when
// both operands hold a V.
func CaseOf[T, V any](name string, product Scorer[V]) Case[T] {
	c := Case[T]{name: name, typ: reflect.TypeFor[V]()}
	c.check = func() error {
		if product == nil {
			return schema.NewConfigurationError("case "+name, "no scorer provided")
		}
		return Validate(product)
	}
	if product == nil {
		return c
	}
	c.compare = func(a, b T) float64 {
		return product.Compare(any(a).(V), any(b).(V))
	}
	if ex, ok := product.(Explainer[V]); ok {
		c.explain = func(a, b T) []schema.MemberScore {
			return ex.Explain(any(a).(V), any(b).(V))
		}
	}
	return c
}

// Unit declares a variant with no members: two values of it always score 0.
func Unit[T, V any](name string) Case[T] {
	return Case[T]{
		name:    name,
		typ:     reflect.TypeFor[V](),
		compare: func(T, T) float64 { return 0 },
		explain: func(T, T) []schema.MemberScore { return nil },
	}
}

// Name returns the case name.
func (c Case[T]) Name() string { return c.name }

type sumConfig struct {
	penalty float64
}

// SumOption configures a Sum scorer.
type SumOption func(*sumConfig)

// MismatchPenalty sets the score of two values holding different cases.
func MismatchPenalty(p float64) SumOption {
	return func(c *sumConfig) { c.penalty = p }
}

// Sum scores values of an interface type T whose dynamic types are the
// registered cases. Values of different cases score the mismatch penalty
// regardless of their payloads.
type Sum[T any] struct {
	cases   map[reflect.Type]Case[T]
	penalty float64
}

// NewSum validates the cases and returns the sum scorer.
// T must be an interface type and every case type must implement it.
func NewSum[T any](cases []Case[T], opts ...SumOption) (*Sum[T], error) {
	cfg := sumConfig{penalty: schema.DefaultMismatchPenalty}
	for _, opt := range opts {
		opt(&cfg)
	}
	if math.IsNaN(cfg.penalty) || math.IsInf(cfg.penalty, 0) || cfg.penalty < 0 {
		return nil, schema.NewConfigurationError("sum", "mismatch penalty must be a finite non-negative number (received %v)", cfg.penalty)
	}
	root := reflect.TypeFor[T]()
	if root.Kind() != reflect.Interface {
		return nil, schema.NewConfigurationError("sum "+root.String(), "sum type must be an interface")
	}
	byType := make(map[reflect.Type]Case[T], len(cases))
	names := make(map[string]struct{}, len(cases))
	for _, c := range cases {
		component := "case " + c.name
		if c.name == "" {
			return nil, schema.NewConfigurationError("case", "name must not be empty")
		}
		if c.typ == nil || c.typ.Kind() == reflect.Interface {
			return nil, schema.NewConfigurationError(component, "case type must be concrete")
		}
		if !c.typ.Implements(root) {
			return nil, schema.NewConfigurationError(component, "%s does not implement %s", c.typ, root)
		}
		if _, dup := byType[c.typ]; dup {
			return nil, schema.NewConfigurationError(component, "type %s registered more than once", c.typ)
		}
		if _, dup := names[c.name]; dup {
			return nil, schema.NewConfigurationError(component, "declared more than once")
		}
		if c.check != nil {
			if err := c.check(); err != nil {
				return nil, err
			}
		}
		byType[c.typ] = c
		names[c.name] = struct{}{}
	}
	return &Sum[T]{cases: byType, penalty: cfg.penalty}, nil
}

// Compare scores a against b. Two nil values score 0; a value whose type was
// never registered scores 0 against an equal value and the penalty otherwise.
func (s *Sum[T]) Compare(a, b T) float64 {
	ta, tb := reflect.TypeOf(any(a)), reflect.TypeOf(any(b))
	if ta != tb {
		return s.penalty
	}
	if ta == nil {
		return 0
	}
	c, ok := s.cases[ta]
	if !ok {
		if reflect.DeepEqual(any(a), any(b)) {
			return 0
		}
		return s.penalty
	}
	return c.compare(a, b)
}

// MissingCost of a composite value is the default constant.
func (s *Sum[T]) MissingCost(T) float64 {
	return schema.DefaultMissingCost
}

// CaseName returns the registered case name of v, or "" if v holds none.
func (s *Sum[T]) CaseName(v T) string {
	t := reflect.TypeOf(any(v))
	if t == nil {
		return ""
	}
	return s.cases[t].name
}

// Explain forwards to the case product when both values share a case.
// Otherwise the breakdown is a single "case" entry carrying the whole score.
func (s *Sum[T]) Explain(a, b T) []schema.MemberScore {
	ta, tb := reflect.TypeOf(any(a)), reflect.TypeOf(any(b))
	if ta == tb && ta != nil {
		if c, ok := s.cases[ta]; ok && c.explain != nil {
			return c.explain(a, b)
		}
	}
	score := s.Compare(a, b)
	return []schema.MemberScore{{
		Name:         "case",
		Weight:       1,
		Mode:         schema.EqualityMode,
		Score:        score,
		Contribution: score,
	}}
}
