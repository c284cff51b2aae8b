package core

import (
	"reflect"

	"github.com/huangsam/diffscore/schema"
)

// Explainer is implemented by composite scorers that can break a score down per member.
type Explainer[T any] interface {
	Explain(a, b T) []schema.MemberScore
}

// MemberOption adjusts the static spec of a member.
type MemberOption func(*schema.MemberSpec)

// Weight sets the member weight. Negative weights are rejected when the product is built.
func Weight(w float64) MemberOption {
	return func(s *schema.MemberSpec) { s.Weight = w }
}

// EqualityOnly compares the member by equality (0 or 1) instead of its own scorer.
func EqualityOnly() MemberOption {
	return func(s *schema.MemberSpec) { s.Mode = schema.EqualityMode }
}

// WithSpec replaces the whole spec, typically with one read from configuration.
func WithSpec(spec schema.MemberSpec) MemberOption {
	return func(s *schema.MemberSpec) { *s = spec }
}

// Member is one field of a product type: an accessor, a scorer and a spec.
type Member[T any] struct {
	name    string
	spec    schema.MemberSpec
	hasGet  bool
	compare func(a, b T) float64 // nil when no recursive scorer exists
	equal   func(a, b T) bool
	check   func() error
}

// Field declares a member read by get and compared with scorer.
// Under EqualityOnly the member values are compared with reflect.DeepEqual
// and scorer may be nil.
func Field[T, F any](name string, get func(T) F, scorer Scorer[F], opts ...MemberOption) Member[T] {
	m := Member[T]{name: name, spec: schema.DefaultMemberSpec(), hasGet: get != nil}
	for _, opt := range opts {
		opt(&m.spec)
	}
	if scorer != nil && get != nil {
		m.compare = func(a, b T) float64 { return scorer.Compare(get(a), get(b)) }
	}
	if get != nil {
		m.equal = func(a, b T) bool { return reflect.DeepEqual(get(a), get(b)) }
	}
	m.check = func() error {
		if scorer == nil {
			return schema.NewConfigurationError("member "+name, "no scorer provided")
		}
		return Validate(scorer)
	}
	return m
}

// EqualField declares a member that is only ever compared with ==.
// It needs no scorer; switching it back to recursive mode is a configuration error.
func EqualField[T any, F comparable](name string, get func(T) F, opts ...MemberOption) Member[T] {
	m := Member[T]{name: name, spec: schema.DefaultMemberSpec(), hasGet: get != nil}
	m.spec.Mode = schema.EqualityMode
	for _, opt := range opts {
		opt(&m.spec)
	}
	if get != nil {
		m.equal = func(a, b T) bool { return get(a) == get(b) }
	}
	return m
}

// Name returns the member name.
func (m Member[T]) Name() string { return m.name }

// Spec returns the member spec.
func (m Member[T]) Spec() schema.MemberSpec { return m.spec }

func (m Member[T]) validate() error {
	component := "member " + m.name
	if m.name == "" {
		return schema.NewConfigurationError("member", "name must not be empty")
	}
	if !m.hasGet {
		return schema.NewConfigurationError(component, "no accessor provided")
	}
	if err := m.spec.Validate(component); err != nil {
		return err
	}
	if m.spec.Mode == schema.EqualityMode {
		return nil
	}
	if m.check == nil {
		return schema.NewConfigurationError(component, "no scorer can be resolved for recursive mode")
	}
	return m.check()
}

// raw returns the unweighted member score.
func (m Member[T]) raw(a, b T) float64 {
	if m.spec.Mode == schema.EqualityMode {
		if m.equal(a, b) {
			return 0
		}
		return 1
	}
	return m.compare(a, b)
}

// Product scores a fixed list of members as an unnormalized weighted sum:
// score = Σ weight(m) * memberScore(m). Scores add up across nesting depth
// and are not bounded.
type Product[T any] struct {
	members []Member[T]
}

// NewProduct validates every member and returns the product scorer.
// A product with no members always scores 0.
func NewProduct[T any](members ...Member[T]) (*Product[T], error) {
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if err := m.validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[m.name]; dup {
			return nil, schema.NewConfigurationError("member "+m.name, "declared more than once")
		}
		seen[m.name] = struct{}{}
	}
	return &Product[T]{members: members}, nil
}

// Compare sums the weighted member scores in declaration order.
// Members with weight 0 are skipped.
func (p *Product[T]) Compare(a, b T) float64 {
	var total float64
	for _, m := range p.members {
		if m.spec.Weight == 0 {
			continue
		}
		total += m.spec.Weight * m.raw(a, b)
	}
	return total
}

// MissingCost of a composite value is the default constant.
func (p *Product[T]) MissingCost(T) float64 {
	return schema.DefaultMissingCost
}

// Explain returns the contribution of each member. Equality-only members with
// weight 0 are reported with a zero score without being compared.
func (p *Product[T]) Explain(a, b T) []schema.MemberScore {
	out := make([]schema.MemberScore, 0, len(p.members))
	for _, m := range p.members {
		ms := schema.MemberScore{Name: m.name, Weight: m.spec.Weight, Mode: m.spec.Mode}
		if m.spec.Weight != 0 || m.spec.Mode == schema.RecurseMode {
			ms.Score = m.raw(a, b)
		}
		if m.spec.Weight != 0 {
			ms.Contribution = m.spec.Weight * ms.Score
		}
		out = append(out, ms)
	}
	return out
}
