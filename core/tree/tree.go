// Package tree scores dynamically-typed document trees, the values produced by
// decoding JSON or YAML into an empty interface: nil, bool, numbers, string,
// []any and map[string]any.
package tree

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/huangsam/diffscore/core"
	"github.com/huangsam/diffscore/core/algo"
	"github.com/huangsam/diffscore/schema"
)

// RootName labels the whole document in an explanation of non-object roots.
const RootName = "$"

// Options configures a tree Scorer.
type Options struct {
	Window  schema.Window                // Alignment window for arrays and text
	Members map[string]schema.MemberSpec // Specs of root object members; unlisted members use the default
}

// DefaultOptions returns the options of the plain tree scorer.
func DefaultOptions() Options {
	return Options{Window: schema.DefaultWindow()}
}

// Scorer compares tree values. It implements core.Scorer[any].
type Scorer struct {
	window  schema.Window
	text    core.Scorer[string]
	members map[string]schema.MemberSpec
}

var defaultScorer = &Scorer{
	window: schema.DefaultWindow(),
	text:   core.Text(),
}

// Compare scores two tree values with the default options.
func Compare(a, b any) float64 {
	return defaultScorer.Compare(a, b)
}

// New validates opts and returns a Scorer.
func New(opts Options) (*Scorer, error) {
	if err := opts.Window.Validate(); err != nil {
		return nil, err
	}
	members := make(map[string]schema.MemberSpec, len(opts.Members))
	for name, spec := range opts.Members {
		if err := spec.Validate("member " + name); err != nil {
			return nil, err
		}
		members[name] = spec
	}
	return &Scorer{
		window:  opts.Window,
		text:    core.TextWindow(opts.Window),
		members: members,
	}, nil
}

// KindOf reports the tree kind of v.
func KindOf(v any) schema.Kind {
	switch v.(type) {
	case nil:
		return schema.NullKind
	case bool:
		return schema.BoolKind
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return schema.NumberKind
	case string:
		return schema.TextKind
	case []any:
		return schema.ArrayKind
	case map[string]any:
		return schema.ObjectKind
	default:
		return schema.UnknownKind
	}
}

// Compare scores a against b. Values of different kinds score exactly 1.
// Root object members are weighted by the configured member specs.
func (s *Scorer) Compare(a, b any) float64 {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return schema.KindMismatchScore
	}
	if ka == schema.ObjectKind && len(s.members) > 0 {
		var total float64
		for _, m := range s.explainObject(a.(map[string]any), b.(map[string]any)) {
			total += m.Contribution
		}
		return total
	}
	return s.compare(ka, a, b)
}

// MissingCost of any tree value is the default constant.
func (s *Scorer) MissingCost(any) float64 {
	return schema.DefaultMissingCost
}

// Explain breaks the score down by root object member, sorted by name.
// Any other root yields a single entry named RootName.
func (s *Scorer) Explain(a, b any) []schema.MemberScore {
	left, lok := a.(map[string]any)
	right, rok := b.(map[string]any)
	if !lok || !rok {
		score := s.Compare(a, b)
		return []schema.MemberScore{{
			Name:         RootName,
			Weight:       schema.DefaultWeight,
			Mode:         schema.RecurseMode,
			Score:        score,
			Contribution: score,
		}}
	}
	return s.explainObject(left, right)
}

func (s *Scorer) explainObject(a, b map[string]any) []schema.MemberScore {
	names := make([]string, 0, len(a)+len(b))
	for k := range a {
		names = append(names, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	out := make([]schema.MemberScore, 0, len(names))
	for _, name := range names {
		spec, ok := s.members[name]
		if !ok {
			spec = schema.DefaultMemberSpec()
		}
		ms := schema.MemberScore{Name: name, Weight: spec.Weight, Mode: spec.Mode}
		if spec.Weight != 0 || spec.Mode == schema.RecurseMode {
			ms.Score = s.member(spec.Mode, a, b, name)
		}
		if spec.Weight != 0 {
			ms.Contribution = spec.Weight * ms.Score
		}
		out = append(out, ms)
	}
	return out
}

// member scores one key of two objects; a key on one side only is missing.
func (s *Scorer) member(mode schema.Mode, a, b map[string]any, name string) float64 {
	av, aok := a[name]
	bv, bok := b[name]
	switch {
	case aok && bok && mode == schema.EqualityMode:
		if reflect.DeepEqual(av, bv) {
			return 0
		}
		return 1
	case aok && bok:
		return s.nested(av, bv)
	case aok:
		return s.MissingCost(av)
	default:
		return s.MissingCost(bv)
	}
}

// compare dispatches two values of the same kind. Member specs only apply at
// the root, so nested objects use the plain keyed rule.
func (s *Scorer) compare(kind schema.Kind, a, b any) float64 {
	switch kind {
	case schema.NullKind:
		return 0
	case schema.BoolKind:
		return core.Eq(a.(bool), b.(bool))
	case schema.NumberKind:
		x, y := toFloat(a), toFloat(b)
		if x == y {
			return 0
		}
		return math.Abs(x - y)
	case schema.TextKind:
		return s.text.Compare(a.(string), b.(string))
	case schema.ArrayKind:
		left, right := a.([]any), b.([]any)
		return algo.AlignWindowed(len(left), len(right), s.window,
			func(i, j int) float64 { return s.nested(left[i], right[j]) },
			func(i int) float64 { return s.MissingCost(left[i]) },
			func(j int) float64 { return s.MissingCost(right[j]) },
		)
	case schema.ObjectKind:
		return algo.KeyedDifference(a.(map[string]any), b.(map[string]any), s.nested, s.MissingCost)
	default:
		if reflect.DeepEqual(a, b) {
			return 0
		}
		return 1
	}
}

func (s *Scorer) nested(a, b any) float64 {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return schema.KindMismatchScore
	}
	return s.compare(ka, a, b)
}

// toFloat projects a number onto float64. A json.Number beyond float64 range
// saturates to an infinity; a malformed one is NaN.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
