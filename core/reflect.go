package core

import (
	"math"
	"math/cmplx"
	"reflect"
	"strconv"
	"strings"

	"github.com/huangsam/diffscore/core/algo"
	"github.com/huangsam/diffscore/schema"
)

// TagName is the struct tag read by Reflect.
const TagName = "diffscore"

// node is a scorer resolved for one reflect.Type.
type node struct {
	compare func(a, b reflect.Value) float64
	missing func(v reflect.Value) float64
	explain func(a, b reflect.Value) []schema.MemberScore
}

// ReflectOption configures Reflect.
type ReflectOption func(*reflectBuilder)

// ReflectWindow sets the window used for every slice, array and string.
func ReflectWindow(w schema.Window) ReflectOption {
	return func(rb *reflectBuilder) { rb.window = w }
}

// Reflected is a scorer derived from a Go type by reflection.
type Reflected[T any] struct {
	root *node
}

// Reflect derives a scorer for T from its structure:
//
//   - bool: Equal
//   - integers, floats: Magnitude; complex numbers: modulus of the difference
//   - string: Text
//   - slices, arrays: Sequence over the element scorer
//   - maps: Map over the value scorer
//   - pointers: pass-through
//   - structs: Product over exported fields, configured by `diffscore` tags
//   - interfaces: 0 when deeply equal, 1 otherwise
//
// Types with a DiffScore(T) float64 method are scored through it, and types
// with an Equal(T) bool method (such as time.Time) through equality.
// Struct tags look like `diffscore:"weight=3,eq"`; `diffscore:"-"` skips the field.
// Channels, functions and unsafe pointers cannot be scored.
func Reflect[T any](opts ...ReflectOption) (*Reflected[T], error) {
	rb := &reflectBuilder{cache: map[reflect.Type]*node{}, window: schema.DefaultWindow()}
	for _, opt := range opts {
		opt(rb)
	}
	if err := rb.window.Validate(); err != nil {
		return nil, err
	}
	root, err := rb.build(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return &Reflected[T]{root: root}, nil
}

// Compare scores a against b.
func (r *Reflected[T]) Compare(a, b T) float64 {
	return r.root.compare(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

// MissingCost returns the missing cost of v.
func (r *Reflected[T]) MissingCost(v T) float64 {
	return r.root.missing(reflect.ValueOf(&v).Elem())
}

// Explain returns the member breakdown of a struct; nil for any other type.
func (r *Reflected[T]) Explain(a, b T) []schema.MemberScore {
	if r.root.explain == nil {
		return nil
	}
	return r.root.explain(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

type reflectBuilder struct {
	cache  map[reflect.Type]*node
	window schema.Window
}

var (
	float64Type = reflect.TypeFor[float64]()
	boolType    = reflect.TypeFor[bool]()
)

func defaultMissing(reflect.Value) float64 { return schema.DefaultMissingCost }

func equalityNode(eq func(a, b reflect.Value) bool) *node {
	return &node{
		compare: func(a, b reflect.Value) float64 {
			if eq(a, b) {
				return 0
			}
			return 1
		},
		missing: defaultMissing,
	}
}

// build resolves the node for t. Nodes are cached before their children are
// built so recursive types terminate.
func (rb *reflectBuilder) build(t reflect.Type) (*node, error) {
	if n, ok := rb.cache[t]; ok {
		return n, nil
	}
	n := &node{missing: defaultMissing}
	rb.cache[t] = n
	if err := rb.fill(n, t); err != nil {
		delete(rb.cache, t)
		return nil, err
	}
	return n, nil
}

func (rb *reflectBuilder) fill(n *node, t reflect.Type) error {
	if m, ok := t.MethodByName("DiffScore"); ok && t.Kind() != reflect.Interface && hasSignature(m.Type, t, float64Type) {
		n.compare = func(a, b reflect.Value) float64 {
			return a.Method(m.Index).Call([]reflect.Value{b})[0].Float()
		}
		if ms, ok := t.MethodByName("MissingScore"); ok && hasSignature(ms.Type, nil, float64Type) {
			n.missing = func(v reflect.Value) float64 {
				return v.Method(ms.Index).Call(nil)[0].Float()
			}
		}
		return nil
	}
	if m, ok := t.MethodByName("Equal"); ok && t.Kind() != reflect.Interface && hasSignature(m.Type, t, boolType) {
		*n = *equalityNode(func(a, b reflect.Value) bool {
			return a.Method(m.Index).Call([]reflect.Value{b})[0].Bool()
		})
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		*n = *equalityNode(func(a, b reflect.Value) bool { return a.Bool() == b.Bool() })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n.compare = func(a, b reflect.Value) float64 {
			return math.Abs(float64(a.Int()) - float64(b.Int()))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n.compare = func(a, b reflect.Value) float64 {
			return math.Abs(float64(a.Uint()) - float64(b.Uint()))
		}
	case reflect.Float32, reflect.Float64:
		n.compare = func(a, b reflect.Value) float64 {
			return math.Abs(a.Float() - b.Float())
		}
	case reflect.Complex64, reflect.Complex128:
		n.compare = func(a, b reflect.Value) float64 {
			return cmplx.Abs(a.Complex() - b.Complex())
		}
	case reflect.String:
		w := rb.window
		n.compare = func(a, b reflect.Value) float64 { return alignBytes(a.String(), b.String(), w) }
		n.missing = func(v reflect.Value) float64 { return alignBytes(v.String(), "", w) }
	case reflect.Slice, reflect.Array:
		return rb.fillSequence(n, t)
	case reflect.Map:
		return rb.fillMap(n, t)
	case reflect.Pointer:
		return rb.fillPointer(n, t)
	case reflect.Struct:
		return rb.fillStruct(n, t)
	case reflect.Interface:
		n.compare = func(a, b reflect.Value) float64 {
			if reflect.DeepEqual(a.Interface(), b.Interface()) {
				return 0
			}
			return 1
		}
	default:
		return schema.NewConfigurationError("type "+t.String(), "kind %s cannot be scored", t.Kind())
	}
	return nil
}

// hasSignature reports whether a method type (with receiver) takes arg
// (or nothing when arg is nil) and returns exactly out.
func hasSignature(mt, arg, out reflect.Type) bool {
	if mt.NumOut() != 1 || mt.Out(0) != out {
		return false
	}
	if arg == nil {
		return mt.NumIn() == 1
	}
	return mt.NumIn() == 2 && mt.In(1) == arg
}

func (rb *reflectBuilder) fillSequence(n *node, t reflect.Type) error {
	elem, err := rb.build(t.Elem())
	if err != nil {
		return err
	}
	w := rb.window
	n.compare = func(a, b reflect.Value) float64 {
		return algo.AlignWindowed(a.Len(), b.Len(), w,
			func(i, j int) float64 { return elem.compare(a.Index(i), b.Index(j)) },
			func(i int) float64 { return elem.missing(a.Index(i)) },
			func(j int) float64 { return elem.missing(b.Index(j)) },
		)
	}
	return nil
}

func (rb *reflectBuilder) fillMap(n *node, t reflect.Type) error {
	val, err := rb.build(t.Elem())
	if err != nil {
		return err
	}
	n.compare = func(a, b reflect.Value) float64 {
		parts := make([]float64, 0, a.Len()+b.Len())
		iter := a.MapRange()
		for iter.Next() {
			if other := b.MapIndex(iter.Key()); other.IsValid() {
				parts = append(parts, val.compare(iter.Value(), other))
			} else {
				parts = append(parts, val.missing(iter.Value()))
			}
		}
		iter = b.MapRange()
		for iter.Next() {
			if !a.MapIndex(iter.Key()).IsValid() {
				parts = append(parts, val.missing(iter.Value()))
			}
		}
		return algo.SumStable(parts)
	}
	return nil
}

func (rb *reflectBuilder) fillPointer(n *node, t reflect.Type) error {
	elem, err := rb.build(t.Elem())
	if err != nil {
		return err
	}
	n.compare = func(a, b reflect.Value) float64 {
		switch {
		case a.IsNil() && b.IsNil():
			return 0
		case a.IsNil():
			return elem.missing(b.Elem())
		case b.IsNil():
			return elem.missing(a.Elem())
		default:
			return elem.compare(a.Elem(), b.Elem())
		}
	}
	n.missing = func(v reflect.Value) float64 {
		if v.IsNil() {
			return schema.DefaultMissingCost
		}
		return elem.missing(v.Elem())
	}
	if t.Elem().Kind() == reflect.Struct {
		n.explain = func(a, b reflect.Value) []schema.MemberScore {
			if a.IsNil() || b.IsNil() || elem.explain == nil {
				return nil
			}
			return elem.explain(a.Elem(), b.Elem())
		}
	}
	return nil
}

// reflectMember is one struct field of a reflected product.
type reflectMember struct {
	name  string
	index int
	spec  schema.MemberSpec
	node  *node // nil under equality mode
}

func (m reflectMember) raw(a, b reflect.Value) float64 {
	fa, fb := a.Field(m.index), b.Field(m.index)
	if m.spec.Mode == schema.EqualityMode {
		if reflect.DeepEqual(fa.Interface(), fb.Interface()) {
			return 0
		}
		return 1
	}
	return m.node.compare(fa, fb)
}

func (rb *reflectBuilder) fillStruct(n *node, t reflect.Type) error {
	var members []reflectMember
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, tagged := f.Tag.Lookup(TagName)
		if tag == "-" {
			continue
		}
		component := "member " + t.Name() + "." + f.Name
		spec := schema.DefaultMemberSpec()
		if tagged {
			var err error
			if spec, err = parseTag(component, tag); err != nil {
				return err
			}
		}
		if err := spec.Validate(component); err != nil {
			return err
		}
		m := reflectMember{name: f.Name, index: i, spec: spec}
		if spec.Mode == schema.RecurseMode {
			child, err := rb.build(f.Type)
			if err != nil {
				return err
			}
			m.node = child
		}
		members = append(members, m)
	}

	n.compare = func(a, b reflect.Value) float64 {
		var total float64
		for _, m := range members {
			if m.spec.Weight == 0 {
				continue
			}
			total += m.spec.Weight * m.raw(a, b)
		}
		return total
	}
	n.explain = func(a, b reflect.Value) []schema.MemberScore {
		out := make([]schema.MemberScore, 0, len(members))
		for _, m := range members {
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
	return nil
}

// parseTag reads a tag such as "weight=3,eq" or "mode=recurse".
func parseTag(component, tag string) (schema.MemberSpec, error) {
	spec := schema.DefaultMemberSpec()
	for part := range strings.SplitSeq(tag, ",") {
		part = strings.TrimSpace(part)
		key, value, hasValue := strings.Cut(part, "=")
		switch {
		case part == "":
		case !hasValue && (key == "eq" || key == "recurse"):
			spec.Mode = schema.Mode(key)
		case hasValue && key == "weight":
			w, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return spec, schema.NewConfigurationError(component, "invalid weight '%s'", value)
			}
			spec.Weight = w
		case hasValue && key == "mode":
			mode, err := schema.ParseMode(value)
			if err != nil {
				return spec, schema.NewConfigurationError(component, "invalid mode '%s'", value)
			}
			spec.Mode = mode
		default:
			return spec, schema.NewConfigurationError(component, "unknown tag option '%s'", part)
		}
	}
	return spec, nil
}
