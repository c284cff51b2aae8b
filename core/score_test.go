package core

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/diffscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMagnitude tests the absolute difference of numbers.
func TestMagnitude(t *testing.T) {
	assert.Equal(t, 4.0, Magnitude[int]().Compare(3, 7))
	assert.Equal(t, 4.0, Magnitude[int]().Compare(7, 3))
	assert.Equal(t, 190.0, Magnitude[uint8]().Compare(10, 200))
	assert.Equal(t, 0.5, Magnitude[float64]().Compare(1, 1.5))
	assert.Equal(t, float64(math.MaxInt64)+1, Magnitude[int64]().Compare(math.MinInt64, 0))
	assert.True(t, math.IsNaN(Magnitude[float64]().Compare(math.NaN(), 1)))
	assert.Equal(t, schema.DefaultMissingCost, Magnitude[int]().MissingCost(42))
}

// TestEqual tests the equality scorer.
func TestEqual(t *testing.T) {
	s := Equal[string]()
	assert.Equal(t, 0.0, s.Compare("id-1", "id-1"))
	assert.Equal(t, 1.0, s.Compare("id-1", "id-2"))
	assert.Equal(t, 1.0, Equal[bool]().Compare(true, false))
	assert.Equal(t, schema.DefaultMissingCost, s.MissingCost("x"))
}

// TestEqualFunc tests equality through an Equal method.
func TestEqualFunc(t *testing.T) {
	s := EqualFunc[time.Time]()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, 0.0, s.Compare(now, now.In(time.FixedZone("x", 3600))))
	assert.Equal(t, 1.0, s.Compare(now, now.Add(time.Second)))
}

// TestText tests byte-wise alignment of strings.
func TestText(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{name: "identical", a: "kitten", b: "kitten", expected: 0},
		{name: "both empty", a: "", b: "", expected: 0},
		{name: "last byte differs", a: "abc", b: "abd", expected: 1},
		{name: "right empty", a: "abc", b: "", expected: 3},
		{name: "left empty", a: "", b: "hello", expected: 5},
		{name: "appended byte", a: "abc", b: "abcd", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text().Compare(tt.a, tt.b))
		})
	}
}

// TestTextMissingCost verifies the missing cost of text is its byte length.
func TestTextMissingCost(t *testing.T) {
	assert.Equal(t, 0.0, Text().MissingCost(""))
	assert.Equal(t, 5.0, Text().MissingCost("hello"))
	assert.Equal(t, 2.0, Text().MissingCost("é"))
}

// TestSequence tests windowed alignment of slices.
func TestSequence(t *testing.T) {
	s := Slice(Magnitude[int]())
	assert.Equal(t, 0.0, s.Compare([]int{1, 2, 3}, []int{1, 2, 3}))
	assert.Equal(t, 1.0, s.Compare([]int{1, 2, 3}, []int{1, 2, 4}))
	assert.Equal(t, 0.0, s.Compare(nil, []int{}))
	assert.Equal(t, 2.0, s.Compare(nil, []int{4, 5}))
	assert.Equal(t, schema.DefaultWindow(), s.Window())

	texts := Slice(Text())
	assert.Equal(t, 5.0, texts.Compare([]string{"abc"}, []string{"abc", "hello"}), "missing text charges its length")
}

// TestSequenceSingleSubstitution verifies a one-item substitution costs the item
// cost, not a missing item on each side.
func TestSequenceSingleSubstitution(t *testing.T) {
	assert.Equal(t, 1.0, Slice(Equal[string]()).Compare([]string{"a"}, []string{"b"}))
	assert.Equal(t, 1.0, Text().Compare("a", "b"))
	assert.Equal(t, 1.0, Slice(Magnitude[int]()).Compare([]int{1, 2, 3}, []int{1, 2, 4}))
}

// TestSequenceNaNItems verifies NaN items are charged as missing on both sides.
func TestSequenceNaNItems(t *testing.T) {
	s := Slice(Magnitude[float64]())
	assert.Equal(t, 2.0, s.Compare([]float64{math.NaN()}, []float64{math.NaN()}))
	assert.Equal(t, 2.0, s.Compare([]float64{1, math.NaN()}, []float64{1, math.NaN()}))
	assert.True(t, math.IsNaN(Magnitude[float64]().Compare(math.NaN(), math.NaN())), "leaf scorers still propagate NaN")
}

// TestNewSequence tests eager window validation.
func TestNewSequence(t *testing.T) {
	_, err := NewSequence(Magnitude[int](), schema.Window{MatchWindow: -1, OrderPenalty: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrConfiguration)

	_, err = NewSequence(Magnitude[int](), schema.Window{MatchWindow: 2, OrderPenalty: math.NaN()})
	assert.ErrorIs(t, err, schema.ErrConfiguration)

	_, err = NewSequence[int](nil, schema.DefaultWindow())
	assert.ErrorIs(t, err, schema.ErrConfiguration)

	s, err := NewSequence(Magnitude[int](), schema.Window{MatchWindow: 0, OrderPenalty: 0})
	require.NoError(t, err)
	assert.Equal(t, 4.0, s.Compare([]int{1, 5}, []int{5, 1}))
}

// TestSet tests unnormalized symmetric difference.
func TestSet(t *testing.T) {
	u := Unordered(Equal[string]())
	assert.Equal(t, 2.0, u.Compare([]string{"a", "b"}, []string{"a", "c"}))
	assert.Equal(t, 0.0, u.Compare([]string{"a", "b", "b"}, []string{"b", "a"}))
	assert.Equal(t, 0.0, u.Compare(nil, nil))

	s := Set(Text())
	left := map[string]struct{}{"go": {}, "rust": {}}
	right := map[string]struct{}{"go": {}, "zig": {}}
	assert.Equal(t, 7.0, s.Compare(left, right), "members are charged their text length")
}

// TestNormalizedSet tests the bounded set ratio.
func TestNormalizedSet(t *testing.T) {
	assert.InDelta(t, 2.0/3.0, NormalizedSet([]string{"a", "b"}, []string{"a", "c"}), 1e-12)
	assert.Equal(t, 0.0, NormalizedSet[string](nil, nil))
	assert.Equal(t, 1.0, NormalizedSet([]int{1}, []int{2}))
}

// TestMap tests keyed comparison.
func TestMap(t *testing.T) {
	m := Map[string](Magnitude[int]())
	assert.Equal(t, 1.0, m.Compare(map[string]int{"x": 1}, map[string]int{"x": 1, "y": 2}))
	assert.Equal(t, 3.0, m.Compare(map[string]int{"x": 1}, map[string]int{"x": 4}))
	assert.Equal(t, 2.0, m.Compare(map[string]int{"x": 1}, map[string]int{"y": 1}))
	assert.Equal(t, 0.0, m.Compare(nil, map[string]int{}))
}

// TestContainerValidation ensures nested misconfiguration surfaces through Validate.
func TestContainerValidation(t *testing.T) {
	bad := SliceWindow(Magnitude[int](), schema.Window{MatchWindow: -3})
	assert.ErrorIs(t, Validate[[][]int](Slice[[]int](bad)), schema.ErrConfiguration)
	assert.ErrorIs(t, Validate[map[string][]int](Map[string, []int](bad)), schema.ErrConfiguration)
	assert.ErrorIs(t, Validate[[]string](Unordered[string](nil)), schema.ErrConfiguration)
	assert.ErrorIs(t, Validate[*[]int](Ptr[[]int](bad)), schema.ErrConfiguration)
	assert.ErrorIs(t, Validate[string](TextWindow(schema.Window{OrderPenalty: -1})), schema.ErrConfiguration)
	assert.ErrorIs(t, Validate[int](nil), schema.ErrConfiguration)
	assert.ErrorIs(t, Validate(Func[int](nil)), schema.ErrConfiguration)
	assert.NoError(t, Validate[[]int](Slice(Magnitude[int]())))
}

// TestPtr tests the pass-through pointer scorer.
func TestPtr(t *testing.T) {
	p := Ptr(Magnitude[int]())
	three, seven := 3, 7
	assert.Equal(t, 0.0, p.Compare(nil, nil))
	assert.Equal(t, 4.0, p.Compare(&three, &seven))
	assert.Equal(t, 1.0, p.Compare(nil, &seven))
	assert.Equal(t, 1.0, p.Compare(&three, nil))

	word := "abc"
	assert.Equal(t, 3.0, Ptr(Text()).Compare(nil, &word))
	assert.Equal(t, 3.0, Ptr(Text()).MissingCost(&word))
	assert.Equal(t, schema.DefaultMissingCost, Ptr(Text()).MissingCost(nil))
}

// TestFunc tests function adapters.
func TestFunc(t *testing.T) {
	s := Func(func(a, b int) float64 { return float64(a * b) })
	assert.Equal(t, 6.0, s.Compare(2, 3))
	assert.Equal(t, schema.DefaultMissingCost, s.MissingCost(9))

	w := FuncWithMissing(func(a, b int) float64 { return 0 }, func(v int) float64 { return float64(v) })
	assert.Equal(t, 9.0, w.MissingCost(9))
}

type version struct {
	major, minor int
}

func (v version) DiffScore(other version) float64 {
	return 10*math.Abs(float64(v.major-other.major)) + math.Abs(float64(v.minor-other.minor))
}

func (v version) MissingScore() float64 { return 50 }

// TestSelf tests scoring through a DiffScore method.
func TestSelf(t *testing.T) {
	a, b := version{1, 2}, version{2, 0}
	assert.Equal(t, 12.0, Score(a, b))
	assert.Equal(t, 12.0, Self[version]().Compare(a, b))
	assert.Equal(t, 50.0, Self[version]().MissingCost(a))
	assert.Equal(t, 50.0, Slice(Self[version]()).Compare(nil, []version{a}))
}

// TestCombinators tests Eq and SameKind.
func TestCombinators(t *testing.T) {
	assert.Equal(t, 0.0, Eq("a", "a"))
	assert.Equal(t, 1.0, Eq(1, 2))
	assert.Equal(t, 0.0, SameKind(circle{R: 1}, circle{R: 2}))
	assert.Equal(t, 1.0, SameKind(circle{R: 1}, square{S: 1}))
	assert.Equal(t, 0.0, SameKind(nil, nil))
}

// TestLeafSymmetry checks compare(a, b) == compare(b, a) for leaves.
func TestLeafSymmetry(t *testing.T) {
	pairs := [][2]string{{"abc", "abd"}, {"", "xyz"}, {"hello", "help"}}
	for _, p := range pairs {
		assert.Equal(t, Text().Compare(p[0], p[1]), Text().Compare(p[1], p[0]))
		assert.Equal(t, Equal[string]().Compare(p[0], p[1]), Equal[string]().Compare(p[1], p[0]))
	}
	assert.Equal(t, Magnitude[float64]().Compare(-2.5, 4), Magnitude[float64]().Compare(4, -2.5))
}

// BenchmarkSequenceCompare benchmarks slice alignment.
func BenchmarkSequenceCompare(b *testing.B) {
	left := make([]int, 1000)
	right := make([]int, 1000)
	for i := range left {
		left[i] = i
		right[i] = i + i%3
	}
	s := Slice(Magnitude[int]())
	for b.Loop() {
		s.Compare(left, right)
	}
}

// BenchmarkTextCompare benchmarks byte alignment.
func BenchmarkTextCompare(b *testing.B) {
	s := Text()
	for b.Loop() {
		s.Compare("the quick brown fox jumps over the lazy dog", "the quick brown cat jumped over a lazy dog")
	}
}
