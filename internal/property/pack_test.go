package property

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/rng"
)

func ptr(v float64) *float64 { return &v }

func samplePack(t *testing.T) *Pack {
	t.Helper()
	p, err := FromDoc(ir.PropertyPackDoc{
		Nodes: []ir.PropertyDoc{
			{Name: "Threshold", Min: 0, Max: 10, Default: ptr(1)},
			{Name: "Leak", Type: "B", Min: 0, Max: 1},
		},
		Edges: []ir.PropertyDoc{
			{Name: "Weight", Min: -1, Max: 1},
			{Name: "Delay", Type: "I", Min: 1, Max: 15},
		},
	})
	require.NoError(t, err)
	return p
}

func TestPackIndicesAndDefaults(t *testing.T) {
	p := samplePack(t)

	thr, err := p.Lookup(Node, "Threshold")
	require.NoError(t, err)
	assert.Equal(t, 0, thr.Index)
	assert.Equal(t, 1.0, thr.Default)

	delay, err := p.Lookup(Edge, "Delay")
	require.NoError(t, err)
	assert.Equal(t, 1, delay.Index)
	assert.Equal(t, Integer, delay.Type)
	assert.Equal(t, 15.0, delay.Default, "default falls back to max")

	assert.Equal(t, []float64{1, 1}, p.Defaults(Node))
	assert.Equal(t, 0, p.Len(Network))
	assert.True(t, p.Has(Edge, "Weight"))
	assert.False(t, p.Has(Node, "Weight"))
}

func TestPackLookupUnknown(t *testing.T) {
	p := samplePack(t)

	_, err := p.Lookup(Node, "Missing")
	require.Error(t, err)
	assert.True(t, IsUnknownProperty(err))
	assert.ErrorIs(t, err, ErrUnknownProperty)
	assert.Contains(t, err.Error(), `"Missing"`)
}

func TestPackAddRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		def  ir.PropertyDoc
		code ErrorCode
	}{
		{"empty name", ir.PropertyDoc{Min: 0, Max: 1}, ErrCodeInvalidProperty},
		{"inverted range", ir.PropertyDoc{Name: "X", Min: 2, Max: 1}, ErrCodeInvalidProperty},
		{"bad type", ir.PropertyDoc{Name: "X", Type: "Q", Max: 1}, ErrCodeInvalidProperty},
		{"nan", ir.PropertyDoc{Name: "X", Min: math.NaN(), Max: 1}, ErrCodeInvalidProperty},
		{"duplicate", ir.PropertyDoc{Name: "Threshold", Max: 1}, ErrCodeDuplicateProperty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := samplePack(t)
			_, err := p.Add(Node, tt.def)
			require.Error(t, err)

			var pe *Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.code, pe.Code)
			assert.Equal(t, 2, p.Len(Node), "failed add must not change the pack")
		})
	}
}

func TestFromDocReportsEveryProblem(t *testing.T) {
	_, err := FromDoc(ir.PropertyPackDoc{
		Nodes: []ir.PropertyDoc{{Name: "A", Min: 1, Max: 0}},
		Edges: []ir.PropertyDoc{{Name: "", Max: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node property "A"`)
	assert.Contains(t, err.Error(), "'required' tag")
}

func TestPackDocRoundTrip(t *testing.T) {
	p := samplePack(t)

	back, err := FromDoc(p.Doc())
	require.NoError(t, err)
	assert.True(t, p.Equal(back))
	assert.Equal(t, p.Fingerprint(), back.Fingerprint())
}

func TestPackDiff(t *testing.T) {
	a := samplePack(t)
	b := a.Clone()
	assert.Empty(t, a.Diff(b))

	_, err := b.Add(Edge, ir.PropertyDoc{Name: "Plasticity", Max: 1})
	require.NoError(t, err)

	diffs := a.Diff(b)
	require.NotEmpty(t, diffs)
	assert.Contains(t, diffs[0], "edge properties: 2 vs 3")
	assert.False(t, a.Equal(b))
	assert.Equal(t, 2, a.Len(Edge), "clone must be independent")
}

func TestReconcile(t *testing.T) {
	from := samplePack(t)
	to, err := FromDoc(ir.PropertyPackDoc{
		Nodes: []ir.PropertyDoc{
			{Name: "Leak", Type: "B", Min: 0, Max: 1},
			{Name: "Bias", Min: -1, Max: 1, Default: ptr(0)},
		},
	})
	require.NoError(t, err)

	got := Reconcile(from, to, Node, []float64{7, 0})
	assert.Equal(t, []float64{0, 0}, got, "Leak carried by name, Bias takes default, Threshold dropped")
}

func TestRandomRespectsType(t *testing.T) {
	r := rng.New(11)
	dbl := Property{Type: Double, Min: -2, Max: 2}
	integer := Property{Type: Integer, Min: 1, Max: 3}
	boolean := Property{Type: Boolean, Min: 0, Max: 1}

	for range 100 {
		v := dbl.Random(r)
		assert.GreaterOrEqual(t, v, -2.0)
		assert.Less(t, v, 2.0)

		iv := integer.Random(r)
		assert.Contains(t, []float64{1, 2, 3}, iv)

		bv := boolean.Random(r)
		assert.Contains(t, []float64{0, 1}, bv)
	}
}

func TestRandomIntegerRanges(t *testing.T) {
	r := rng.New(3)
	fractional := Property{Type: Integer, Min: 0.5, Max: 2.7}
	wide := Property{Type: Integer, Min: -5e18, Max: 5e18}
	single := Property{Type: Integer, Min: 4, Max: 4}

	for range 200 {
		v := fractional.Random(r)
		assert.Contains(t, []float64{1, 2}, v)

		w := wide.Random(r)
		assert.Equal(t, math.Floor(w), w)
		assert.GreaterOrEqual(t, w, -5e18)
		assert.LessOrEqual(t, w, 5e18)

		assert.Equal(t, 4.0, single.Random(r))
	}
}

func TestAddRejectsUnsatisfiableDefinitions(t *testing.T) {
	tests := []struct {
		name string
		def  ir.PropertyDoc
	}{
		{"default above max", ir.PropertyDoc{Name: "T", Min: 0, Max: 1, Default: ptr(3)}},
		{"default below min", ir.PropertyDoc{Name: "T", Min: 0, Max: 1, Default: ptr(-0.5)}},
		{"integer range without an integer", ir.PropertyDoc{Name: "D", Type: "I", Min: 0.5, Max: 0.7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPack()
			_, err := p.Add(Node, tt.def)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidProperty)
			assert.Equal(t, 0, p.Len(Node))
		})
	}

	p := NewPack()
	prop, err := p.Add(Node, ir.PropertyDoc{Name: "Big", Type: "I", Min: -5e18, Max: 5e18, Default: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, prop.Default)
}

func TestReconcileIdentityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("reconciling onto the same pack keeps every value", prop.ForAll(
		func(values []float64) bool {
			p := NewPack()
			for i := range values {
				if _, err := p.Add(Node, ir.PropertyDoc{Name: string(rune('a' + i)), Max: 1}); err != nil {
					return false
				}
			}
			got := Reconcile(p, p, Node, values)
			for i := range values {
				if got[i] != values[i] {
					return false
				}
			}
			return len(got) == len(values)
		},
		gen.SliceOfN(8, gen.Float64Range(-100, 100)),
	))

	properties.TestingRun(t)
}
