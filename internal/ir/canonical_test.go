package ir

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int", int64(-100), "-100"},
		{"zero", 0.0, "0"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"fraction", 0.5, "0.5"},
		{"small", 1e-7, "1e-7"},
		{"large", 1e21, "1e+21"},
		{"below exponent cutoff", 123456789012345680000.0, "123456789012345680000"},
		{"bool true", true, "true"},
		{"null", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array", []any{1.0, "a", false}, `[1,"a",false]`},
		{"raw message", json.RawMessage(`{"b": 1.50, "a": [1, 2]}`), `{"a":[1,2],"b":1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1.0,
		"alpha": 2.0,
		"beta":  map[string]any{"y": 1.0, "x": 2.0},
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"x":2,"y":1},"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes to a surrogate pair starting 0xD83D, which sorts
	// before U+FB01 (0xFB01) in UTF-16 but after it in UTF-8.
	obj := map[string]any{
		"\ufb01":     1.0,
		"\U0001F600": 2.0,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\ufb01\":1}", string(result))
}

func TestMarshalCanonicalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"html not escaped", "<a&b>", `"<a&b>"`},
		{"quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"control", "\x01", `"\u0001"`},
		{"line separator kept", "a\u2028b", "\"a\u2028b\""},
		{"nfc normalized", "e\u0301", "\"\u00e9\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRejectsNonFinite(t *testing.T) {
	_, err := MarshalCanonical(math.NaN())
	assert.Error(t, err)

	_, err = MarshalCanonical([]any{math.Inf(1)})
	assert.Error(t, err)
}

func TestMarshalCanonicalStruct(t *testing.T) {
	doc := EdgeDoc{From: 2, To: 1, Values: []float64{0.25}}

	result, err := MarshalCanonical(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"from":2,"to":1,"values":[0.25]}`, string(result))
}
