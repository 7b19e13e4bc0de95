package schema

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/property"
)

func exportedNetwork(t *testing.T) []byte {
	t.Helper()
	pack, err := property.FromDoc(ir.PropertyPackDoc{
		Nodes: []ir.PropertyDoc{{Name: "Threshold", Type: "I", Min: 0, Max: 7}},
		Edges: []ir.PropertyDoc{{Name: "Weight", Min: -1, Max: 1}},
	})
	require.NoError(t, err)
	net := network.New(pack)
	require.NoError(t, net.AddNode(0))
	require.NoError(t, net.AddNode(1))
	require.NoError(t, net.AddEdge(0, 1))
	require.NoError(t, net.SetName(1, "out"))
	_, err = net.AddInput(0)
	require.NoError(t, err)
	_, err = net.AddOutput(1)
	require.NoError(t, err)
	require.NoError(t, net.SetProcessorSpec("risp", []byte(`{"discrete":true}`)))

	var buf bytes.Buffer
	require.NoError(t, net.Write(&buf, true))
	return buf.Bytes()
}

func TestValidateNetwork_Exported(t *testing.T) {
	assert.NoError(t, ValidateNetwork("net.json", exportedNetwork(t)))
}

func TestValidateNetwork_EmptyNetwork(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, network.New(property.NewPack()).Write(&buf, false))
	assert.NoError(t, ValidateNetwork("empty.json", buf.Bytes()))
}

func TestValidateNetwork_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", `{"properties":{},"nodes":[],"edges":[],"inputs":[],"outputs":[],"extra":1}`},
		{"missing nodes", `{"properties":{},"edges":[],"inputs":[],"outputs":[]}`},
		{"negative id", `{"properties":{},"nodes":[{"id":-3,"values":[]}],"edges":[],"inputs":[],"outputs":[]}`},
		{"id beyond uint32", `{"properties":{},"nodes":[{"id":4294967296,"values":[]}],"edges":[],"inputs":[],"outputs":[]}`},
		{"string value", `{"properties":{},"nodes":[{"id":0,"values":["x"]}],"edges":[],"inputs":[],"outputs":[]}`},
		{"bad input slot", `{"properties":{},"nodes":[],"edges":[],"inputs":[-2],"outputs":[]}`},
		{"max below min", `{"properties":{"nodes":[{"name":"T","min":2,"max":1}]},"nodes":[],"edges":[],"inputs":[],"outputs":[]}`},
		{"bad type code", `{"properties":{"nodes":[{"name":"T","type":"X","min":0,"max":1}]},"nodes":[],"edges":[],"inputs":[],"outputs":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNetwork("doc.json", []byte(tt.doc))
			require.Error(t, err)
			var se *Error
			assert.True(t, errors.As(err, &se), "want *schema.Error, got %T", err)
		})
	}
}

func TestValidateNetwork_NotJSON(t *testing.T) {
	err := ValidateNetwork("bad.json", []byte(`{"nodes": [`))
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "json", se.Field)
}

func TestValidatePack(t *testing.T) {
	assert.NoError(t, ValidatePack("p.json", []byte(`{"nodes":[{"name":"T","min":0,"max":1,"default":0.5}]}`)))
	assert.Error(t, ValidatePack("p.json", []byte(`{"nodes":[{"name":"T","min":0,"max":1,"default":3}]}`)))
	assert.Error(t, ValidatePack("p.json", []byte(`{"nodes":[{"name":"","min":0,"max":1}]}`)))
}

const rispPack = `
pack: {
	nodes: [{name: "Threshold", type: "I", min: 0, max: 7}]
	edges: [
		{name: "Weight", type: "I", min: -7, max: 7},
		{name: "Delay", type: "I", min: 1, max: 15},
	]
}
`

func TestParsePack(t *testing.T) {
	pack, err := ParsePack("risp.cue", []byte(rispPack))
	require.NoError(t, err)
	assert.Equal(t, 1, pack.Len(property.Node))
	assert.Equal(t, 2, pack.Len(property.Edge))

	delay, err := pack.Lookup(property.Edge, "Delay")
	require.NoError(t, err)
	assert.Equal(t, 1, delay.Index)
	assert.Equal(t, 15.0, delay.Max)
	assert.Equal(t, property.Integer, delay.Type)
}

func TestParsePack_Errors(t *testing.T) {
	_, err := ParsePack("none.cue", []byte(`other: 1`))
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, PackField, se.Field)

	_, err = ParsePack("bad.cue", []byte(`pack: {nodes: [{name: "T", min: 3, max: 1}]}`))
	assert.Error(t, err)

	_, err = ParsePack("syntax.cue", []byte(`pack: {`))
	assert.Error(t, err)

	// Two properties with one name pass the schema but not the pack.
	_, err = ParsePack("dup.cue", []byte(`pack: {nodes: [{name: "T", min: 0, max: 1}, {name: "T", min: 0, max: 1}]}`))
	assert.Error(t, err)
}

func TestLoadPack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pack.cue"), []byte("package packs\n"+rispPack), 0o644))

	pack, err := LoadPack(dir)
	require.NoError(t, err)
	assert.True(t, pack.Has(property.Node, "Threshold"))

	_, err = LoadPack(filepath.Join(dir, "missing"))
	assert.Error(t, err)
	_, err = LoadPack(filepath.Join(dir, "pack.cue"))
	assert.Error(t, err)
}

func TestSourceIsEmbedded(t *testing.T) {
	assert.Contains(t, Source(), DefNetwork+":")
	assert.Contains(t, Source(), DefPropertyPack+":")
}
