package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/processor/risp"
)

func TestRegistry(t *testing.T) {
	reg := Registry()
	assert.Equal(t, []string{risp.Name}, reg.Names())

	proc, err := reg.Make(risp.Name, nil)
	require.NoError(t, err)
	assert.Equal(t, risp.Name, proc.Name())
}
