package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	deps := &Deps{}

	all := All(deps)
	require.Len(t, all, 6)

	seen := map[string]bool{}
	for _, job := range all {
		assert.False(t, seen[job.Name()], "duplicate job name %s", job.Name())
		seen[job.Name()] = true

		got := ByName(deps, job.Name())
		require.NotNil(t, got, job.Name())
		assert.Equal(t, job.Name(), got.Name())
	}

	assert.Nil(t, ByName(deps, "does_not_exist"))
	assert.Len(t, Names(deps), 6)
}
