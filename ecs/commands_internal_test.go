package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsReset(t *testing.T) {
	world := NewWorld()
	commands := newCommands()
	commands.Create("a")
	commands.Destroy(1)
	commands.Defer(func() { t.Fatal("dropped command ran") })

	assert.Equal(t, 3, commands.Reset())
	assert.Equal(t, 0, commands.Len())
	require.NoError(t, commands.Flush(world))
	assert.Equal(t, 0, world.Entities().Len())
}
