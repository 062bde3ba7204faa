package main

import (
	"testing"

	"github.com/plus3/worldecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func runTicks(t *testing.T, world *ecs.World, ticks int, dt float64) {
	t.Helper()
	world.SetDeltaTime(dt)
	for i := 0; i < ticks; i++ {
		require.NoError(t, world.Update())
	}
}

func TestSimulationExecutionOrder(t *testing.T) {
	world, err := NewSimulation(DefaultSimConfig(), ecs.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	var names []string
	for _, s := range world.Systems().ExecutionOrder() {
		names = append(names, ecs.BaseOf(s).Name())
	}
	assert.Equal(t, []string{
		"*main.RegrowthSystem",
		"*main.SeekSystem",
		"*main.MovementSystem",
		"*main.EatSystem",
		"*main.HungerSystem",
		"*main.ReproductionSystem",
		"*main.CensusSystem",
		"*main.LifespanSystem",
	}, names)
}

func TestForagersStarveWithoutFood(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.InitialBushes = 0
	cfg.InitialForagers = 10
	cfg.ForagerMaxHunger = 5
	cfg.ReproduceChance = 0
	world, err := NewSimulation(cfg)
	require.NoError(t, err)

	runTicks(t, world, 80, 0.1)

	census := ecs.NewSingleton[Census](world).Get()
	assert.Equal(t, 0, census.Foragers)
	assert.Equal(t, 0, world.Entities().Len())
	assert.Equal(t, census.Births, census.Deaths)
}

func TestForagersEat(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.InitialBushes = 1
	cfg.InitialForagers = 0
	cfg.ReproduceChance = 0
	world, err := NewSimulation(cfg)
	require.NoError(t, err)

	bush := world.Entities().FindByName("bush")[0]
	bp := ecs.MustComponent[Position](bush)
	berries := ecs.MustComponent[Bush](bush).Berries

	forager := world.Entities().CreateEntity("forager")
	for _, c := range []any{
		Position{X: bp.X + 2, Y: bp.Y},
		Velocity{},
		Sprite{},
		Forager{Hunger: 15, MaxHunger: 20, Speed: 5},
		Lifespan{MaxAge: 1000},
	} {
		require.NoError(t, forager.Add(c))
	}

	runTicks(t, world, 20, 0.1)

	state := ecs.MustComponent[Forager](forager)
	assert.True(t, forager.Alive())
	assert.Less(t, state.Hunger, float32(15))
	assert.Less(t, ecs.MustComponent[Bush](bush).Berries, berries)
}

func TestBushesRegrow(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.InitialBushes = 3
	cfg.InitialForagers = 0
	world, err := NewSimulation(cfg)
	require.NoError(t, err)

	for _, bush := range world.Entities().FindByName("bush") {
		ecs.MustComponent[Bush](bush).Berries = 0
	}
	runTicks(t, world, 100, 0.1)

	census := ecs.NewSingleton[Census](world).Get()
	assert.Equal(t, 3, census.Bushes)
	assert.Positive(t, census.Berries)
	for _, bush := range world.Entities().FindByName("bush") {
		b := ecs.MustComponent[Bush](bush)
		assert.LessOrEqual(t, b.Berries, b.MaxBerries)
	}
}

func TestCensusTracksPopulation(t *testing.T) {
	world, err := NewSimulation(DefaultSimConfig())
	require.NoError(t, err)

	runTicks(t, world, 200, 0.1)

	census := ecs.NewSingleton[Census](world).Get()
	assert.Equal(t, census.Births-census.Deaths, census.Foragers)

	// The census is taken before the frame's commands apply; the system's
	// membership list is current.
	system, err := ecs.GetSystem[*CensusSystem](world.Systems())
	require.NoError(t, err)
	assert.Equal(t, len(world.Entities().FindByName("forager")), system.Len())
	assert.GreaterOrEqual(t, census.Births, DefaultSimConfig().InitialForagers)
}
