package main

import (
	"math/rand"

	"github.com/plus3/worldecs/ecs"
	"go.uber.org/zap"
)

var pastelColors = [][3]uint8{
	{255, 179, 186},
	{179, 229, 252},
	{255, 223, 186},
	{186, 255, 201},
	{255, 200, 221},
	{217, 186, 255},
}

var bushColor = [3]uint8{144, 238, 144}

func DefaultSimConfig() SimConfig {
	return SimConfig{
		Width:            100,
		Height:           100,
		Seed:             1,
		ReproduceChance:  0.2,
		InitialForagers:  40,
		InitialBushes:    60,
		ForagerMaxAge:    120,
		ForagerMaxHunger: 20,
	}
}

// NewSimulation builds a world populated according to cfg with every simulation system registered.
func NewSimulation(cfg SimConfig, opts ...ecs.Option) (*ecs.World, error) {
	world := ecs.NewWorld(opts...)
	ecs.NewSingleton[SimConfig](world, cfg)
	ecs.NewSingleton[Census](world)

	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, system := range []ecs.System{
		NewCensusSystem(),
		NewSeekSystem(rng),
		NewMovementSystem(),
		NewEatSystem(),
		NewHungerSystem(),
		NewLifespanSystem(),
		NewReproductionSystem(rng),
		NewRegrowthSystem(),
	} {
		if err := world.Systems().AddSystem(system); err != nil {
			return nil, err
		}
	}

	for i := 0; i < cfg.InitialBushes; i++ {
		spawnBush(world, rng, cfg)
	}
	for i := 0; i < cfg.InitialForagers; i++ {
		color := pastelColors[i%len(pastelColors)]
		components := foragerComponents(rng, &cfg, rng.Float32()*cfg.Width, rng.Float32()*cfg.Height, color)
		if err := spawn(world, "forager", components); err != nil {
			return nil, err
		}
	}

	if err := world.Initialise(); err != nil {
		return nil, err
	}
	world.Logger().Info("simulation ready",
		zap.Int("foragers", cfg.InitialForagers),
		zap.Int("bushes", cfg.InitialBushes),
		zap.Int64("seed", cfg.Seed))
	return world, nil
}

func spawn(world *ecs.World, name string, components []any) error {
	entity := world.Entities().CreateEntity(name)
	for _, component := range components {
		if err := entity.Add(component); err != nil {
			return err
		}
	}
	return nil
}

func spawnBush(world *ecs.World, rng *rand.Rand, cfg SimConfig) {
	maxBerries := 3 + rng.Intn(5)
	spawn(world, "bush", []any{
		Position{X: rng.Float32() * cfg.Width, Y: rng.Float32() * cfg.Height},
		Sprite{Color: bushColor, Radius: 0.8},
		Bush{Berries: maxBerries, MaxBerries: maxBerries, Regrowth: 0.1 + rng.Float32()*0.2},
	})
}

func foragerComponents(rng *rand.Rand, cfg *SimConfig, x, y float32, color [3]uint8) []any {
	return []any{
		Position{X: x, Y: y},
		Velocity{},
		Sprite{Color: color, Radius: 0.5},
		Forager{
			Hunger:    rng.Float32() * cfg.ForagerMaxHunger / 2,
			MaxHunger: cfg.ForagerMaxHunger,
			Speed:     4 + rng.Float32()*4,
		},
		Lifespan{MaxAge: cfg.ForagerMaxAge * (0.75 + rng.Float32()*0.5)},
	}
}
