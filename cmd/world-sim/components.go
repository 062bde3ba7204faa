package main

import "github.com/plus3/worldecs/ecs"

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Sprite struct {
	Color  [3]uint8
	Radius float32
}

// Forager wanders until hungry, then walks to the nearest bush with berries.
type Forager struct {
	Hunger    float32
	MaxHunger float32
	Speed     float32
	Target    ecs.EntityId
}

type Bush struct {
	Berries    int
	MaxBerries int
	Regrowth   float32 // berries per second
	progress   float32
}

type Lifespan struct {
	Age    float32
	MaxAge float32
}

// SimConfig is a world singleton describing the simulated area.
type SimConfig struct {
	Width, Height    float32
	Seed             int64
	ReproduceChance  float32 // per second, for well fed foragers
	InitialForagers  int
	InitialBushes    int
	ForagerMaxAge    float32
	ForagerMaxHunger float32
}

// Census is a world singleton summarising the population. Births counts every
// forager that has appeared, the initial population included.
type Census struct {
	Foragers int
	Bushes   int
	Berries  int
	Births   int
	Deaths   int
}
