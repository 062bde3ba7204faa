package main

import (
	"math"
	"math/rand"

	"github.com/plus3/worldecs/ecs"
)

// spawnSystem creates the per-tick churn of new entities.
type spawnSystem struct {
	ecs.SystemBase
	rng      *rand.Rand
	perTick  int
	lifetime int
}

func newSpawnSystem(rng *rand.Rand, perTick, lifetime int) *spawnSystem {
	return &spawnSystem{rng: rng, perTick: perTick, lifetime: lifetime}
}

func (s *spawnSystem) ProcessEntity(*ecs.UpdateFrame, *ecs.Entity) {}

func (s *spawnSystem) Update(frame *ecs.UpdateFrame) error {
	for i := 0; i < s.perTick; i++ {
		frame.Commands.Create("spawned", randomComponents(s.rng, s.lifetime)...)
	}
	return nil
}

type movementSystem struct {
	ecs.SystemBase
}

func newMovementSystem() *movementSystem {
	s := &movementSystem{}
	ecs.Require[Position](&s.SystemBase)
	ecs.Require[Velocity](&s.SystemBase)
	return s
}

func (s *movementSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	pos := ecs.MustComponent[Position](entity)
	vel := ecs.MustComponent[Velocity](entity)
	pos.X += vel.DX * frame.DeltaTime
	pos.Y += vel.DY * frame.DeltaTime
}

// damageSystem wears down moving entities in proportion to their speed.
type damageSystem struct {
	ecs.SystemBase
}

func newDamageSystem() *damageSystem {
	s := &damageSystem{}
	ecs.Require[Health](&s.SystemBase)
	ecs.Require[Velocity](&s.SystemBase)
	ecs.After[*movementSystem](&s.SystemBase)
	return s
}

func (s *damageSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	vel := ecs.MustComponent[Velocity](entity)
	ecs.MustComponent[Health](entity).Current -= math.Hypot(vel.DX, vel.DY) * frame.DeltaTime
}

type lifetimeSystem struct {
	ecs.SystemBase
}

func newLifetimeSystem() *lifetimeSystem {
	s := &lifetimeSystem{}
	ecs.Require[Lifetime](&s.SystemBase)
	ecs.After[*movementSystem](&s.SystemBase)
	return s
}

func (s *lifetimeSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	lifetime := ecs.MustComponent[Lifetime](entity)
	lifetime.Ticks--
	if lifetime.Ticks == 0 {
		frame.Commands.Destroy(entity.ID())
	}
}

// reaperSystem removes entities whose health ran out.
type reaperSystem struct {
	ecs.SystemBase
}

func newReaperSystem() *reaperSystem {
	s := &reaperSystem{}
	ecs.Require[Health](&s.SystemBase)
	ecs.After[*damageSystem](&s.SystemBase)
	return s
}

func (s *reaperSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	if ecs.MustComponent[Health](entity).Current <= 0 {
		frame.Commands.Destroy(entity.ID())
	}
}

// markerSystem toggles a marker component so membership churns every tick.
type markerSystem struct {
	ecs.SystemBase
}

func newMarkerSystem() *markerSystem {
	s := &markerSystem{}
	ecs.Require[Position](&s.SystemBase)
	ecs.After[*movementSystem](&s.SystemBase)
	return s
}

func (s *markerSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	if ecs.HasComponent[Marker](entity) {
		frame.Commands.RemoveComponent(entity.ID(), markerType)
	} else if ecs.MustComponent[Position](entity).X > 0 {
		frame.Commands.AddComponent(entity.ID(), Marker{})
	}
}

func randomComponents(rng *rand.Rand, lifetime int) []any {
	components := []any{Position{X: rng.Float64() * 100, Y: rng.Float64() * 100}}
	if rng.Intn(4) != 0 {
		components = append(components, Velocity{DX: rng.NormFloat64(), DY: rng.NormFloat64()})
	}
	if rng.Intn(2) == 0 {
		components = append(components, Health{Current: 50 + rng.Float64()*50})
	}
	if lifetime > 0 && rng.Intn(3) == 0 {
		components = append(components, Lifetime{Ticks: 1 + rng.Intn(lifetime)})
	}
	return components
}
