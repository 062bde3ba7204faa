package main

import (
	"math"
	"math/rand"

	"github.com/plus3/worldecs/ecs"
)

// SeekSystem points hungry foragers at the nearest bush that still has berries.
type SeekSystem struct {
	ecs.SystemBase
	rng    *rand.Rand
	bushes *RegrowthSystem
}

func NewSeekSystem(rng *rand.Rand) *SeekSystem {
	s := &SeekSystem{rng: rng}
	ecs.Require[Forager](&s.SystemBase)
	ecs.Require[Position](&s.SystemBase)
	ecs.Require[Velocity](&s.SystemBase)
	ecs.After[*RegrowthSystem](&s.SystemBase)
	return s
}

func (s *SeekSystem) Initialise(world *ecs.World) error {
	bushes, err := ecs.GetSystem[*RegrowthSystem](world.Systems())
	s.bushes = bushes
	return err
}

func (s *SeekSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	forager := ecs.MustComponent[Forager](entity)
	pos := ecs.MustComponent[Position](entity)
	vel := ecs.MustComponent[Velocity](entity)

	if forager.Target == 0 && forager.Hunger > forager.MaxHunger/2 {
		forager.Target = s.nearestBush(pos)
	}

	if forager.Target == 0 {
		// Wander: nudge the heading a little every tick.
		angle := math.Atan2(float64(vel.DY), float64(vel.DX)) + (s.rng.Float64()-0.5)*0.5
		vel.DX = float32(math.Cos(angle)) * forager.Speed / 2
		vel.DY = float32(math.Sin(angle)) * forager.Speed / 2
		return
	}

	target, err := frame.World.Entities().GetEntity(forager.Target)
	if err != nil {
		forager.Target = 0
		return
	}
	tp := ecs.MustComponent[Position](target)
	dx, dy := tp.X-pos.X, tp.Y-pos.Y
	dist := float32(math.Hypot(float64(dx), float64(dy)))
	if dist < 1e-3 {
		vel.DX, vel.DY = 0, 0
		return
	}
	vel.DX = dx / dist * forager.Speed
	vel.DY = dy / dist * forager.Speed
}

func (s *SeekSystem) nearestBush(pos *Position) ecs.EntityId {
	var nearest ecs.EntityId
	best := float32(math.MaxFloat32)
	for _, entity := range s.bushes.Entities() {
		if ecs.MustComponent[Bush](entity).Berries == 0 {
			continue
		}
		bp := ecs.MustComponent[Position](entity)
		d := (bp.X-pos.X)*(bp.X-pos.X) + (bp.Y-pos.Y)*(bp.Y-pos.Y)
		if d < best {
			best = d
			nearest = entity.ID()
		}
	}
	return nearest
}

// MovementSystem integrates velocities and keeps entities inside the world bounds.
type MovementSystem struct {
	ecs.SystemBase
	config *ecs.Singleton[SimConfig]
}

func NewMovementSystem() *MovementSystem {
	s := &MovementSystem{}
	ecs.Require[Position](&s.SystemBase)
	ecs.Require[Velocity](&s.SystemBase)
	ecs.After[*SeekSystem](&s.SystemBase)
	s.SetParallel(true)
	return s
}

func (s *MovementSystem) Initialise(world *ecs.World) error {
	s.config = ecs.NewSingleton[SimConfig](world)
	return nil
}

func (s *MovementSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	cfg := s.config.Get()
	pos := ecs.MustComponent[Position](entity)
	vel := ecs.MustComponent[Velocity](entity)
	dt := float32(frame.DeltaTime)

	pos.X += vel.DX * dt
	pos.Y += vel.DY * dt

	if pos.X < 0 || pos.X > cfg.Width {
		vel.DX = -vel.DX
		pos.X = min(max(pos.X, 0), cfg.Width)
	}
	if pos.Y < 0 || pos.Y > cfg.Height {
		vel.DY = -vel.DY
		pos.Y = min(max(pos.Y, 0), cfg.Height)
	}
}

// EatSystem feeds foragers standing at their target bush.
type EatSystem struct {
	ecs.SystemBase
}

func NewEatSystem() *EatSystem {
	s := &EatSystem{}
	ecs.Require[Forager](&s.SystemBase)
	ecs.Require[Position](&s.SystemBase)
	ecs.After[*MovementSystem](&s.SystemBase)
	return s
}

const eatRange = 1.0

func (s *EatSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	forager := ecs.MustComponent[Forager](entity)
	if forager.Target == 0 {
		return
	}

	target, err := frame.World.Entities().GetEntity(forager.Target)
	if err != nil {
		forager.Target = 0
		return
	}
	pos := ecs.MustComponent[Position](entity)
	tp := ecs.MustComponent[Position](target)
	if math.Hypot(float64(tp.X-pos.X), float64(tp.Y-pos.Y)) > eatRange {
		return
	}

	bush := ecs.MustComponent[Bush](target)
	if bush.Berries > 0 {
		bush.Berries--
		forager.Hunger = 0
	}
	forager.Target = 0
}

// HungerSystem starves foragers that went too long without food.
type HungerSystem struct {
	ecs.SystemBase
}

func NewHungerSystem() *HungerSystem {
	s := &HungerSystem{}
	ecs.Require[Forager](&s.SystemBase)
	ecs.After[*EatSystem](&s.SystemBase)
	return s
}

func (s *HungerSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	forager := ecs.MustComponent[Forager](entity)
	forager.Hunger += float32(frame.DeltaTime)
	if forager.Hunger >= forager.MaxHunger {
		frame.Commands.Destroy(entity.ID())
	}
}

type LifespanSystem struct {
	ecs.SystemBase
}

func NewLifespanSystem() *LifespanSystem {
	s := &LifespanSystem{}
	ecs.Require[Lifespan](&s.SystemBase)
	return s
}

func (s *LifespanSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	lifespan := ecs.MustComponent[Lifespan](entity)
	lifespan.Age += float32(frame.DeltaTime)
	if lifespan.Age >= lifespan.MaxAge {
		frame.Commands.Destroy(entity.ID())
	}
}

// ReproductionSystem lets well fed foragers spawn offspring next to them.
type ReproductionSystem struct {
	ecs.SystemBase
	rng    *rand.Rand
	config *ecs.Singleton[SimConfig]
}

func NewReproductionSystem(rng *rand.Rand) *ReproductionSystem {
	s := &ReproductionSystem{rng: rng}
	ecs.Require[Forager](&s.SystemBase)
	ecs.Require[Position](&s.SystemBase)
	ecs.After[*HungerSystem](&s.SystemBase)
	return s
}

func (s *ReproductionSystem) Initialise(world *ecs.World) error {
	s.config = ecs.NewSingleton[SimConfig](world)
	return nil
}

func (s *ReproductionSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	forager := ecs.MustComponent[Forager](entity)
	if forager.Hunger > forager.MaxHunger*0.2 {
		return
	}
	chance := s.config.Get().ReproduceChance * float32(frame.DeltaTime)
	if s.rng.Float32() >= chance {
		return
	}

	pos := ecs.MustComponent[Position](entity)
	sprite := ecs.MustComponent[Sprite](entity)
	frame.Commands.Create("forager", foragerComponents(s.rng, s.config.Get(), pos.X, pos.Y, sprite.Color)...)
	forager.Hunger = forager.MaxHunger / 2
}

// RegrowthSystem grows berries back on bushes.
type RegrowthSystem struct {
	ecs.SystemBase
}

func NewRegrowthSystem() *RegrowthSystem {
	s := &RegrowthSystem{}
	ecs.Require[Bush](&s.SystemBase)
	return s
}

func (s *RegrowthSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	bush := ecs.MustComponent[Bush](entity)
	if bush.Berries >= bush.MaxBerries {
		bush.progress = 0
		return
	}
	bush.progress += bush.Regrowth * float32(frame.DeltaTime)
	for bush.progress >= 1 && bush.Berries < bush.MaxBerries {
		bush.Berries++
		bush.progress--
	}
}

// CensusSystem keeps the Census singleton current. Births and deaths are counted
// from forager membership changes.
type CensusSystem struct {
	ecs.SystemBase
	census  *ecs.Singleton[Census]
	bushes  *RegrowthSystem
	pending Census
}

func NewCensusSystem() *CensusSystem {
	s := &CensusSystem{}
	ecs.Require[Forager](&s.SystemBase)
	ecs.After[*ReproductionSystem](&s.SystemBase)
	ecs.After[*RegrowthSystem](&s.SystemBase)
	return s
}

func (s *CensusSystem) Initialise(world *ecs.World) error {
	s.census = ecs.NewSingleton[Census](world)
	bushes, err := ecs.GetSystem[*RegrowthSystem](world.Systems())
	s.bushes = bushes
	return err
}

func (s *CensusSystem) OnEntityAdded(*ecs.Entity)   { s.pending.Births++ }
func (s *CensusSystem) OnEntityRemoved(*ecs.Entity) { s.pending.Deaths++ }

func (s *CensusSystem) ProcessEntity(*ecs.UpdateFrame, *ecs.Entity) {}

func (s *CensusSystem) Update(*ecs.UpdateFrame) error {
	census := s.census.Get()
	census.Foragers = s.Len()
	census.Bushes = s.bushes.Len()
	census.Berries = 0
	for _, entity := range s.bushes.Entities() {
		census.Berries += ecs.MustComponent[Bush](entity).Berries
	}
	census.Births = s.pending.Births
	census.Deaths = s.pending.Deaths
	return nil
}
