package ecs_test

import (
	"context"
	"fmt"
	"time"

	"github.com/plus3/worldecs/ecs"
)

type Transform struct {
	X, Y float32
}

type Speed struct {
	DX, DY float32
}

type Hitpoints struct {
	Current, Max int
}

type PhysicsSystem struct {
	ecs.SystemBase
}

func NewPhysicsSystem() *PhysicsSystem {
	s := &PhysicsSystem{}
	ecs.Require[Transform](&s.SystemBase)
	ecs.Require[Speed](&s.SystemBase)
	return s
}

func (s *PhysicsSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	t := ecs.MustComponent[Transform](entity)
	v := ecs.MustComponent[Speed](entity)
	t.X += v.DX * float32(frame.DeltaTime)
	t.Y += v.DY * float32(frame.DeltaTime)
}

// ReportSystem prints positions after physics has moved everything.
type ReportSystem struct {
	ecs.SystemBase
}

func NewReportSystem() *ReportSystem {
	s := &ReportSystem{}
	ecs.Require[Transform](&s.SystemBase)
	ecs.After[*PhysicsSystem](&s.SystemBase)
	return s
}

func (s *ReportSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	t := ecs.MustComponent[Transform](entity)
	fmt.Printf("tick %d: %s at (%.1f, %.1f)\n", frame.Tick, entity.Name(), t.X, t.Y)
}

type CleanupSystem struct {
	ecs.SystemBase
}

func NewCleanupSystem() *CleanupSystem {
	s := &CleanupSystem{}
	ecs.Require[Hitpoints](&s.SystemBase)
	return s
}

func (s *CleanupSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	if ecs.MustComponent[Hitpoints](entity).Current <= 0 {
		frame.Commands.Destroy(entity.ID())
	}
}

// ExampleWorld demonstrates registering dependent systems and running updates.
// ReportSystem is registered first, but runs after PhysicsSystem because it
// declares it as a predecessor.
func ExampleWorld() {
	world := ecs.NewWorld()
	world.Systems().AddSystem(NewReportSystem())
	world.Systems().AddSystem(NewPhysicsSystem())

	ship := world.Entities().CreateEntity("ship")
	ecs.AddComponent(ship, Transform{})
	ecs.AddComponent(ship, Speed{DX: 2, DY: 1})

	buoy := world.Entities().CreateEntity("buoy")
	ecs.AddComponent(buoy, Transform{X: 5, Y: 5})

	world.SetDeltaTime(0.5)
	world.Update()
	world.Update()

	// Output:
	// tick 0: ship at (1.0, 0.5)
	// tick 0: buoy at (5.0, 5.0)
	// tick 1: ship at (2.0, 1.0)
	// tick 1: buoy at (5.0, 5.0)
}

// ExampleCommands demonstrates using command buffers to defer entity mutations.
// Destroying entities while a system iterates its membership list would reshape
// the list underneath it, so systems queue the change and the World applies it
// after every system has run.
func ExampleCommands() {
	world := ecs.NewWorld()
	world.Systems().AddSystem(NewCleanupSystem())

	for i, hp := range []int{0, 50, 100} {
		e := world.Entities().CreateEntity(fmt.Sprintf("unit-%d", i))
		ecs.AddComponent(e, Hitpoints{Current: hp, Max: 100})
	}

	world.Update()
	fmt.Printf("Remaining entities: %d\n", world.Entities().Len())
	for e := range world.Entities().Iter() {
		fmt.Println(e.Name())
	}

	// Output:
	// Remaining entities: 2
	// unit-1
	// unit-2
}

// ExampleWorld_Run demonstrates the fixed interval update loop. Run returns
// when the context is cancelled.
func ExampleWorld_Run() {
	world := ecs.NewWorld()
	world.Systems().AddSystem(NewPhysicsSystem())

	e := world.Entities().CreateEntity("drifter")
	ecs.AddComponent(e, Transform{})
	ecs.AddComponent(e, Speed{DX: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := world.Run(ctx, 5*time.Millisecond); err != nil {
		fmt.Println("error:", err)
	}

	fmt.Println("ran:", world.Tick() > 0)
	fmt.Println("moved:", ecs.MustComponent[Transform](e).X > 0)

	// Output:
	// ran: true
	// moved: true
}
