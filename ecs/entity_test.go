package ecs_test

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/plus3/worldecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentRoundTrip(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.Entities().CreateEntity("player")

	same, err := ecs.AddComponent(entity, Position{X: 1, Y: 2, Z: 3})
	require.NoError(t, err)
	assert.Same(t, entity, same)

	pos, err := ecs.GetComponent[Position](entity)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 1, Y: 2, Z: 3}, *pos)
	assert.True(t, ecs.HasComponent[Position](entity))

	require.NoError(t, ecs.RemoveComponent[Position](entity))
	assert.False(t, ecs.HasComponent[Position](entity))
	assert.Equal(t, 0, entity.ComponentCount())
}

func TestPointerComponentRoundTrip(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.Entities().CreateEntity("player")

	_, err := ecs.AddComponent(entity, &Position{X: 1, Y: 2, Z: 3})
	require.NoError(t, err)
	assert.True(t, ecs.HasComponent[*Position](entity))
	assert.True(t, ecs.HasComponent[Position](entity))

	ref, err := ecs.GetComponent[*Position](entity)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 1, Y: 2, Z: 3}, **ref)

	(*ref).X = 9
	assert.Equal(t, float32(9), ecs.MustComponent[Position](entity).X, "edits reach the stored component")
	assert.Same(t, ecs.MustComponent[Position](entity), *ecs.MustComponent[*Position](entity))

	require.NoError(t, ecs.RemoveComponent[*Position](entity))
	assert.False(t, ecs.HasComponent[Position](entity))
	_, err = ecs.GetComponent[*Position](entity)
	assert.ErrorIs(t, err, ecs.ErrMissingComponent)
}

func TestComponentIsOwnedCopy(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.Entities().CreateEntity("e")

	original := &Health{Current: 10, Max: 20}
	require.NoError(t, entity.Add(original))
	original.Current = 0

	health := ecs.MustComponent[Health](entity)
	assert.Equal(t, 10, health.Current)

	health.Current = 5
	assert.Equal(t, 5, ecs.MustComponent[Health](entity).Current)
}

func TestDuplicateComponent(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.Entities().CreateEntity("e")

	mustAdd(t, entity, Velocity{DX: 1})
	_, err := ecs.AddComponent(entity, Velocity{DX: 2})
	assert.True(t, errors.Is(err, ecs.ErrDuplicateComponent))

	err = entity.Add(&Velocity{DX: 3})
	assert.True(t, errors.Is(err, ecs.ErrDuplicateComponent))

	assert.Equal(t, float32(1), ecs.MustComponent[Velocity](entity).DX)
}

func TestMissingComponent(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.Entities().CreateEntity("e")

	_, err := ecs.GetComponent[Health](entity)
	assert.True(t, errors.Is(err, ecs.ErrMissingComponent))
	assert.False(t, ecs.HasComponent[Health](entity))

	err = ecs.RemoveComponent[Health](entity)
	assert.True(t, errors.Is(err, ecs.ErrMissingComponent))

	assert.Panics(t, func() { ecs.MustComponent[Health](entity) })
}

func TestPrimitiveComponents(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.Entities().CreateEntity("e")

	mustAdd(t, entity, Score(42))
	mustAdd(t, entity, Tag("boss"))

	assert.Equal(t, Score(42), *ecs.MustComponent[Score](entity))
	assert.Equal(t, Tag("boss"), *ecs.MustComponent[Tag](entity))
	assert.Equal(t, 2, entity.ComponentCount())
}

func TestTypeErasedAccess(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.Entities().CreateEntity("e")

	require.NoError(t, entity.Add(Name{Value: "alpha"}))

	c, err := entity.Get(reflect.TypeOf(Name{}))
	require.NoError(t, err)
	assert.Equal(t, "alpha", c.(*Name).Value)

	// Pointer types resolve to the same component.
	c, err = entity.Get(reflect.TypeOf(&Name{}))
	require.NoError(t, err)
	assert.Equal(t, "alpha", c.(*Name).Value)

	require.NoError(t, entity.Remove(reflect.TypeOf(Name{})))
	_, err = entity.Get(reflect.TypeOf(Name{}))
	assert.True(t, errors.Is(err, ecs.ErrMissingComponent))
}

func TestComponentsSortedByType(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.Entities().CreateEntity("e")
	mustAdd(t, entity, Velocity{})
	mustAdd(t, entity, Health{})
	mustAdd(t, entity, Position{})

	var names []string
	for _, c := range entity.Components() {
		names = append(names, reflect.TypeOf(c).String())
	}
	assert.Equal(t, []string{"*ecs_test.Health", "*ecs_test.Position", "*ecs_test.Velocity"}, names)
	assert.Len(t, entity.ComponentIds(), 3)
}

func TestInvalidComponentKinds(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.Entities().CreateEntity("e")

	assert.Panics(t, func() { _ = entity.Add(map[string]int{}) })
	assert.Panics(t, func() { _ = entity.Add(func() {}) })
	assert.Panics(t, func() { _ = entity.Add(nil) })
}

func TestDestroyedEntityRejectsMutation(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.Entities().CreateEntity("e")
	mustAdd(t, entity, Position{})

	require.NoError(t, world.Entities().DestroyEntity(entity))
	assert.False(t, entity.Alive())
	assert.Equal(t, 0, entity.ComponentCount())

	_, err := ecs.AddComponent(entity, Velocity{})
	assert.True(t, errors.Is(err, ecs.ErrNotFound))
	assert.False(t, ecs.HasComponent[Position](entity))
}

func TestComponentRegistry(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	posId := ecs.RegisterComponent[Position](registry)
	assert.Equal(t, posId, ecs.RegisterComponent[Position](registry))
	assert.Equal(t, posId, ecs.ComponentIdFor[*Position](registry))
	assert.NotEqual(t, posId, ecs.ComponentIdFor[Velocity](registry))

	typ, ok := registry.TypeOf(posId)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(Position{}), typ)
	assert.Equal(t, "ecs_test.Position", registry.Name(posId))
	assert.Equal(t, 2, registry.Len())
	assert.Equal(t, []reflect.Type{reflect.TypeOf(Position{}), reflect.TypeOf(Velocity{})}, registry.Types())

	// Ids are derived from the type name, so separate registries agree.
	other := ecs.NewComponentRegistry()
	assert.Equal(t, posId, ecs.RegisterComponent[Position](other))
}

func TestComponentRegistryLocalTypeCollision(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	first := func() ecs.ComponentId {
		type local struct{ A int }
		return ecs.RegisterComponent[local](registry)
	}()
	second := func() ecs.ComponentId {
		type local struct{ B string }
		return ecs.RegisterComponent[local](registry)
	}()

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, registry.Len())
}
