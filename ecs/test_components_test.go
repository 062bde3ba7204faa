package ecs_test

import "github.com/plus3/worldecs/ecs"

// Common test component types
type Position struct {
	X, Y, Z float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type Inventory struct {
	Items []string
}

// recorder collects the order in which systems process entities.
type recorder struct {
	calls []string
}

func (r *recorder) record(system string, entity *ecs.Entity) {
	r.calls = append(r.calls, system+":"+entity.Name())
}

// trackingListener records every EntityManager notification it receives.
type trackingListener struct {
	created      []ecs.EntityId
	destroyed    []ecs.EntityId
	added        []ecs.ComponentId
	removed      []ecs.ComponentId
	reallocated  int
	lastSnapshot []*ecs.Entity
	// seenComponentsOnDestroy records the component count of entities at destruction time.
	seenComponentsOnDestroy []int
}

func (l *trackingListener) OnEntityCreated(e *ecs.Entity) {
	l.created = append(l.created, e.ID())
}

func (l *trackingListener) OnEntityDestroyed(e *ecs.Entity) {
	l.destroyed = append(l.destroyed, e.ID())
	l.seenComponentsOnDestroy = append(l.seenComponentsOnDestroy, e.ComponentCount())
}

func (l *trackingListener) OnComponentAdded(_ *ecs.Entity, id ecs.ComponentId) {
	l.added = append(l.added, id)
}

func (l *trackingListener) OnComponentRemoved(_ *ecs.Entity, id ecs.ComponentId) {
	l.removed = append(l.removed, id)
}

func (l *trackingListener) OnEntitiesReallocated(entities []*ecs.Entity) {
	l.reallocated++
	l.lastSnapshot = entities
}

func mustAdd[T any](t interface{ Fatalf(string, ...any) }, e *ecs.Entity, c T) {
	if _, err := ecs.AddComponent(e, c); err != nil {
		t.Fatalf("add %T to %s: %v", c, e, err)
	}
}
