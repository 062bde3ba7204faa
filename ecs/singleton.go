package ecs

import "reflect"

// Singleton provides access to a single value of type T owned by a World rather than by
// any entity. Use it for global state such as input devices or frame timers.
type Singleton[T any] struct {
	world *World
}

// NewSingleton returns an accessor for the world's T singleton, creating it from
// initializer (or the zero value) if it does not exist yet.
func NewSingleton[T any](world *World, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()
	if _, ok := world.singletons[t]; !ok {
		value := new(T)
		if len(initializer) > 0 {
			*value = initializer[0]
		}
		world.singletons[t] = value
	}

	return &Singleton[T]{world: world}
}

// Get returns a pointer to the singleton value, or nil if it was removed.
// The world is consulted on every call so removal is observed immediately.
func (s *Singleton[T]) Get() *T {
	if value, ok := s.world.singletons[reflect.TypeFor[T]()]; ok {
		return value.(*T)
	}
	return nil
}

// Exists reports whether the singleton is present in the world.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

// RemoveSingleton deletes the world's T singleton. Existing accessors return nil afterwards.
func RemoveSingleton[T any](world *World) bool {
	t := reflect.TypeFor[T]()
	if _, ok := world.singletons[t]; !ok {
		return false
	}
	delete(world.singletons, t)
	return true
}
