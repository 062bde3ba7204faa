package ecs

// EntityListener receives entity lifecycle notifications from an EntityManager.
// Notifications are delivered synchronously, in listener registration order, before
// the triggering call returns.
type EntityListener interface {
	// OnEntityCreated fires after the entity has been stored.
	OnEntityCreated(entity *Entity)
	// OnEntityDestroyed fires before the entity is removed; its components are still attached.
	OnEntityDestroyed(entity *Entity)
	OnComponentAdded(entity *Entity, component ComponentId)
	OnComponentRemoved(entity *Entity, component ComponentId)
	// OnEntitiesReallocated fires when entity storage was reshaped. Listeners caching
	// positions or references into the entity list must refresh them from entities.
	OnEntitiesReallocated(entities []*Entity)
}

// NopEntityListener implements EntityListener with no-ops. Embed it to handle a subset of events.
type NopEntityListener struct{}

func (NopEntityListener) OnEntityCreated(*Entity)                 {}
func (NopEntityListener) OnEntityDestroyed(*Entity)               {}
func (NopEntityListener) OnComponentAdded(*Entity, ComponentId)   {}
func (NopEntityListener) OnComponentRemoved(*Entity, ComponentId) {}
func (NopEntityListener) OnEntitiesReallocated([]*Entity)         {}

// listenerSet is an ordered name -> listener mapping.
type listenerSet[L any] struct {
	names     []string
	listeners map[string]L
}

func newListenerSet[L any]() *listenerSet[L] {
	return &listenerSet[L]{
		listeners: make(map[string]L),
	}
}

// Set registers l under name. An existing listener with the same name is replaced in place.
func (s *listenerSet[L]) Set(name string, l L) {
	if _, exists := s.listeners[name]; !exists {
		s.names = append(s.names, name)
	}
	s.listeners[name] = l
}

func (s *listenerSet[L]) Remove(name string) bool {
	if _, exists := s.listeners[name]; !exists {
		return false
	}
	delete(s.listeners, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

func (s *listenerSet[L]) Get(name string) (L, bool) {
	l, ok := s.listeners[name]
	return l, ok
}

func (s *listenerSet[L]) Len() int {
	return len(s.names)
}

// Each calls fn for every listener in registration order.
func (s *listenerSet[L]) Each(fn func(L)) {
	for _, name := range s.names {
		fn(s.listeners[name])
	}
}
