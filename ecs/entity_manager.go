package ecs

import (
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// EntityManager owns every entity of a World in a contiguous, insertion ordered list.
//
// References handed out by the manager stay usable until the next structural change.
// Whenever the list is reshaped (a creation that grows its capacity, or any destruction)
// listeners receive OnEntitiesReallocated and must drop cached positions; holders that need
// an entity across that window should keep its EntityId and re-resolve it with GetEntity.
type EntityManager struct {
	registry  *ComponentRegistry
	entities  []*Entity
	index     *intmap.Map[EntityId, int]
	nextId    EntityId
	listeners *listenerSet[EntityListener]
	logger    *zap.Logger
}

// NewEntityManager creates an empty manager resolving component types through registry.
func NewEntityManager(registry *ComponentRegistry, logger *zap.Logger) *EntityManager {
	return newEntityManager(registry, logger, 0)
}

func newEntityManager(registry *ComponentRegistry, logger *zap.Logger, capacity int) *EntityManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityManager{
		registry:  registry,
		entities:  make([]*Entity, 0, capacity),
		index:     intmap.New[EntityId, int](max(capacity, 64)),
		nextId:    1,
		listeners: newListenerSet[EntityListener](),
		logger:    logger,
	}
}

// AddListener registers l under name, replacing any listener already using that name.
func (m *EntityManager) AddListener(name string, l EntityListener) {
	m.listeners.Set(name, l)
	m.logger.Debug("entity listener registered", zap.String("listener", name))
}

// RemoveListener unregisters the listener with the given name.
func (m *EntityManager) RemoveListener(name string) bool {
	return m.listeners.Remove(name)
}

// ListenerCount returns the number of registered listeners.
func (m *EntityManager) ListenerCount() int {
	return m.listeners.Len()
}

// CreateEntity appends a new entity with a fresh id. The returned pointer must be
// treated as valid only until the next structural change; keep the id to find it later.
func (m *EntityManager) CreateEntity(name string) *Entity {
	entity := newEntity(m.nextId, name, m)
	m.nextId++

	oldCap := cap(m.entities)
	m.entities = append(m.entities, entity)
	m.index.Put(entity.id, len(m.entities)-1)

	m.listeners.Each(func(l EntityListener) { l.OnEntityCreated(entity) })

	if cap(m.entities) != oldCap {
		m.logger.Debug("entity storage grew",
			zap.Int("old_capacity", oldCap),
			zap.Int("new_capacity", cap(m.entities)))
		m.notifyReallocated()
	}
	return entity
}

// DestroyEntity destroys entity and releases its components.
func (m *EntityManager) DestroyEntity(entity *Entity) error {
	if entity == nil {
		return errors.Wrap(ErrNotFound, "nil entity")
	}
	idx, ok := m.index.Get(entity.id)
	if !ok || m.entities[idx] != entity {
		return errors.Wrapf(ErrNotFound, "entity %s is not owned by this manager", entity)
	}

	m.destroyAt(idx)
	m.notifyReallocated()
	return nil
}

// DestroyEntities destroys every entity whose name equals name and returns how many were destroyed.
func (m *EntityManager) DestroyEntities(name string) int {
	destroyed := 0
	for i := 0; i < len(m.entities); {
		if m.entities[i].name != name {
			i++
			continue
		}
		m.destroyAt(i)
		destroyed++
	}

	if destroyed > 0 {
		m.notifyReallocated()
	}
	return destroyed
}

// DestroyAllEntities destroys every entity, firing one destroyed notification per entity
// followed by a single reallocation notification.
func (m *EntityManager) DestroyAllEntities() {
	for _, entity := range m.entities {
		m.listeners.Each(func(l EntityListener) { l.OnEntityDestroyed(entity) })
		entity.release()
	}
	clear(m.entities)
	m.entities = m.entities[:0]
	m.index.Clear()
	m.notifyReallocated()
}

// GetEntity returns the live entity with the given id.
func (m *EntityManager) GetEntity(id EntityId) (*Entity, error) {
	idx, ok := m.index.Get(id)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "no live entity with id %d", id)
	}
	return m.entities[idx], nil
}

// FindByName returns every live entity whose name equals name, in storage order.
func (m *EntityManager) FindByName(name string) []*Entity {
	var found []*Entity
	for _, entity := range m.entities {
		if entity.name == name {
			found = append(found, entity)
		}
	}
	return found
}

// EntityList returns a read-only view of all live entities in storage order.
// The slice must not be modified and is only valid until the next structural change.
func (m *EntityManager) EntityList() []*Entity {
	return m.entities
}

// Iter returns an iterator over all live entities in storage order.
func (m *EntityManager) Iter() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for _, entity := range m.entities {
			if !yield(entity) {
				return
			}
		}
	}
}

// Len returns the number of live entities.
func (m *EntityManager) Len() int {
	return len(m.entities)
}

func (m *EntityManager) informAddComponent(entity *Entity, id ComponentId) {
	m.listeners.Each(func(l EntityListener) { l.OnComponentAdded(entity, id) })
}

func (m *EntityManager) informRemoveComponent(entity *Entity, id ComponentId) {
	m.listeners.Each(func(l EntityListener) { l.OnComponentRemoved(entity, id) })
}

// destroyAt notifies listeners, then removes and releases the entity at idx.
func (m *EntityManager) destroyAt(idx int) {
	entity := m.entities[idx]
	m.listeners.Each(func(l EntityListener) { l.OnEntityDestroyed(entity) })

	m.entities = slices.Delete(m.entities, idx, idx+1)
	m.index.Del(entity.id)
	for i := idx; i < len(m.entities); i++ {
		m.index.Put(m.entities[i].id, i)
	}
	entity.release()
}

func (m *EntityManager) notifyReallocated() {
	entities := m.entities
	m.listeners.Each(func(l EntityListener) { l.OnEntitiesReallocated(entities) })
}
