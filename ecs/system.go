package ecs

import (
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
)

// System represents per-entity logic. Implementations embed SystemBase, declare their
// required components and predecessors with Require and After before registration, and
// receive ProcessEntity once per tick for every entity holding all required components.
//
// ProcessEntity must not create or destroy entities or add or remove components directly;
// structural changes go through frame.Commands and are applied after all systems ran.
type System interface {
	ProcessEntity(frame *UpdateFrame, entity *Entity)
	base() *SystemBase
}

// Updater replaces the default per-entity loop of a System.
// Implementations can iterate SystemBase.Entities themselves.
type Updater interface {
	Update(frame *UpdateFrame) error
}

// Initialiser is implemented by systems that need one-time setup. Initialise runs at most
// once per registration, during the first SystemManager.Initialise or World.Update after
// the system was added, in execution order.
type Initialiser interface {
	Initialise(world *World) error
}

// Shutdowner is implemented by systems that release resources when removed.
type Shutdowner interface {
	Shutdown(world *World)
}

// EntityObserver is implemented by systems that want to know when entities
// join or leave their membership list.
type EntityObserver interface {
	OnEntityAdded(entity *Entity)
	OnEntityRemoved(entity *Entity)
}

// SystemBase holds the declarations and filtered entity list of a System.
type SystemBase struct {
	required     []reflect.Type
	predecessors []reflect.Type
	parallel     bool

	key         reflect.Type
	name        string
	requiredIds []ComponentId
	entities    []*Entity
	positions   *intmap.Map[EntityId, int]
	observer    EntityObserver
	initialised bool
	registered  bool
}

func (b *SystemBase) base() *SystemBase {
	return b
}

// BaseOf returns the SystemBase embedded in s, for tools that inspect systems generically.
func BaseOf(s System) *SystemBase {
	return s.base()
}

// Require declares that the system only processes entities holding a T component.
// Must be called before the system is registered.
func Require[T any](b *SystemBase) {
	b.mustBeUnregistered()
	t := componentType(reflect.TypeFor[T]())
	if !slices.Contains(b.required, t) {
		b.required = append(b.required, t)
	}
}

// After declares that the system runs after the system registered under type T.
// T is the concrete system type, or the base type used with AddPolymorphicSystem.
// Must be called before the system is registered.
func After[T any](b *SystemBase) {
	b.mustBeUnregistered()
	t := reflect.TypeFor[T]()
	if !slices.Contains(b.predecessors, t) {
		b.predecessors = append(b.predecessors, t)
	}
}

// SetParallel allows the system's entities to be processed concurrently within one tick.
// The system's ProcessEntity must then be safe for concurrent use across distinct entities.
func (b *SystemBase) SetParallel(enabled bool) {
	b.parallel = enabled
}

// Parallel reports whether the system opted into concurrent entity processing.
func (b *SystemBase) Parallel() bool {
	return b.parallel
}

// Name returns the type name the system is registered under, empty before registration.
func (b *SystemBase) Name() string {
	return b.name
}

// Initialised reports whether the system has been initialised since registration.
func (b *SystemBase) Initialised() bool {
	return b.initialised
}

// RequiredComponents returns the component types declared with Require.
func (b *SystemBase) RequiredComponents() []reflect.Type {
	return slices.Clone(b.required)
}

// Predecessors returns the system types declared with After.
func (b *SystemBase) Predecessors() []reflect.Type {
	return slices.Clone(b.predecessors)
}

// Entities returns the entities the system currently processes. The slice is a read-only
// view valid until the next structural change; order is unspecified.
func (b *SystemBase) Entities() []*Entity {
	return b.entities
}

// Len returns the number of entities the system currently processes.
func (b *SystemBase) Len() int {
	return len(b.entities)
}

// Contains reports whether the entity with the given id is in the system's membership list.
func (b *SystemBase) Contains(id EntityId) bool {
	if b.positions == nil {
		return false
	}
	_, ok := b.positions.Get(id)
	return ok
}

func (b *SystemBase) mustBeUnregistered() {
	if b.registered {
		panic("ecs: system requirements must be declared before registration")
	}
}

func (b *SystemBase) attach(key reflect.Type, registry *ComponentRegistry, observer EntityObserver) {
	b.key = key
	b.name = key.String()
	b.requiredIds = make([]ComponentId, len(b.required))
	for i, t := range b.required {
		b.requiredIds[i] = registry.register(t)
	}
	b.positions = intmap.New[EntityId, int](64)
	b.observer = observer
	b.initialised = false
	b.registered = true
}

func (b *SystemBase) detach() {
	clear(b.entities)
	b.entities = b.entities[:0]
	b.positions = nil
	b.observer = nil
	b.key = nil
	b.name = ""
	b.initialised = false
	b.registered = false
}

func (b *SystemBase) matches(entity *Entity) bool {
	return entity.Alive() && entity.Has(b.requiredIds...)
}

// informEntityUpdate re-evaluates the membership of entity after it was created or
// had a component added or removed.
func (b *SystemBase) informEntityUpdate(entity *Entity) {
	pos, member := b.positions.Get(entity.id)
	matches := b.matches(entity)

	switch {
	case member && !matches:
		b.removeAt(pos)
		if b.observer != nil {
			b.observer.OnEntityRemoved(entity)
		}
	case !member && matches:
		b.add(entity)
		if b.observer != nil {
			b.observer.OnEntityAdded(entity)
		}
	}
}

func (b *SystemBase) informDestroyedEntity(entity *Entity) {
	pos, member := b.positions.Get(entity.id)
	if !member {
		return
	}
	b.removeAt(pos)
	if b.observer != nil {
		b.observer.OnEntityRemoved(entity)
	}
}

// informEntitiesReallocated drops every cached reference and rebuilds the membership list
// from the authoritative entity list.
func (b *SystemBase) informEntitiesReallocated(entities []*Entity) {
	clear(b.entities)
	b.entities = b.entities[:0]
	b.positions.Clear()
	for _, entity := range entities {
		if b.matches(entity) {
			b.add(entity)
		}
	}
}

// populate fills an empty membership list on registration, notifying the observer.
func (b *SystemBase) populate(entities []*Entity) {
	for _, entity := range entities {
		b.informEntityUpdate(entity)
	}
}

func (b *SystemBase) add(entity *Entity) {
	b.positions.Put(entity.id, len(b.entities))
	b.entities = append(b.entities, entity)
}

func (b *SystemBase) removeAt(pos int) {
	last := len(b.entities) - 1
	removed := b.entities[pos]
	if pos != last {
		moved := b.entities[last]
		b.entities[pos] = moved
		b.positions.Put(moved.id, pos)
	}
	b.entities[last] = nil
	b.entities = b.entities[:last]
	b.positions.Del(removed.id)
}
