package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"sort"

	"github.com/pkg/errors"
)

// EntityId identifies an entity within its EntityManager. Ids start at 1 and are never reused,
// so 0 never names an entity.
type EntityId uint64

// Entity is a named container owning at most one component of each type.
// Entities are created and destroyed by their EntityManager and must not be copied.
type Entity struct {
	id         EntityId
	name       string
	components map[ComponentId]any
	manager    *EntityManager
}

func newEntity(id EntityId, name string, manager *EntityManager) *Entity {
	return &Entity{
		id:         id,
		name:       name,
		components: make(map[ComponentId]any),
		manager:    manager,
	}
}

// ID returns the entity's unique id.
func (e *Entity) ID() EntityId {
	return e.id
}

// Name returns the entity's display name. Names are not unique.
func (e *Entity) Name() string {
	return e.name
}

// Alive reports whether the entity is still owned by its manager.
func (e *Entity) Alive() bool {
	return e.manager != nil
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s#%d", e.name, e.id)
}

// Has reports whether the entity holds a component for every id given.
// With no ids it always returns true.
func (e *Entity) Has(ids ...ComponentId) bool {
	for _, id := range ids {
		if _, ok := e.components[id]; !ok {
			return false
		}
	}
	return true
}

// ComponentCount returns the number of components attached to the entity.
func (e *Entity) ComponentCount() int {
	return len(e.components)
}

// ComponentIds returns the ids of every attached component in ascending order.
func (e *Entity) ComponentIds() []ComponentId {
	ids := make([]ComponentId, 0, len(e.components))
	for id := range e.components {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Components returns pointers to every attached component, sorted by type name.
func (e *Entity) Components() []any {
	components := make([]any, 0, len(e.components))
	for _, c := range e.components {
		components = append(components, c)
	}
	sort.Slice(components, func(i, j int) bool {
		return reflect.TypeOf(components[i]).String() < reflect.TypeOf(components[j]).String()
	})
	return components
}

// Add attaches a copy of component to the entity. component may be a value or a pointer;
// pointers are dereferenced so the entity always owns its data.
func (e *Entity) Add(component any) error {
	if component == nil {
		panic("ecs: cannot add a nil component")
	}
	if e.manager == nil {
		return e.destroyedError()
	}

	t := reflect.TypeOf(component)
	val := reflect.ValueOf(component)
	if t.Kind() == reflect.Ptr {
		if val.IsNil() {
			panic("ecs: cannot add a nil component")
		}
		t = t.Elem()
		val = val.Elem()
	}

	id := e.manager.registry.register(t)
	ptr := reflect.New(t)
	ptr.Elem().Set(val)
	return e.attach(id, t, ptr.Interface())
}

// Remove detaches the component of type t.
func (e *Entity) Remove(t reflect.Type) error {
	if e.manager == nil {
		return e.destroyedError()
	}

	id, ok := e.manager.registry.lookup(t)
	if !ok || !e.Has(id) {
		return errors.Wrapf(ErrMissingComponent, "entity %s has no %s", e, componentType(t))
	}

	delete(e.components, id)
	e.manager.informRemoveComponent(e, id)
	return nil
}

// Get returns a pointer to the component of type t.
func (e *Entity) Get(t reflect.Type) (any, error) {
	if e.manager == nil {
		return nil, e.destroyedError()
	}

	id, ok := e.manager.registry.lookup(t)
	if ok {
		if c, found := e.components[id]; found {
			return c, nil
		}
	}
	return nil, errors.Wrapf(ErrMissingComponent, "entity %s has no %s", e, componentType(t))
}

func (e *Entity) attach(id ComponentId, t reflect.Type, ptr any) error {
	if _, exists := e.components[id]; exists {
		return errors.Wrapf(ErrDuplicateComponent, "entity %s already has %s", e, t)
	}

	e.components[id] = ptr
	e.manager.informAddComponent(e, id)
	return nil
}

func (e *Entity) destroyedError() error {
	return errors.Wrapf(ErrNotFound, "entity %s has been destroyed", e)
}

// release drops every component and detaches the entity from its manager.
func (e *Entity) release() {
	clear(e.components)
	e.manager = nil
}

// AddComponent attaches a copy of component to e and returns e for chaining.
func AddComponent[T any](e *Entity, component T) (*Entity, error) {
	if reflect.TypeFor[T]().Kind() == reflect.Ptr {
		return e, e.Add(component)
	}
	if e.manager == nil {
		return e, e.destroyedError()
	}

	ptr := new(T)
	*ptr = component
	id := ComponentIdFor[T](e.manager.registry)
	return e, e.attach(id, reflect.TypeFor[T](), ptr)
}

// RemoveComponent detaches the component of type T from e.
func RemoveComponent[T any](e *Entity) error {
	return e.Remove(reflect.TypeFor[T]())
}

// GetComponent returns a pointer to e's component of type T. When T is itself a
// pointer type, the result points at the entity's stored pointer, so **result
// is the component the entity owns.
func GetComponent[T any](e *Entity) (*T, error) {
	c, err := e.Get(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	if ptr, ok := c.(*T); ok {
		return ptr, nil
	}
	ref := new(T)
	*ref = c.(T)
	return ref, nil
}

// MustComponent is like GetComponent but panics when the component is missing.
// Systems use it for components they declared as required.
func MustComponent[T any](e *Entity) *T {
	c, err := GetComponent[T](e)
	if err != nil {
		panic(err)
	}
	return c
}

// HasComponent reports whether e holds a component of type T. It never fails.
func HasComponent[T any](e *Entity) bool {
	if e.manager == nil {
		return false
	}
	id, ok := e.manager.registry.lookup(reflect.TypeFor[T]())
	return ok && e.Has(id)
}
