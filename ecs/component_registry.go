package ecs

import (
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ComponentId is a stable identifier for a component type, derived from the
// fully-qualified type name.
type ComponentId uint64

// ComponentRegistry maps component types to ComponentIds for a World.
// Each World has its own registry unless one is shared explicitly with WithRegistry.
// Types are registered lazily the first time they are added to an entity or
// required by a system; RegisterComponent can be used to register up front.
type ComponentRegistry struct {
	mu    sync.RWMutex
	ids   map[reflect.Type]ComponentId
	types map[ComponentId]reflect.Type
}

// NewComponentRegistry creates a new, empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		ids:   make(map[reflect.Type]ComponentId),
		types: make(map[ComponentId]reflect.Type),
	}
}

// RegisterComponent registers T with the registry and returns its id.
// Registering the same type twice returns the same id.
func RegisterComponent[T any](r *ComponentRegistry) ComponentId {
	return r.register(reflect.TypeFor[T]())
}

// ComponentIdFor returns the id of T, registering it if needed.
func ComponentIdFor[T any](r *ComponentRegistry) ComponentId {
	return r.register(reflect.TypeFor[T]())
}

// TypeOf returns the component type registered under id.
func (r *ComponentRegistry) TypeOf(id ComponentId) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[id]
	return t, ok
}

// Name returns a human readable name for id, or its hex value when unknown.
func (r *ComponentRegistry) Name(id ComponentId) string {
	if t, ok := r.TypeOf(id); ok {
		return t.String()
	}
	return "0x" + strconv.FormatUint(uint64(id), 16)
}

// Len returns the number of registered component types.
func (r *ComponentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// Types returns all registered component types sorted by name.
func (r *ComponentRegistry) Types() []reflect.Type {
	r.mu.RLock()
	types := make([]reflect.Type, 0, len(r.ids))
	for t := range r.ids {
		types = append(types, t)
	}
	r.mu.RUnlock()
	sort.Sort(byTypeName(types))
	return types
}

func (r *ComponentRegistry) register(t reflect.Type) ComponentId {
	t = componentType(t)

	r.mu.RLock()
	id, ok := r.ids[t]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[t]; ok {
		return id
	}

	name := qualifiedTypeName(t)
	id = ComponentId(xxhash.Sum64String(name))
	for probe := 1; ; probe++ {
		if _, taken := r.types[id]; !taken {
			break
		}
		id = ComponentId(xxhash.Sum64String(name + "#" + strconv.Itoa(probe)))
	}

	r.ids[t] = id
	r.types[id] = t
	return id
}

// lookup returns the id of t without registering it.
func (r *ComponentRegistry) lookup(t reflect.Type) (ComponentId, bool) {
	t = componentType(t)
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.ids[t]
	return id, ok
}

// componentType normalises pointer types to their element type and rejects
// kinds that cannot be stored as components.
func componentType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	// Components can be structs or primitives (int, string, etc.)
	// But not pointers, maps, channels, or functions (those aren't value types)
	if t.Kind() == reflect.Ptr || t.Kind() == reflect.Map ||
		t.Kind() == reflect.Chan || t.Kind() == reflect.Func {
		panic("ecs: components cannot be pointers, maps, channels, or functions: " + t.String())
	}
	return t
}

func qualifiedTypeName(t reflect.Type) string {
	if t.PkgPath() != "" && t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }
