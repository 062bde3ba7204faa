package ecs

import (
	"reflect"
	"sync"

	"go.uber.org/multierr"
)

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// This prevents structural changes to entity storage while systems are iterating it.
// Commands is safe for concurrent use, so parallel systems may queue from several goroutines.
type Commands struct {
	mu       sync.Mutex
	creates  []createCommand
	destroys []EntityId
	adds     []addComponentCommand
	removes  []removeComponentCommand
	defers   []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type createCommand struct {
	name       string
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.mu.Lock()
	c.defers = append(c.defers, deferCommand{fn: fn})
	c.mu.Unlock()
}

// Create queues the creation of an entity with the given name and components.
func (c *Commands) Create(name string, components ...any) {
	c.mu.Lock()
	c.creates = append(c.creates, createCommand{name: name, components: components})
	c.mu.Unlock()
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(entity EntityId) {
	c.mu.Lock()
	c.destroys = append(c.destroys, entity)
	c.mu.Unlock()
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.mu.Lock()
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
	c.mu.Unlock()
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.mu.Lock()
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
	c.mu.Unlock()
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.creates) + len(c.destroys) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Reset discards every queued command and returns how many were dropped.
func (c *Commands) Reset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.creates) + len(c.destroys) + len(c.adds) + len(c.removes) + len(c.defers)
	c.creates, c.destroys, c.adds, c.removes, c.defers = nil, nil, nil, nil, nil
	return n
}

// Flush applies all queued commands to world and resets the buffer. Destructions run first,
// then removals, additions, creations and deferred functions. Operations targeting an entity
// destroyed in the same flush are skipped. Every failure is collected and returned.
func (c *Commands) Flush(world *World) error {
	c.mu.Lock()
	creates, destroys, adds, removes, defers := c.creates, c.destroys, c.adds, c.removes, c.defers
	c.creates, c.destroys, c.adds, c.removes, c.defers = nil, nil, nil, nil, nil
	c.mu.Unlock()

	entities := world.Entities()
	destroyed := make(map[EntityId]bool, len(destroys))
	var err error

	for _, id := range destroys {
		if destroyed[id] {
			continue
		}
		entity, lookupErr := entities.GetEntity(id)
		if lookupErr != nil {
			err = multierr.Append(err, lookupErr)
			continue
		}
		err = multierr.Append(err, entities.DestroyEntity(entity))
		destroyed[id] = true
	}

	for _, cmd := range removes {
		if destroyed[cmd.entity] {
			continue
		}
		entity, lookupErr := entities.GetEntity(cmd.entity)
		if lookupErr != nil {
			err = multierr.Append(err, lookupErr)
			continue
		}
		err = multierr.Append(err, entity.Remove(cmd.compType))
	}

	for _, cmd := range adds {
		if destroyed[cmd.entity] {
			continue
		}
		entity, lookupErr := entities.GetEntity(cmd.entity)
		if lookupErr != nil {
			err = multierr.Append(err, lookupErr)
			continue
		}
		err = multierr.Append(err, entity.Add(cmd.component))
	}

	for _, cmd := range creates {
		entity := entities.CreateEntity(cmd.name)
		for _, component := range cmd.components {
			err = multierr.Append(err, entity.Add(component))
		}
	}

	for _, df := range defers {
		df.fn()
	}

	return err
}
