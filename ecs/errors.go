package ecs

import "github.com/pkg/errors"

// Every error below is a programmer error raised synchronously at the offending call site.
// Call sites wrap them with context; match with errors.Is.
var (
	// ErrDuplicateComponent is returned when an entity already holds a component of the added type.
	ErrDuplicateComponent = errors.New("ecs: duplicate component")
	// ErrMissingComponent is returned when a required component is absent from an entity.
	ErrMissingComponent = errors.New("ecs: missing component")
	// ErrNotFound is returned for entity ids that do not name a live entity.
	ErrNotFound = errors.New("ecs: entity not found")
	// ErrDuplicateSystem is returned when a second system is registered under a used base type.
	ErrDuplicateSystem = errors.New("ecs: duplicate system")
	// ErrInvalidSystem is returned when querying or depending on an unregistered system type.
	ErrInvalidSystem = errors.New("ecs: invalid system")
	// ErrCircularDependency is returned when the predecessor graph contains a cycle.
	ErrCircularDependency = errors.New("ecs: circular dependency")
)
