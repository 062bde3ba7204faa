package ecs

import (
	"reflect"
	"slices"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const systemsListenerName = "ecs.systems"

// SystemManager owns the systems of a World, keeps their membership lists current and runs
// them every tick in an order where each system comes after all of its declared predecessors.
//
// Systems are keyed by the type they are registered under, so at most one implementation
// exists per key. The execution order is recomputed after systems are added or removed,
// at the next ComputeExecutionOrder, Initialise or Update call.
type SystemManager struct {
	world     *World
	entities  *EntityManager
	registry  *ComponentRegistry
	systems   map[reflect.Type]System
	order     []reflect.Type
	execution []System
	dirty     bool
	orderErr  error
	workers   int
	stats     map[reflect.Type]*systemStatsInternal
	logger    *zap.Logger
}

func newSystemManager(world *World, logger *zap.Logger, workers int) *SystemManager {
	m := &SystemManager{
		world:    world,
		entities: world.entities,
		registry: world.registry,
		systems:  make(map[reflect.Type]System),
		workers:  max(workers, 1),
		stats:    make(map[reflect.Type]*systemStatsInternal),
		logger:   logger,
	}
	m.entities.AddListener(systemsListenerName, systemRelay{m})
	return m
}

// AddSystem registers system under its concrete type.
func (m *SystemManager) AddSystem(system System) error {
	if system == nil {
		panic("ecs: cannot add a nil system")
	}
	return m.add(reflect.TypeOf(system), system)
}

// AddPolymorphicSystem registers system under the base type Base, usually an interface,
// so that it can be looked up and depended upon as Base.
func AddPolymorphicSystem[Base any](m *SystemManager, system System) error {
	if system == nil {
		panic("ecs: cannot add a nil system")
	}
	key := reflect.TypeFor[Base]()
	if _, ok := any(system).(Base); !ok {
		return errors.Wrapf(ErrInvalidSystem, "%T does not implement %s", system, key)
	}
	return m.add(key, system)
}

// RemoveSystem unregisters the system registered under T.
func RemoveSystem[T any](m *SystemManager) error {
	return m.remove(reflect.TypeFor[T]())
}

// GetSystem returns the system registered under T.
func GetSystem[T any](m *SystemManager) (T, error) {
	var zero T
	key := reflect.TypeFor[T]()
	system, ok := m.systems[key]
	if !ok {
		return zero, errors.Wrapf(ErrInvalidSystem, "no system registered as %s", key)
	}
	return any(system).(T), nil
}

// HasSystem reports whether a system is registered under T.
func HasSystem[T any](m *SystemManager) bool {
	_, ok := m.systems[reflect.TypeFor[T]()]
	return ok
}

// Len returns the number of registered systems.
func (m *SystemManager) Len() int {
	return len(m.systems)
}

// Systems returns every registered system in registration order.
func (m *SystemManager) Systems() []System {
	systems := make([]System, len(m.order))
	for i, key := range m.order {
		systems[i] = m.systems[key]
	}
	return systems
}

// ExecutionOrder returns the most recently computed execution order. It is empty while the
// order is stale or invalid.
func (m *SystemManager) ExecutionOrder() []System {
	if m.dirty || m.orderErr != nil {
		return nil
	}
	return slices.Clone(m.execution)
}

func (m *SystemManager) add(key reflect.Type, system System) error {
	if _, exists := m.systems[key]; exists {
		return errors.Wrapf(ErrDuplicateSystem, "a system is already registered as %s", key)
	}
	b := system.base()
	if b.registered {
		return errors.Wrapf(ErrDuplicateSystem, "%T is already registered as %s", system, b.name)
	}

	observer, _ := system.(EntityObserver)
	b.attach(key, m.registry, observer)

	m.systems[key] = system
	m.order = append(m.order, key)
	m.stats[key] = newSystemStats()
	m.dirty = true

	b.populate(m.entities.EntityList())

	m.logger.Debug("system registered",
		zap.String("system", b.name),
		zap.Int("required_components", len(b.required)),
		zap.Int("predecessors", len(b.predecessors)),
		zap.Int("entities", b.Len()))
	return nil
}

func (m *SystemManager) remove(key reflect.Type) error {
	system, ok := m.systems[key]
	if !ok {
		return errors.Wrapf(ErrInvalidSystem, "no system registered as %s", key)
	}

	if s, ok := system.(Shutdowner); ok {
		s.Shutdown(m.world)
	}

	delete(m.systems, key)
	delete(m.stats, key)
	m.order = slices.DeleteFunc(m.order, func(t reflect.Type) bool { return t == key })
	m.dirty = true

	system.base().detach()
	m.logger.Debug("system removed", zap.Stringer("system", key))
	return nil
}

// ComputeExecutionOrder resolves the predecessor graph into a linear order. Every system
// is placed after all of its declared predecessors; systems without a relative constraint
// keep registration order. Fails with ErrInvalidSystem when a predecessor is not registered
// and ErrCircularDependency when the graph has a cycle.
func (m *SystemManager) ComputeExecutionOrder() error {
	m.dirty = false
	m.orderErr = nil
	m.execution = m.execution[:0]
	if len(m.systems) == 0 {
		return nil
	}

	execution := make([]System, 0, len(m.systems))
	resolved := make(map[reflect.Type]bool, len(m.systems))
	resolving := make(map[reflect.Type]bool)

	var resolve func(key reflect.Type) error
	resolve = func(key reflect.Type) error {
		resolving[key] = true
		system := m.systems[key]

		for _, dep := range system.base().predecessors {
			if _, ok := m.systems[dep]; !ok {
				return errors.Wrapf(ErrInvalidSystem, "system %s depends on %s, which is not registered", key, dep)
			}
			if resolved[dep] {
				continue
			}
			if resolving[dep] {
				return errors.Wrapf(ErrCircularDependency, "system %s depends on %s, which depends back on it", key, dep)
			}
			if err := resolve(dep); err != nil {
				return err
			}
		}

		delete(resolving, key)
		resolved[key] = true
		execution = append(execution, system)
		return nil
	}

	for _, key := range m.order {
		if resolved[key] {
			continue
		}
		if err := resolve(key); err != nil {
			m.orderErr = err
			m.logger.Warn("cannot compute system execution order", zap.Error(err))
			return err
		}
	}

	m.execution = execution
	if ce := m.logger.Check(zap.DebugLevel, "system execution order computed"); ce != nil {
		names := make([]string, len(execution))
		for i, system := range execution {
			names[i] = system.base().name
		}
		ce.Write(zap.Strings("order", names))
	}
	return nil
}

// Initialise computes the execution order if needed and initialises every system that
// has not been initialised since it was registered, in execution order.
func (m *SystemManager) Initialise() error {
	if m.dirty || m.orderErr != nil {
		if err := m.ComputeExecutionOrder(); err != nil {
			return err
		}
	}

	for _, system := range m.execution {
		b := system.base()
		if b.initialised {
			continue
		}
		if i, ok := system.(Initialiser); ok {
			if err := i.Initialise(m.world); err != nil {
				return errors.Wrapf(err, "initialise system %s", b.name)
			}
		}
		b.initialised = true
	}
	return nil
}

// Update runs every system once in execution order, then applies the commands queued
// during the frame. When a system fails the frame is abandoned: the remaining systems are
// skipped and the commands queued so far are discarded, never carried into the next frame.
func (m *SystemManager) Update(frame *UpdateFrame) error {
	if err := m.Initialise(); err != nil {
		return err
	}

	for _, system := range m.execution {
		b := system.base()
		start := time.Now()
		err := m.runSystem(frame, system)
		m.stats[b.key].record(time.Since(start))
		if err != nil {
			dropped := frame.Commands.Reset()
			m.logger.Warn("system failed, frame commands dropped",
				zap.String("system", b.name),
				zap.Uint64("tick", frame.Tick),
				zap.Int("dropped_commands", dropped),
				zap.Error(err))
			return errors.Wrapf(err, "update system %s", b.name)
		}
	}

	if err := frame.Commands.Flush(frame.World); err != nil {
		m.logger.Error("failed to apply frame commands", zap.Uint64("tick", frame.Tick), zap.Error(err))
		return err
	}
	return nil
}

func (m *SystemManager) runSystem(frame *UpdateFrame, system System) error {
	if u, ok := system.(Updater); ok {
		return u.Update(frame)
	}

	b := system.base()
	entities := b.entities
	if !b.parallel || m.workers < 2 || len(entities) < 2 {
		for _, entity := range entities {
			system.ProcessEntity(frame, entity)
		}
		return nil
	}

	chunkSize := (len(entities) + m.workers - 1) / m.workers
	var g errgroup.Group
	g.SetLimit(m.workers)
	for start := 0; start < len(entities); start += chunkSize {
		chunk := entities[start:min(start+chunkSize, len(entities))]
		g.Go(func() error {
			for _, entity := range chunk {
				system.ProcessEntity(frame, entity)
			}
			return nil
		})
	}
	return g.Wait()
}

// systemRelay forwards EntityManager notifications to every registered system.
type systemRelay struct {
	m *SystemManager
}

func (r systemRelay) each(fn func(b *SystemBase)) {
	for _, key := range r.m.order {
		fn(r.m.systems[key].base())
	}
}

func (r systemRelay) OnEntityCreated(entity *Entity) {
	r.each(func(b *SystemBase) { b.informEntityUpdate(entity) })
}

func (r systemRelay) OnEntityDestroyed(entity *Entity) {
	r.each(func(b *SystemBase) { b.informDestroyedEntity(entity) })
}

func (r systemRelay) OnComponentAdded(entity *Entity, _ ComponentId) {
	r.each(func(b *SystemBase) { b.informEntityUpdate(entity) })
}

func (r systemRelay) OnComponentRemoved(entity *Entity, _ ComponentId) {
	r.each(func(b *SystemBase) { b.informEntityUpdate(entity) })
}

func (r systemRelay) OnEntitiesReallocated(entities []*Entity) {
	r.each(func(b *SystemBase) { b.informEntitiesReallocated(entities) })
}
