package ecs

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// World binds one EntityManager and one SystemManager together and drives them once per frame.
// A World is not safe for concurrent use; call it from the goroutine running the frame loop.
type World struct {
	id         uuid.UUID
	registry   *ComponentRegistry
	entities   *EntityManager
	systems    *SystemManager
	commands   *Commands
	singletons map[reflect.Type]any
	config     Config
	deltaTime  float64
	tick       uint64
	logger     *zap.Logger
}

// Option configures a World.
type Option func(*worldOptions)

type worldOptions struct {
	logger   *zap.Logger
	registry *ComponentRegistry
	config   Config
}

// WithLogger sets the logger used by the world and its managers.
func WithLogger(logger *zap.Logger) Option {
	return func(o *worldOptions) {
		o.logger = logger
	}
}

// WithRegistry shares a component registry between worlds.
func WithRegistry(registry *ComponentRegistry) Option {
	return func(o *worldOptions) {
		o.registry = registry
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *worldOptions) {
		o.config = cfg
	}
}

// WithWorkers bounds the goroutines used by parallel systems.
func WithWorkers(workers int) Option {
	return func(o *worldOptions) {
		o.config.Workers = workers
	}
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	o := worldOptions{
		logger: zap.NewNop(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = NewComponentRegistry()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	id := uuid.New()
	logger := o.logger.With(zap.String("world", id.String()))

	if cfg := o.config.clamped(); cfg != o.config {
		logger.Warn("world config out of range, clamped",
			zap.Int("workers", o.config.Workers),
			zap.Int("initial_capacity", o.config.InitialCapacity))
		o.config = cfg
	}

	w := &World{
		id:         id,
		registry:   o.registry,
		commands:   newCommands(),
		singletons: make(map[reflect.Type]any),
		config:     o.config,
		logger:     logger,
	}
	w.entities = newEntityManager(w.registry, logger.Named("entities"), o.config.InitialCapacity)
	w.systems = newSystemManager(w, logger.Named("systems"), o.config.Workers)

	logger.Debug("world created", zap.Int("workers", w.systems.workers))
	return w
}

// ID returns the world's unique identity.
func (w *World) ID() uuid.UUID {
	return w.id
}

// Registry returns the world's component registry.
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// Entities returns the world's entity manager.
func (w *World) Entities() *EntityManager {
	return w.entities
}

// Systems returns the world's system manager.
func (w *World) Systems() *SystemManager {
	return w.systems
}

// Config returns the configuration the world was built with.
func (w *World) Config() Config {
	return w.config
}

// Logger returns the world's logger.
func (w *World) Logger() *zap.Logger {
	return w.logger
}

// SetDeltaTime sets the time step, in seconds, handed to systems on the next Update.
func (w *World) SetDeltaTime(dt float64) {
	w.deltaTime = dt
}

// DeltaTime returns the current time step in seconds.
func (w *World) DeltaTime() float64 {
	return w.deltaTime
}

// Tick returns the number of completed updates.
func (w *World) Tick() uint64 {
	return w.tick
}

// Initialise validates the system execution order and initialises pending systems.
// Call it before entering the frame loop to surface configuration errors early.
func (w *World) Initialise() error {
	return w.systems.Initialise()
}

// Update runs every system once with the current delta time.
func (w *World) Update() error {
	frame := newUpdateFrame(w, w.commands)
	err := w.systems.Update(frame)
	w.tick++
	return err
}

// Run updates the world at the given interval until ctx is cancelled or an update fails.
// The delta time of each update is the wall time elapsed since the previous one.
func (w *World) Run(ctx context.Context, interval time.Duration) error {
	if err := w.Initialise(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			w.SetDeltaTime(now.Sub(lastTime).Seconds())
			lastTime = now
			if err := w.Update(); err != nil {
				return err
			}
		}
	}
}
