package debugui

import (
	"reflect"
	"testing"
	"time"

	"github.com/plus3/worldecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type position struct {
	X, Y float32
}

type label struct {
	Text    string
	Visible bool
	hidden  int
	Anchor  *position
}

type moverSystem struct {
	ecs.SystemBase
}

func (*moverSystem) ProcessEntity(*ecs.UpdateFrame, *ecs.Entity) {}

type rendererSystem struct {
	ecs.SystemBase
}

func (*rendererSystem) ProcessEntity(*ecs.UpdateFrame, *ecs.Entity) {}

func newTestWorld(t *testing.T) *ecs.World {
	t.Helper()
	world := ecs.NewWorld()

	for i, name := range []string{"player", "tree", "rock"} {
		e := world.Entities().CreateEntity(name)
		_, err := ecs.AddComponent(e, position{X: float32(i)})
		require.NoError(t, err)
		if name == "player" {
			_, err = ecs.AddComponent(e, label{Text: "hero"})
			require.NoError(t, err)
		}
	}
	return world
}

func TestCollectAndFilterEntities(t *testing.T) {
	world := newTestWorld(t)

	entities := collectEntities(world)
	require.Len(t, entities, 3)
	assert.Equal(t, "player", entities[0].Name)
	assert.Equal(t, []string{"debugui.label", "debugui.position"}, entities[0].ComponentTypes)
	assert.Equal(t, 2, entities[0].ComponentCount)

	assert.Len(t, filterEntities(entities, ""), 3)
	assert.Len(t, filterEntities(entities, "ROCK"), 1)
	assert.Len(t, filterEntities(entities, "label"), 1)
	assert.Len(t, filterEntities(entities, "position"), 3)
	assert.Empty(t, filterEntities(entities, "missing"))
}

func TestSortEntities(t *testing.T) {
	entities := collectEntities(newTestWorld(t))

	sortEntities(entities, 1, true)
	assert.Equal(t, []string{"player", "rock", "tree"}, names(entities))

	sortEntities(entities, 3, false)
	assert.Equal(t, "player", entities[0].Name)

	sortEntities(entities, 0, false)
	assert.Equal(t, []string{"rock", "tree", "player"}, names(entities))
}

func names(entities []EntityInfo) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Name
	}
	return out
}

func TestEntityBrowserCacheInvalidation(t *testing.T) {
	world := newTestWorld(t)
	browser := NewEntityBrowserComponent(10)
	browser.attach(world, 99)

	browser.rebuildCacheIfNeeded(world)
	assert.Len(t, browser.cache.entities, 3)
	assert.False(t, browser.cache.dirty)

	world.Entities().CreateEntity("late")
	assert.True(t, browser.cache.dirty)
	browser.rebuildCacheIfNeeded(world)
	assert.Len(t, browser.cache.entities, 4)

	world.Entities().DestroyEntities("tree")
	browser.rebuildCacheIfNeeded(world)
	assert.Len(t, browser.cache.entities, 3)
}

func TestCollectSystems(t *testing.T) {
	world := newTestWorld(t)

	renderer := &rendererSystem{}
	ecs.Require[position](&renderer.SystemBase)
	ecs.After[*moverSystem](&renderer.SystemBase)
	mover := &moverSystem{}
	ecs.Require[position](&mover.SystemBase)
	ecs.Require[label](&mover.SystemBase)
	mover.SetParallel(true)

	require.NoError(t, world.Systems().AddSystem(renderer))
	require.NoError(t, world.Systems().AddSystem(mover))
	require.NoError(t, world.Update())

	systems := collectSystems(world)
	require.Len(t, systems, 2)
	assert.Equal(t, "*debugui.moverSystem", systems[0].Name)
	assert.Equal(t, 0, systems[0].Order)
	assert.Equal(t, []string{"debugui.position", "debugui.label"}, systems[0].Required)
	assert.True(t, systems[0].Parallel)
	assert.Equal(t, 1, systems[0].EntityCount)

	assert.Equal(t, "*debugui.rendererSystem", systems[1].Name)
	assert.Equal(t, []string{"*debugui.moverSystem"}, systems[1].Predecessors)
	assert.Equal(t, 3, systems[1].EntityCount)

	sortSystems(systems, 4, false)
	assert.Equal(t, "*debugui.rendererSystem", systems[0].Name)
	sortSystems(systems, 0, true)
	assert.Equal(t, "*debugui.moverSystem", systems[0].Name)

	assert.Equal(t, "none", joinOrNone(nil))
}

func TestMatchEntities(t *testing.T) {
	world := newTestWorld(t)

	matched := matchEntities(world, []reflect.Type{reflect.TypeOf(position{})})
	assert.Len(t, matched, 3)

	matched = matchEntities(world, []reflect.Type{reflect.TypeOf(position{}), reflect.TypeOf(label{})})
	require.Len(t, matched, 1)
	assert.Equal(t, "player", matched[0].Name())

	qd := NewQueryDebuggerComponent()
	qd.selectedComponentTypes["debugui.label"] = true
	qd.selectedComponentTypes["debugui.gone"] = true
	assert.Equal(t, []reflect.Type{reflect.TypeOf(label{})}, qd.selectedTypes(world.Registry().Types()))
}

func TestReflectionCache(t *testing.T) {
	cache := NewReflectionCache()
	fields := cache.GetFields(reflect.TypeOf(label{}))

	require.Len(t, fields, 3, "unexported fields are skipped")
	assert.Equal(t, "Text", fields[0].Name)
	assert.True(t, fields[0].Editable())
	assert.Equal(t, reflect.Bool, fields[1].Kind)

	anchor := fields[2]
	assert.Equal(t, "Anchor", anchor.Name)
	assert.True(t, anchor.IsPointer)
	assert.Equal(t, reflect.Struct, anchor.Kind)
	assert.False(t, anchor.Editable())
	assert.Equal(t, 3, anchor.Index)

	assert.Equal(t, fields, cache.GetFields(reflect.TypeOf(&label{})))
	assert.Equal(t, 1, cache.Len())
	assert.Empty(t, cache.GetFields(reflect.TypeOf(0)))
}

func TestSetField(t *testing.T) {
	p := &position{}
	val := reflect.ValueOf(p).Elem()

	assert.True(t, setField(val.Field(0), func(f reflect.Value) { f.SetFloat(4) }))
	assert.Equal(t, float32(4), p.X)
	assert.False(t, setField(reflect.ValueOf(position{}).Field(0), func(f reflect.Value) { f.SetFloat(1) }))
}

func TestPerformanceHistory(t *testing.T) {
	ps := NewPerformanceStatsComponent(4)
	assert.InDelta(t, 2.5, ps.record(0.010), 1e-4)
	assert.InDelta(t, 5.0, ps.record(0.010), 1e-4)
	ps.record(0.010)
	ps.record(0.010)
	assert.InDelta(t, 10.0, ps.record((10 * time.Millisecond).Seconds()), 1e-4)
	assert.Equal(t, 1, ps.frameIndex)
}

func TestSpawnDebugUI(t *testing.T) {
	world := newTestWorld(t)

	entity, err := SpawnDebugUI(world)
	require.NoError(t, err)
	assert.Equal(t, DebugEntityName, entity.Name())
	assert.Equal(t, 6, entity.ComponentCount())
	assert.True(t, ecs.HasSystem[*ImguiSystem](world.Systems()))
	assert.Equal(t, 2, world.Entities().ListenerCount())

	imguiSystem, err := ecs.GetSystem[*ImguiSystem](world.Systems())
	require.NoError(t, err)
	assert.Equal(t, 1, imguiSystem.Len())

	// A second debug entity reuses the registered system.
	second, err := SpawnDebugUI(world)
	require.NoError(t, err)
	assert.Equal(t, 1, world.Systems().Len())
	assert.Equal(t, 2, imguiSystem.Len())
	assert.Equal(t, 3, world.Entities().ListenerCount(), "each browser keeps its own listener")

	first := ecs.MustComponent[EntityBrowserComponent](entity).cache
	other := ecs.MustComponent[EntityBrowserComponent](second).cache
	first.dirty, other.dirty = false, false
	world.Entities().CreateEntity("late")
	assert.True(t, first.dirty)
	assert.True(t, other.dirty)
}

func TestDestroyEntityLogsFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	world := ecs.NewWorld(ecs.WithLogger(zap.New(core)))
	entity := world.Entities().CreateEntity("target")

	destroyEntity(world, entity)
	assert.Equal(t, 0, world.Entities().Len())
	assert.Equal(t, 0, logs.Len())

	destroyEntity(world, entity)
	entries := logs.FilterMessage("debug UI could not destroy entity").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "not owned")
}
