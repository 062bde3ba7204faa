package debugui

import "github.com/plus3/worldecs/ecs"

// DebugEntityName names the entity carrying the debug windows.
const DebugEntityName = "debugui"

// SpawnDebugUI creates the debug tool windows on a single entity and registers an
// ImguiSystem if the world has none. The entity browser's selection drives the
// component inspector.
func SpawnDebugUI(world *ecs.World) (*ecs.Entity, error) {
	if !ecs.HasSystem[*ImguiSystem](world.Systems()) {
		if err := world.Systems().AddSystem(NewImguiSystem()); err != nil {
			return nil, err
		}
	}

	entity := world.Entities().CreateEntity(DebugEntityName)
	for _, component := range []any{
		NewEntityBrowserComponent(100),
		NewComponentInspectorComponent(),
		NewSystemViewerComponent(),
		NewPerformanceStatsComponent(120),
		NewQueryDebuggerComponent(),
	} {
		if err := entity.Add(component); err != nil {
			return nil, err
		}
	}
	id := entity.ID()
	ecs.MustComponent[EntityBrowserComponent](entity).attach(world, id)

	_, err := ecs.AddComponent(entity, ImguiItem{Render: func() { renderDebugUI(world, id) }})
	return entity, err
}

func renderDebugUI(world *ecs.World, id ecs.EntityId) {
	entity, err := world.Entities().GetEntity(id)
	if err != nil {
		return
	}

	browser := ecs.MustComponent[EntityBrowserComponent](entity)
	browser.Render(world)
	ecs.MustComponent[ComponentInspectorComponent](entity).Render(world, browser.GetSelectedEntity())
	if !entity.Alive() {
		return
	}
	ecs.MustComponent[SystemViewerComponent](entity).Render(world)
	ecs.MustComponent[PerformanceStatsComponent](entity).Render(world)
	ecs.MustComponent[QueryDebuggerComponent](entity).Render(world)
}
