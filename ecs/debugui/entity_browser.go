package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/worldecs/ecs"
)

// entityBrowserListener names the listener of the browser living on entity owner,
// so several debug entities in one world keep separate caches.
func entityBrowserListener(owner ecs.EntityId) string {
	return fmt.Sprintf("debugui.entity-browser.%d", owner)
}

type EntityInfo struct {
	ID             ecs.EntityId
	Name           string
	ComponentTypes []string
	ComponentCount int
}

// EntityBrowserCache holds the rows of the entity table. It listens to the
// entity manager and is rebuilt lazily after any structural change.
type EntityBrowserCache struct {
	ecs.NopEntityListener
	entities      []EntityInfo
	dirty         bool
	sortColumn    int
	sortAscending bool
}

func (c *EntityBrowserCache) OnEntityCreated(*ecs.Entity)                     { c.dirty = true }
func (c *EntityBrowserCache) OnEntityDestroyed(*ecs.Entity)                   { c.dirty = true }
func (c *EntityBrowserCache) OnComponentAdded(*ecs.Entity, ecs.ComponentId)   { c.dirty = true }
func (c *EntityBrowserCache) OnComponentRemoved(*ecs.Entity, ecs.ComponentId) { c.dirty = true }

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			dirty:         true,
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: max(maxEntitiesPerPage, 1),
	}
}

// attach subscribes the browser's cache to world's entity notifications.
func (eb *EntityBrowserComponent) attach(world *ecs.World, owner ecs.EntityId) {
	world.Entities().AddListener(entityBrowserListener(owner), eb.cache)
}

func (eb *EntityBrowserComponent) Render(world *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(world)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.currentPage = 0
	}

	filteredEntities := filterEntities(eb.cache.entities, eb.filterText)
	totalPages := max((len(filteredEntities)+eb.maxEntitiesPerPage-1)/eb.maxEntitiesPerPage, 1)
	eb.currentPage = min(eb.currentPage, totalPages-1)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Name)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	if totalPages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(world *ecs.World) {
	if !eb.cache.dirty && eb.cache.entities != nil {
		return
	}
	eb.cache.entities = collectEntities(world)
	sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
	eb.cache.dirty = false
}

func (eb *EntityBrowserComponent) GetSelectedEntity() ecs.EntityId {
	return eb.selectedEntityId
}

func collectEntities(world *ecs.World) []EntityInfo {
	registry := world.Registry()
	entities := make([]EntityInfo, 0, world.Entities().Len())

	for entity := range world.Entities().Iter() {
		ids := entity.ComponentIds()
		componentTypes := make([]string, len(ids))
		for i, id := range ids {
			componentTypes[i] = registry.Name(id)
		}
		sort.Strings(componentTypes)

		entities = append(entities, EntityInfo{
			ID:             entity.ID(),
			Name:           entity.Name(),
			ComponentTypes: componentTypes,
			ComponentCount: len(componentTypes),
		})
	}
	return entities
}

func sortEntities(entities []EntityInfo, column int, ascending bool) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if !ascending {
			a, b = b, a
		}

		switch column {
		case 1:
			return a.Name < b.Name
		case 2:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			return a.ComponentCount < b.ComponentCount
		default:
			return a.ID < b.ID
		}
	})
}

// filterEntities keeps the rows whose columns contain text, ignoring case.
func filterEntities(entities []EntityInfo, text string) []EntityInfo {
	if text == "" {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		idStr := fmt.Sprintf("%d", entity.ID)
		nameStr := strings.ToLower(entity.Name)
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

		if strings.Contains(idStr, filterLower) ||
			strings.Contains(nameStr, filterLower) ||
			strings.Contains(componentsStr, filterLower) {
			filtered = append(filtered, entity)
		}
	}
	return filtered
}
