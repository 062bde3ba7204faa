package debugui

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/worldecs/ecs"
)

// maxQueryResults caps the entity names listed under a query.
const maxQueryResults = 50

func NewQueryDebuggerComponent() QueryDebuggerComponent {
	return QueryDebuggerComponent{
		selectedComponentTypes: make(map[string]bool),
	}
}

// Render lets the user pick component types and lists the entities a system
// requiring exactly those types would process.
func (qd *QueryDebuggerComponent) Render(world *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selectedComponentTypes = make(map[string]bool)
	}

	registered := world.Registry().Types()
	for _, t := range registered {
		name := t.String()
		selected := qd.selectedComponentTypes[name]
		if imgui.Checkbox(name, &selected) {
			if selected {
				qd.selectedComponentTypes[name] = true
			} else {
				delete(qd.selectedComponentTypes, name)
			}
		}
	}

	imgui.Separator()

	selectedTypes := qd.selectedTypes(registered)
	if len(selectedTypes) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matching := matchEntities(world, selectedTypes)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Entities") {
		for i, entity := range matching {
			if i == maxQueryResults {
				imgui.Text(fmt.Sprintf("... and %d more", len(matching)-maxQueryResults))
				break
			}
			imgui.BulletText(entity.String())
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebuggerComponent) selectedTypes(registered []reflect.Type) []reflect.Type {
	var selected []reflect.Type
	for _, t := range registered {
		if qd.selectedComponentTypes[t.String()] {
			selected = append(selected, t)
		}
	}
	return selected
}

// matchEntities returns the live entities holding every type in required, sorted by id.
func matchEntities(world *ecs.World, required []reflect.Type) []*ecs.Entity {
	var matching []*ecs.Entity
	for entity := range world.Entities().Iter() {
		if entityHasAllTypes(entity, required) {
			matching = append(matching, entity)
		}
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].ID() < matching[j].ID() })
	return matching
}

func entityHasAllTypes(entity *ecs.Entity, required []reflect.Type) bool {
	for _, t := range required {
		if _, err := entity.Get(t); err != nil {
			return false
		}
	}
	return true
}
