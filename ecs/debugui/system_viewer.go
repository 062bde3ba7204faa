package debugui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/worldecs/ecs"
)

// SystemInfo is one row of the system viewer.
type SystemInfo struct {
	Order        int
	Name         string
	Required     []string
	Predecessors []string
	Parallel     bool
	EntityCount  int
	AvgDuration  time.Duration
}

func NewSystemViewerComponent() SystemViewerComponent {
	return SystemViewerComponent{
		sortColumn:    0,
		sortAscending: true,
	}
}

func (sv *SystemViewerComponent) Render(world *ecs.World) {
	if !imgui.BeginV("System Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if world.Systems().Len() > 0 && world.Systems().ExecutionOrder() == nil {
		imgui.Text("Execution order not computed; rows follow registration order")
	}

	systems := collectSystems(world)
	sortSystems(systems, sv.sortColumn, sv.sortAscending)

	maxEntityCount := 0
	for _, s := range systems {
		maxEntityCount = max(maxEntityCount, s.EntityCount)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("SystemTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Order")
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Requires")
		imgui.TableSetupColumn("Avg Time")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			sv.sortColumn = int(spec.ColumnIndex())
			sv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSystems(systems, sv.sortColumn, sv.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, s := range systems {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", s.Order))

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(s.Name, sv.selectedSystem == s.Name, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				sv.selectedSystem = s.Name
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(s.Required, ", "))

			imgui.TableNextColumn()
			imgui.Text(s.AvgDuration.String())

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", s.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(s.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	for _, s := range systems {
		if s.Name != sv.selectedSystem {
			continue
		}
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Runs after: %s", joinOrNone(s.Predecessors)))
		imgui.Text(fmt.Sprintf("Parallel: %v", s.Parallel))
	}

	imgui.End()
}

// collectSystems describes every registered system, numbered by execution order.
func collectSystems(world *ecs.World) []SystemInfo {
	bases := make(map[string]*ecs.SystemBase, world.Systems().Len())
	for _, s := range world.Systems().Systems() {
		b := ecs.BaseOf(s)
		bases[b.Name()] = b
	}

	stats := world.Systems().Stats()
	systems := make([]SystemInfo, 0, len(stats.Systems))
	for i, st := range stats.Systems {
		info := SystemInfo{
			Order:       i,
			Name:        st.Name,
			EntityCount: st.EntityCount,
			AvgDuration: st.AvgDuration,
		}
		if b, ok := bases[st.Name]; ok {
			for _, t := range b.RequiredComponents() {
				info.Required = append(info.Required, t.String())
			}
			for _, t := range b.Predecessors() {
				info.Predecessors = append(info.Predecessors, t.String())
			}
			info.Parallel = b.Parallel()
		}
		systems = append(systems, info)
	}
	return systems
}

func sortSystems(systems []SystemInfo, column int, ascending bool) {
	sort.SliceStable(systems, func(i, j int) bool {
		a, b := systems[i], systems[j]
		if !ascending {
			a, b = b, a
		}

		switch column {
		case 1:
			return a.Name < b.Name
		case 2:
			return strings.Join(a.Required, ",") < strings.Join(b.Required, ",")
		case 3:
			return a.AvgDuration < b.AvgDuration
		case 4:
			return a.EntityCount < b.EntityCount
		default:
			return a.Order < b.Order
		}
	})
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
