// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/worldecs/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a world singleton.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem defers the render function of every entity holding an ImguiItem.
// It also updates the ImguiInputState singleton with current input capture state.
// Render functions run after every other system, when the frame's commands are applied,
// so the windows they draw reflect the state at the end of the tick.
type ImguiSystem struct {
	ecs.SystemBase
	input *ecs.Singleton[ImguiInputState]
}

// NewImguiSystem creates the system. Register it with World.Systems().AddSystem.
func NewImguiSystem() *ImguiSystem {
	s := &ImguiSystem{}
	ecs.Require[ImguiItem](&s.SystemBase)
	return s
}

func (s *ImguiSystem) Initialise(world *ecs.World) error {
	s.input = ecs.NewSingleton[ImguiInputState](world)
	return nil
}

// Update refreshes the input state, then queues every render function.
func (s *ImguiSystem) Update(frame *ecs.UpdateFrame) error {
	if state := s.input.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for _, entity := range s.Entities() {
		s.ProcessEntity(frame, entity)
	}
	return nil
}

func (s *ImguiSystem) ProcessEntity(frame *ecs.UpdateFrame, entity *ecs.Entity) {
	if item := ecs.MustComponent[ImguiItem](entity); item.Render != nil {
		frame.Commands.Defer(item.Render)
	}
}
