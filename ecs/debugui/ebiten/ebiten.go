// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/worldecs/ecs"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its window. imgui.ini persistence is disabled.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend}
}

// Game implements ebiten.Game by updating a World once per Ebiten tick inside an
// ImGui frame. The backend is stored as a world singleton so systems can reach it.
type Game struct {
	world   *ecs.World
	backend *ecs.Singleton[ImguiBackend]

	// DrawWorld renders game content before the ImGui overlay. Optional.
	DrawWorld func(screen *ebiten.Image)
}

func NewGame(world *ecs.World, backend *ImguiBackend) *Game {
	return &Game{
		world:   world,
		backend: ecs.NewSingleton[ImguiBackend](world, *backend),
	}
}

func (g *Game) Update() error {
	backend := g.backend.Get()

	// Begin ImGui frame before running systems; ImguiSystem's deferred renders
	// execute while the frame's commands are applied.
	backend.BeginFrame()
	g.world.SetDeltaTime(1.0 / float64(ebiten.TPS()))
	err := g.world.Update()
	backend.EndFrame()

	return err
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.DrawWorld != nil {
		g.DrawWorld(screen)
	}
	g.backend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
