package main

import (
	"flag"
	"fmt"
	"image/color"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/worldecs/ecs"
	"github.com/plus3/worldecs/ecs/debugui"
	debugui_ebiten "github.com/plus3/worldecs/ecs/debugui/ebiten"
	"go.uber.org/zap"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

func main() {
	cfg := DefaultSimConfig()
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed.")
	flag.IntVar(&cfg.InitialForagers, "foragers", cfg.InitialForagers, "Initial number of foragers.")
	flag.IntVar(&cfg.InitialBushes, "bushes", cfg.InitialBushes, "Initial number of berry bushes.")
	debug := flag.Bool("debug", false, "Log at debug level.")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	if !*debug {
		logger = logger.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
	}
	defer logger.Sync()

	backend := debugui_ebiten.NewImguiBackend("World Simulator - ECS Example", ScreenWidth, ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	world, err := NewSimulation(cfg, ecs.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to build simulation", zap.Error(err))
	}
	if _, err := debugui.SpawnDebugUI(world); err != nil {
		logger.Fatal("failed to spawn debug ui", zap.Error(err))
	}
	spawnCensusWindow(world)
	if err := world.Initialise(); err != nil {
		logger.Fatal("failed to initialise systems", zap.Error(err))
	}

	game := debugui_ebiten.NewGame(world, backend)
	game.DrawWorld = func(screen *ebiten.Image) { drawWorld(world, screen) }

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game loop failed", zap.Error(err))
	}
}

func spawnCensusWindow(world *ecs.World) {
	census := ecs.NewSingleton[Census](world)
	window := world.Entities().CreateEntity("census-window")
	ecs.AddComponent(window, debugui.ImguiItem{Render: func() {
		c := census.Get()
		if imgui.BeginV("Census", nil, imgui.WindowFlagsNone) {
			imgui.Text(fmt.Sprintf("Foragers: %d", c.Foragers))
			imgui.Text(fmt.Sprintf("Bushes: %d (%d berries)", c.Bushes, c.Berries))
			imgui.Text(fmt.Sprintf("Births: %d  Deaths: %d", c.Births, c.Deaths))
		}
		imgui.End()
	}})
}

func drawWorld(world *ecs.World, screen *ebiten.Image) {
	screen.Fill(color.RGBA{245, 245, 240, 255})

	cfg := ecs.NewSingleton[SimConfig](world).Get()
	bounds := screen.Bounds()
	scale := min(float32(bounds.Dx())/cfg.Width, float32(bounds.Dy())/cfg.Height)

	for entity := range world.Entities().Iter() {
		pos, err := ecs.GetComponent[Position](entity)
		if err != nil {
			continue
		}
		sprite, err := ecs.GetComponent[Sprite](entity)
		if err != nil {
			continue
		}
		c := color.RGBA{sprite.Color[0], sprite.Color[1], sprite.Color[2], 255}
		vector.DrawFilledCircle(screen, pos.X*scale, pos.Y*scale, sprite.Radius*scale, c, true)
	}
}
