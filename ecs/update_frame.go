package ecs

// UpdateFrame carries per-tick state to every system.
type UpdateFrame struct {
	DeltaTime float64
	Tick      uint64
	Commands  *Commands
	World     *World
}

func newUpdateFrame(world *World, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: world.deltaTime,
		Tick:      world.tick,
		Commands:  commands,
		World:     world,
	}
}
