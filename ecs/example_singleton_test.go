package ecs_test

import (
	"fmt"

	"github.com/plus3/worldecs/ecs"
)

type GameConfig struct {
	MaxPlayers int
	Difficulty string
}

type GameScore struct {
	Points int
	Level  int
}

// ExampleNewSingleton demonstrates creating and accessing singletons.
// Singletons are world-owned values not associated with any entity, useful for
// game state, configuration, or other application-wide data.
func ExampleNewSingleton() {
	world := ecs.NewWorld()

	// Create singleton with initializer
	config := ecs.NewSingleton[GameConfig](world, GameConfig{
		MaxPlayers: 4,
		Difficulty: "Normal",
	})

	fmt.Printf("Config: %d players, %s difficulty\n", config.Get().MaxPlayers, config.Get().Difficulty)

	// Modify the singleton
	config.Get().Difficulty = "Hard"
	fmt.Printf("Updated difficulty: %s\n", config.Get().Difficulty)

	// Create another reference to the same singleton
	sameConfig := ecs.NewSingleton[GameConfig](world)
	fmt.Printf("Same config: %s difficulty\n", sameConfig.Get().Difficulty)

	// Output:
	// Config: 4 players, Normal difficulty
	// Updated difficulty: Hard
	// Same config: Hard difficulty
}

// ExampleSingleton_multipleReferences shows that multiple Singleton instances
// reference the same underlying data.
func ExampleSingleton_multipleReferences() {
	world := ecs.NewWorld()

	score1 := ecs.NewSingleton[GameScore](world, GameScore{Points: 0, Level: 1})
	fmt.Printf("Score1: %d points, Level %d\n", score1.Get().Points, score1.Get().Level)

	score1.Get().Points = 100
	score1.Get().Level = 2

	// An initializer is ignored once the singleton exists.
	score2 := ecs.NewSingleton[GameScore](world, GameScore{Points: -1})
	fmt.Printf("Score2: %d points, Level %d\n", score2.Get().Points, score2.Get().Level)

	score2.Get().Points = 250
	fmt.Printf("Score1 after Score2 update: %d points\n", score1.Get().Points)

	// Output:
	// Score1: 0 points, Level 1
	// Score2: 100 points, Level 2
	// Score1 after Score2 update: 250 points
}

// ExampleRemoveSingleton shows that accessors observe removal.
func ExampleRemoveSingleton() {
	world := ecs.NewWorld()
	score := ecs.NewSingleton[GameScore](world)

	fmt.Println("exists:", score.Exists())
	fmt.Println("removed:", ecs.RemoveSingleton[GameScore](world))
	fmt.Println("exists:", score.Exists())
	fmt.Println("removed again:", ecs.RemoveSingleton[GameScore](world))

	// Output:
	// exists: true
	// removed: true
	// exists: false
	// removed again: false
}

// ExampleRemoveSingleton_recreate shows that an accessor created before removal
// follows a singleton recreated afterwards.
func ExampleRemoveSingleton_recreate() {
	world := ecs.NewWorld()
	score := ecs.NewSingleton[GameScore](world, GameScore{Points: 10})

	ecs.RemoveSingleton[GameScore](world)
	fmt.Println("after remove:", score.Get() == nil)

	ecs.NewSingleton[GameScore](world, GameScore{Points: 42})
	fmt.Println("after recreate:", score.Get().Points)

	// Output:
	// after remove: true
	// after recreate: 42
}
