package main

import (
	"io"
	"math/rand"
	"os"
	"slices"

	"github.com/pkg/errors"
	"github.com/plus3/worldecs/ecs"
	"gopkg.in/yaml.v3"
)

// Scenario selects the systems a stress run registers and tunes the entity churn.
type Scenario struct {
	Seed         int64    `yaml:"seed"`
	SpawnPerTick int      `yaml:"spawn_per_tick"`
	MaxLifetime  int      `yaml:"max_lifetime"`
	Systems      []string `yaml:"systems"`
	Parallel     []string `yaml:"parallel"`
}

// systemFactories maps scenario names to system constructors.
var systemFactories = map[string]func(s Scenario, rng *rand.Rand) ecs.System{
	"spawn":    func(s Scenario, rng *rand.Rand) ecs.System { return newSpawnSystem(rng, s.SpawnPerTick, s.MaxLifetime) },
	"movement": func(Scenario, *rand.Rand) ecs.System { return newMovementSystem() },
	"damage":   func(Scenario, *rand.Rand) ecs.System { return newDamageSystem() },
	"lifetime": func(Scenario, *rand.Rand) ecs.System { return newLifetimeSystem() },
	"reaper":   func(Scenario, *rand.Rand) ecs.System { return newReaperSystem() },
	"marker":   func(Scenario, *rand.Rand) ecs.System { return newMarkerSystem() },
}

func DefaultScenario() Scenario {
	return Scenario{
		Seed:         1,
		SpawnPerTick: 100,
		MaxLifetime:  300,
		Systems:      []string{"spawn", "movement", "damage", "lifetime", "reaper", "marker"},
		Parallel:     []string{"movement", "damage"},
	}
}

// LoadScenario decodes a YAML scenario on top of DefaultScenario.
func LoadScenario(r io.Reader) (Scenario, error) {
	scenario := DefaultScenario()
	if err := yaml.NewDecoder(r).Decode(&scenario); err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, errors.Wrap(err, "decode scenario")
	}
	return scenario, scenario.Validate()
}

func LoadScenarioFile(path string) (Scenario, error) {
	if path == "" {
		return DefaultScenario(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, errors.Wrap(err, "open scenario")
	}
	defer f.Close()
	return LoadScenario(f)
}

func (s Scenario) Validate() error {
	if s.SpawnPerTick < 0 {
		return errors.Errorf("spawn_per_tick must not be negative, got %d", s.SpawnPerTick)
	}
	for _, name := range s.Systems {
		if _, ok := systemFactories[name]; !ok {
			return errors.Errorf("unknown system %q", name)
		}
	}
	for _, name := range s.Parallel {
		if !slices.Contains(s.Systems, name) {
			return errors.Errorf("parallel system %q is not enabled", name)
		}
	}
	return nil
}

// Install registers the scenario's systems with world. A system whose predecessor is
// not enabled makes the world fail at its first update.
func (s Scenario) Install(world *ecs.World, rng *rand.Rand) error {
	for _, name := range s.Systems {
		system := systemFactories[name](s, rng)
		ecs.BaseOf(system).SetParallel(slices.Contains(s.Parallel, name))
		if err := world.Systems().AddSystem(system); err != nil {
			return errors.Wrapf(err, "install %s", name)
		}
	}
	return nil
}
