package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/plus3/worldecs/ecs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	workers := flag.Int("workers", 0, "Goroutines for parallel systems. Zero keeps the configured value.")
	configPath := flag.String("config", "", "Path to a YAML world configuration.")
	scenarioPath := flag.String("scenario", "", "Path to a YAML scenario selecting systems and churn.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	logLevel := zap.LevelFlag("log-level", zapcore.InfoLevel, "Minimum log level.")
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger, options{
		duration:       *duration,
		entities:       *entityCount,
		workers:        *workers,
		configPath:     *configPath,
		scenarioPath:   *scenarioPath,
		gcPauseMetrics: *gcPauseMetrics,
	}); err != nil {
		logger.Fatal("stress test failed", zap.Error(err))
	}
}

type options struct {
	duration       time.Duration
	entities       int
	workers        int
	configPath     string
	scenarioPath   string
	gcPauseMetrics bool
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func loadWorldConfig(path string) (ecs.Config, error) {
	if path == "" {
		return ecs.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return ecs.Config{}, errors.Wrap(err, "open config")
	}
	defer f.Close()
	return ecs.LoadConfig(f)
}

func run(logger *zap.Logger, opts options) error {
	logger.Info("starting ECS stress test")

	cfg, err := loadWorldConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	scenario, err := LoadScenarioFile(opts.scenarioPath)
	if err != nil {
		return err
	}

	// 1. Setup the world and its systems
	world := ecs.NewWorld(ecs.WithLogger(logger), ecs.WithConfig(cfg))
	rng := rand.New(rand.NewSource(scenario.Seed))
	if err := scenario.Install(world, rng); err != nil {
		return err
	}
	if err := world.Initialise(); err != nil {
		return err
	}

	// 2. Populate the world with initial entities
	logger.Info("populating world", zap.Int("entities", opts.entities))
	for i := 0; i < opts.entities; i++ {
		entity := world.Entities().CreateEntity("initial")
		for _, component := range randomComponents(rng, scenario.MaxLifetime) {
			if err := entity.Add(component); err != nil {
				return err
			}
		}
	}
	logger.Info("population complete")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       opts.duration,
		Entities:       opts.entities,
		Workers:        cfg.Workers,
		Scenario:       scenario,
		GCPauseMetrics: opts.gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}
	world.Entities().AddListener("stress.churn", &report.Churn)

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running simulation", zap.Duration("duration", opts.duration))
	ctx, cancel := context.WithTimeout(context.Background(), opts.duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			world.SetDeltaTime(deltaTime.Seconds())
			if err := world.Update(); err != nil {
				return err
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.World = world.CollectStats()
	report.Scheduler = world.Systems().Stats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished",
		zap.Int64("updates", totalUpdates),
		zap.Int("live_entities", report.World.TotalEntityCount))

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return errors.Wrap(err, "generate report")
	}
	fmt.Println("--- End of Report ---")

	logger.Info("stress test complete")
	return nil
}
