package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/worldecs/ecs"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Entities int
	Workers  int
	Scenario Scenario

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Churn          ChurnCounter
	World          ecs.WorldStats
	Scheduler      *ecs.SchedulerStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// ChurnCounter is an entity listener counting structural changes over a run.
type ChurnCounter struct {
	Created       int64
	Destroyed     int64
	Added         int64
	Removed       int64
	Reallocations int64
}

func (c *ChurnCounter) OnEntityCreated(*ecs.Entity)                     { c.Created++ }
func (c *ChurnCounter) OnEntityDestroyed(*ecs.Entity)                   { c.Destroyed++ }
func (c *ChurnCounter) OnComponentAdded(*ecs.Entity, ecs.ComponentId)   { c.Added++ }
func (c *ChurnCounter) OnComponentRemoved(*ecs.Entity, ecs.ComponentId) { c.Removed++ }
func (c *ChurnCounter) OnEntitiesReallocated([]*ecs.Entity)             { c.Reallocations++ }

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Workers:** {{.Workers}}
- **Systems:** {{join .Scenario.Systems}}
- **Parallel Systems:** {{join .Scenario.Parallel}}
- **Spawn Per Tick:** {{.Scenario.SpawnPerTick}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems (execution order)
| System | Entities | Runs | Avg | Min | Max |
|---|---|---|---|---|---|
{{- range .Scheduler.Systems}}
| {{.Name}} | {{.EntityCount}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{- end}}

## Entity Churn
- Created: {{.Churn.Created}}
- Destroyed: {{.Churn.Destroyed}}
- Components Added: {{.Churn.Added}}
- Components Removed: {{.Churn.Removed}}
- Reallocations: {{.Churn.Reallocations}}
- Live At End: {{.World.TotalEntityCount}}
{{- range .World.ComponentBreakdown}}
  - {{.Name}}: {{.EntityCount}}
{{- end}}

## Memory Usage (MiB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc)}}
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end) -> delta: {{mb (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}}
- Sys Memory:     {{mb .MemStatsStart.Sys}} (start) -> {{mb .MemStatsEnd.Sys}} (end) -> delta: {{mb (bsub .MemStatsEnd.Sys .MemStatsStart.Sys)}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"join": func(items []string) string {
			if len(items) == 0 {
				return "none"
			}
			return fmt.Sprintf("%v", items)
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
