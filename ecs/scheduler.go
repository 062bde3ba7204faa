package ecs

import (
	"time"
)

// SchedulerStats provides statistics about system execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	EntityCount    int
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func newSystemStats() *systemStatsInternal {
	return &systemStatsInternal{
		minDuration: time.Duration(1<<63 - 1),
	}
}

func (s *systemStatsInternal) record(duration time.Duration) {
	s.executionCount++
	s.lastDuration = duration
	s.totalDuration += duration

	if duration < s.minDuration {
		s.minDuration = duration
	}
	if duration > s.maxDuration {
		s.maxDuration = duration
	}
}

func (s *systemStatsInternal) snapshot(name string, entityCount int) SystemStats {
	avgDuration := time.Duration(0)
	minDuration := time.Duration(0)
	if s.executionCount > 0 {
		avgDuration = s.totalDuration / time.Duration(s.executionCount)
		minDuration = s.minDuration
	}

	return SystemStats{
		Name:           name,
		EntityCount:    entityCount,
		ExecutionCount: s.executionCount,
		MinDuration:    minDuration,
		MaxDuration:    s.maxDuration,
		AvgDuration:    avgDuration,
		LastDuration:   s.lastDuration,
		TotalDuration:  s.totalDuration,
	}
}

// Stats returns execution statistics for every registered system. Systems are listed in
// execution order when it is valid, otherwise in registration order.
func (m *SystemManager) Stats() *SchedulerStats {
	systems := m.execution
	if m.dirty || m.orderErr != nil {
		systems = m.Systems()
	}

	stats := &SchedulerStats{
		SystemCount: len(systems),
		Systems:     make([]SystemStats, len(systems)),
	}

	var totalExecs int64
	for i, system := range systems {
		b := system.base()
		internal := m.stats[b.key]
		stats.Systems[i] = internal.snapshot(b.name, b.Len())
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
