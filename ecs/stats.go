package ecs

import "sort"

// WorldStats is a point-in-time summary of a World.
type WorldStats struct {
	Tick               uint64
	TotalEntityCount   int
	ComponentTypeCount int
	SystemCount        int
	ListenerCount      int
	ComponentBreakdown []ComponentStats
}

// ComponentStats counts the live entities holding one component type.
type ComponentStats struct {
	Id          ComponentId
	Name        string
	EntityCount int
}

// CollectStats walks every live entity and summarises the world.
// Component types without live instances are omitted from the breakdown.
func (w *World) CollectStats() WorldStats {
	counts := make(map[ComponentId]int)
	for _, entity := range w.entities.entities {
		for id := range entity.components {
			counts[id]++
		}
	}

	breakdown := make([]ComponentStats, 0, len(counts))
	for id, count := range counts {
		breakdown = append(breakdown, ComponentStats{
			Id:          id,
			Name:        w.registry.Name(id),
			EntityCount: count,
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].EntityCount != breakdown[j].EntityCount {
			return breakdown[i].EntityCount > breakdown[j].EntityCount
		}
		return breakdown[i].Name < breakdown[j].Name
	})

	return WorldStats{
		Tick:               w.tick,
		TotalEntityCount:   w.entities.Len(),
		ComponentTypeCount: w.registry.Len(),
		SystemCount:        w.systems.Len(),
		ListenerCount:      w.entities.ListenerCount(),
		ComponentBreakdown: breakdown,
	}
}
