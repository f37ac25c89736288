package telemetry

import "time"

type Stats struct {
	Period      string            `json:"period"`
	EventCounts map[EventType]int `json:"event_counts"`
	Seeded      int               `json:"seeded"`
	Watered     int               `json:"watered"`
	Died        int               `json:"died"`
	Harvested   int               `json:"harvested"`
	// SurvivalPct is harvested / (harvested + died), the share of finished
	// plants that made it to payout.
	SurvivalPct float64 `json:"survival_pct"`
}

// CalculateStats aggregates the garden's history since a point in time.
func CalculateStats(events []Event, since time.Time) Stats {
	stats := Stats{
		Period:      since.Format("2006-01-02"),
		EventCounts: make(map[EventType]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		switch event.Type {
		case EventSeeded:
			stats.Seeded++
		case EventWatered:
			stats.Watered++
		case EventDied:
			stats.Died++
		case EventHarvested:
			stats.Harvested++
		}
	}

	finished := stats.Harvested + stats.Died
	if finished > 0 {
		stats.SurvivalPct = 100 * float64(stats.Harvested) / float64(finished)
	}

	return stats
}
