package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_RecordAndFilter(t *testing.T) {
	repo := NewMemoryRepository()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := repo.RecordEvent(EventSeeded, base, EventMetadata{"plant_id": 1})
	require.NoError(t, err)
	_, err = repo.RecordEvent(EventWatered, base.Add(time.Minute), EventMetadata{"plant_id": 1})
	require.NoError(t, err)
	_, err = repo.RecordEvent(EventDied, base.Add(2*time.Minute), EventMetadata{"plant_id": 1})
	require.NoError(t, err)

	all, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 3, all[2].ID)

	onlyDied, err := repo.GetEvents(time.Time{}, []EventType{EventDied})
	require.NoError(t, err)
	require.Len(t, onlyDied, 1)
	assert.Equal(t, EventDied, onlyDied[0].Type)

	late, err := repo.GetEvents(base.Add(90*time.Second), nil)
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, EventDied, late[0].Type)
}

func TestCalculateStats(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{Type: EventSeeded, Timestamp: base},
		{Type: EventSeeded, Timestamp: base},
		{Type: EventWatered, Timestamp: base},
		{Type: EventStageAdvanced, Timestamp: base},
		{Type: EventHarvested, Timestamp: base},
		{Type: EventDied, Timestamp: base},
	}

	stats := CalculateStats(events, base)

	assert.Equal(t, "2026-03-01", stats.Period)
	assert.Equal(t, 2, stats.Seeded)
	assert.Equal(t, 1, stats.Watered)
	assert.Equal(t, 1, stats.Harvested)
	assert.Equal(t, 1, stats.Died)
	assert.Equal(t, 1, stats.EventCounts[EventStageAdvanced])
	assert.InDelta(t, 50.0, stats.SurvivalPct, 0.001)
}

func TestCalculateStats_NoFinishedPlants(t *testing.T) {
	stats := CalculateStats([]Event{{Type: EventSeeded}}, time.Time{})
	assert.Zero(t, stats.SurvivalPct)
}
