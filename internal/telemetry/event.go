package telemetry

import "time"

type EventType string

const (
	EventSeeded        EventType = "seeded"
	EventWatered       EventType = "watered"
	EventDied          EventType = "died"
	EventStageAdvanced EventType = "stage_advanced"
	EventHarvested     EventType = "harvested"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

// Repository stores lifecycle events in arrival order.
type Repository interface {
	RecordEvent(eventType EventType, at time.Time, metadata EventMetadata) (Event, error)
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
}

// Notifier receives each recorded event for live delivery (the websocket
// hub implements this). A nil notifier is fine.
type Notifier interface {
	Publish(Event)
}
