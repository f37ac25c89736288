package telemetry

import (
	"encoding/json"
	"sync"
	"time"
)

// MemoryRepository keeps events in memory. Recording also bumps the
// Prometheus counter for the event type.
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events: make([]Event, 0),
		nextID: 1,
	}
}

func (r *MemoryRepository) RecordEvent(eventType EventType, at time.Time, metadata EventMetadata) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return Event{}, err
	}

	event := Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: at,
		Metadata:  string(metadataJSON),
	}

	r.events = append(r.events, event)
	r.nextID++

	eventsTotal.WithLabelValues(string(eventType)).Inc()

	return event, nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[EventType]bool)
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	result := make([]Event, 0)
	for _, event := range r.events {
		if event.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}

	return result, nil
}
