package metrics

import (
	"context"

	"github.com/polarisfn/Polaris_Go/internal/domain"
	"github.com/polarisfn/Polaris_Go/internal/event"
)

// EventCollector subscribes to the internal bus and turns domain events
// into Prometheus counters.
type EventCollector struct {
	bus event.Bus
}

// NewEventCollector registers handlers for every event type the service
// publishes. Call once during startup, before the bus sees traffic.
func NewEventCollector(bus event.Bus) *EventCollector {
	c := &EventCollector{bus: bus}

	bus.Subscribe(event.Type(domain.EventTypeProfileCommitted), c.onProfileCommitted)
	bus.Subscribe(event.Type(domain.EventTypeRevisionConflict), c.onRevisionConflict)
	bus.Subscribe(event.Type(domain.EventTypePersistenceFailed), c.onPersistenceFailed)
	bus.Subscribe(event.Type(domain.EventTypeSettingsUploaded), c.onSettingsUploaded)

	return c
}

func (c *EventCollector) onProfileCommitted(ctx context.Context, e event.Event) error {
	EventsPublished.WithLabelValues(string(e.Type)).Inc()

	payload, ok := e.Payload.(map[string]interface{})
	if !ok {
		return nil
	}

	command, _ := payload["command"].(string)
	if command == "" {
		command = "unknown"
	}
	CommandsProcessed.WithLabelValues(command).Inc()

	if changes, ok := payload["changes"].(int); ok && changes > 0 {
		ChangeRecordsEmitted.WithLabelValues(command).Add(float64(changes))
	}
	return nil
}

func (c *EventCollector) onRevisionConflict(ctx context.Context, e event.Event) error {
	EventsPublished.WithLabelValues(string(e.Type)).Inc()
	RevisionConflicts.Inc()
	return nil
}

func (c *EventCollector) onPersistenceFailed(ctx context.Context, e event.Event) error {
	EventsPublished.WithLabelValues(string(e.Type)).Inc()
	PersistenceFailures.Inc()
	return nil
}

func (c *EventCollector) onSettingsUploaded(ctx context.Context, e event.Event) error {
	EventsPublished.WithLabelValues(string(e.Type)).Inc()
	SettingsUploads.Inc()
	return nil
}
