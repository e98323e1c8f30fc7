package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// ErrPublishFailed is returned for routing keys listed in FailKeys.
var ErrPublishFailed = errors.New("mock publish failed")

// PublishedEvent is one message captured by MockPublisher.
type PublishedEvent struct {
	RoutingKey string
	EventData  interface{}
	RawJSON    []byte
}

// MockPublisher records clinic events in memory instead of sending them to
// the broker. Payloads are JSON-encoded like the real publisher does, so an
// event that could not be serialized fails here too.
type MockPublisher struct {
	mu     sync.RWMutex
	events []PublishedEvent

	// FailKeys makes Publish return ErrPublishFailed for these routing keys.
	FailKeys map[string]bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailKeys: map[string]bool{}}
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailKeys[routingKey] {
		return fmt.Errorf("%s: %w", routingKey, ErrPublishFailed)
	}
	raw, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("encode %s: %w", routingKey, err)
	}
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, EventData: eventData, RawJSON: raw})
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// GetEventsByKey returns the events published under routingKey, oldest first.
func (m *MockPublisher) GetEventsByKey(routingKey string) []PublishedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []PublishedEvent
	for _, e := range m.events {
		if e.RoutingKey == routingKey {
			out = append(out, e)
		}
	}
	return out
}

// GetLastEvent returns the most recent event of any key, or nil.
func (m *MockPublisher) GetLastEvent() *PublishedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n := len(m.events); n > 0 {
		last := m.events[n-1]
		return &last
	}
	return nil
}

func (m *MockPublisher) AssertEventCount(t *testing.T, routingKey string, expected int) {
	t.Helper()
	if got := len(m.GetEventsByKey(routingKey)); got != expected {
		t.Errorf("Expected %d %s events, got %d", expected, routingKey, got)
	}
}

func (m *MockPublisher) AssertEventPublished(t *testing.T, routingKey string) {
	t.Helper()
	if len(m.GetEventsByKey(routingKey)) == 0 {
		t.Errorf("Expected a %s event, found none", routingKey)
	}
}

func (m *MockPublisher) AssertEventNotPublished(t *testing.T, routingKey string) {
	t.Helper()
	m.AssertEventCount(t, routingKey, 0)
}
