package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventStayCreated       = "stay_created"
	EventChargeAdded       = "charge_added"
	EventStayCompleted     = "stay_completed"
	EventPointsCredited    = "points_credited"
	EventCleaningRequested = "cleaning_requested"
)

// StayEventPayload describes the minimal stay snapshot for event
// consumers.
type StayEventPayload struct {
	StayID     string    `json:"stay_id"`
	ClientID   string    `json:"client_id"`
	RoomNumber string    `json:"room_number"`
	Status     string    `json:"status"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	TotalDays  int       `json:"total_days"`
	FinalCost  float64   `json:"final_cost,omitempty"`
}

// PointsEventPayload carries a loyalty balance movement.
type PointsEventPayload struct {
	ClientID string `json:"client_id"`
	Earned   int    `json:"earned"`
	Redeemed int    `json:"redeemed"`
	Balance  int    `json:"balance"`
}

// CleaningEventPayload announces a cleaning task raised at checkout.
type CleaningEventPayload struct {
	RequestID  string `json:"request_id"`
	RoomNumber string `json:"room_number"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
