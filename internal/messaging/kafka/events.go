package kafka

import (
	"time"

	"github.com/google/uuid"
)

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeQuantityUpdated EventType = "order.quantity_updated"
	EventTypeItemRemoved     EventType = "order.item_removed"
)

// Topics для Kafka
const (
	TopicOrderEvents = "signal.order.events"
)

// OrderEvent представляет событие изменения заказа
type OrderEvent struct {
	EventID    string                 `json:"event_id"`
	EventType  EventType              `json:"event_type"`
	OrderID    string                 `json:"order_id"`
	LineItemID string                 `json:"line_item_id"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создает новое событие изменения заказа
func NewOrderEvent(eventType EventType, orderID, lineItemID string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		OrderID:    orderID,
		LineItemID: lineItemID,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}
}
