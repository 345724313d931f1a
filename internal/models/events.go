package models

import "time"

// Event types
const (
	EventTypeNotification     = "NOTIFICATION"
	EventTypeContactSubmitted = "CONTACT_SUBMITTED"
	EventTypeOrderSubmitted   = "ORDER_SUBMITTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationEvent mirrors a notification onto the event bus
type NotificationEvent struct {
	BaseEvent
	Notification Notification `json:"notification"`
}

// ContactSubmittedEvent published when the contact form is accepted
type ContactSubmittedEvent struct {
	BaseEvent
	SessionID string            `json:"session_id"`
	Fields    map[string]string `json:"fields"`
}

// OrderSubmittedEvent published when the order form is accepted
type OrderSubmittedEvent struct {
	BaseEvent
	SessionID   string            `json:"session_id"`
	OrderNumber string            `json:"order_number"`
	Fields      map[string]string `json:"fields"`
	Items       []OrderItemData   `json:"items"`
	TotalAmount int64             `json:"total_amount"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}
