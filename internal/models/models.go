package models

import "time"

// Product represents a storefront catalog record
type Product struct {
	ID          int64    `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Price       int64    `db:"price" json:"price"`
	Category    string   `db:"category" json:"category"`
	Image       string   `db:"image" json:"image"`
	Description string   `db:"description" json:"description"`
	Tags        []string `db:"-" json:"tags"`
}

func (p Product) RecordID() int64        { return p.ID }
func (p Product) RecordCategory() string { return p.Category }

// Project represents a portfolio record
type Project struct {
	ID          int64    `db:"id" json:"id"`
	Title       string   `db:"title" json:"title"`
	Description string   `db:"description" json:"description"`
	Category    string   `db:"category" json:"category"`
	Image       string   `db:"image" json:"image"`
	Tags        []string `db:"-" json:"tags"`
	Link        string   `db:"link" json:"link,omitempty"`
}

func (p Project) RecordID() int64        { return p.ID }
func (p Project) RecordCategory() string { return p.Category }

// Skill is a portfolio skill with a proficiency level in percent
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Icon  string `json:"icon"`
}

// LineItem pairs a product snapshot with a quantity
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price times quantity
func (li LineItem) Subtotal() int64 {
	return li.Product.Price * int64(li.Quantity)
}

// Notification severities
const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityError   = "error"
)

// Notification is a short user-visible message
type Notification struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Submission kinds
const (
	SubmissionKindContact = "contact"
	SubmissionKindOrder   = "order"
)

// Submission is an accepted form submission kept in the owner's inbox
type Submission struct {
	ID        int64     `db:"id" json:"id"`
	EventID   string    `db:"event_id" json:"event_id"`
	Kind      string    `db:"kind" json:"kind"`
	SessionID string    `db:"session_id" json:"session_id"`
	Payload   []byte    `db:"payload" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
