// Package notify carries user-visible notifications (toasts) from page
// operations to whoever renders them.
package notify

import (
	"sync"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"

	"github.com/google/uuid"
)

// Notifier accepts notifications. Implementations must not block the caller
// on I/O and never report failure back.
type Notifier interface {
	Notify(n models.Notification)
}

// Func adapts a plain function to Notifier.
type Func func(n models.Notification)

func (f Func) Notify(n models.Notification) { f(n) }

// Nop discards every notification.
var Nop Notifier = Func(func(models.Notification) {})

// Success builds a success notification.
func Success(message string) models.Notification {
	return models.Notification{Severity: models.SeveritySuccess, Message: message}
}

// Info builds an informational notification.
func Info(message string) models.Notification {
	return models.Notification{Severity: models.SeverityInfo, Message: message}
}

// Error builds an error notification.
func Error(message string) models.Notification {
	return models.Notification{Severity: models.SeverityError, Message: message}
}

// Multi fans every notification out to all sinks in order.
type Multi []Notifier

func (m Multi) Notify(n models.Notification) {
	for _, s := range m {
		s.Notify(n)
	}
}

// Stamp fills in id, session and timestamp before passing the notification on.
func Stamp(sessionID string, next Notifier) Notifier {
	return Func(func(n models.Notification) {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		n.SessionID = sessionID
		util.NotificationsTotal.WithLabelValues(n.Severity).Inc()
		next.Notify(n)
	})
}

// Buffer collects notifications until they are drained.
type Buffer struct {
	mu    sync.Mutex
	items []models.Notification
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Notify(n models.Notification) {
	b.mu.Lock()
	b.items = append(b.items, n)
	b.mu.Unlock()
}

// Drain returns the collected notifications and empties the buffer.
// The result is never nil.
func (b *Buffer) Drain() []models.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	if out == nil {
		out = []models.Notification{}
	}
	return out
}

// Len returns the number of pending notifications.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
