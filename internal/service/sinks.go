package service

import (
	"context"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/notify"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/session"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// NotificationPublisher mirrors notifications onto the event bus;
// *broker.EventPublisher implements it.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, event *models.NotificationEvent) error
}

// EventSink publishes each notification in the background so the page
// event that raised it never waits on the broker.
func EventSink(publisher NotificationPublisher) notify.Notifier {
	logger := util.GetLogger()
	return notify.Func(func(n models.Notification) {
		event := &models.NotificationEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeNotification,
				Timestamp: time.Now(),
			},
			Notification: n,
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()

			if err := publisher.PublishNotification(ctx, event); err != nil {
				util.EventsPublishFailedTotal.Inc()
				logger.Warn("Failed to publish notification",
					zap.String("session_id", n.SessionID),
					zap.Error(err))
			}
		}()
	})
}

// NotificationSinks builds the per-session sinks: the websocket hub and,
// when a publisher is given, the event bus.
func NotificationSinks(hub *notify.Hub, publisher NotificationPublisher) session.SinkFactory {
	var bus notify.Notifier
	if publisher != nil {
		bus = EventSink(publisher)
	}
	return func(sessionID string) notify.Notifier {
		if bus == nil {
			return hub.Sink(sessionID)
		}
		return notify.Multi{hub.Sink(sessionID), bus}
	}
}
