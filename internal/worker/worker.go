package worker

import (
	"context"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/broker"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/service"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"

	"go.uber.org/zap"
)

// Consumer is the part of *broker.Consumer the worker drives.
type Consumer interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// SubmissionWorker moves accepted form submissions from the event bus into
// the owner's inbox
type SubmissionWorker struct {
	consumer     Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewSubmissionWorker creates a new submission worker
func NewSubmissionWorker(consumer Consumer, inbox *service.InboxService) *SubmissionWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnContactSubmitted(inbox.HandleContactSubmitted)
	eventHandler.OnOrderSubmitted(inbox.HandleOrderSubmitted)

	return &SubmissionWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start consumes until ctx is cancelled
func (w *SubmissionWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting submission worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *SubmissionWorker) Stop() error {
	w.logger.Info("Stopping submission worker")
	return w.consumer.Close()
}
