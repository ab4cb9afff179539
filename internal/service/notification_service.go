package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/tryon-service/internal/email"
	"github.com/spec-kit/tryon-service/internal/events"
)

// NotificationService reacts to domain events: confirmation emails for new
// accounts, logs for order lifecycle transitions.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     email.Sender
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender email.Sender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderCreated)
	n.dispatcher.Subscribe(events.EventOrderCompleted, n.handleOrderCompleted)
	n.dispatcher.Subscribe(events.EventOrderFailed, n.handleOrderFailed)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		n.logger.Warn("UserRegistered with unexpected payload", zap.String("user_id", event.UserID))
		return nil
	}
	if payload.VerificationURL == "" || n.sender == nil {
		return nil
	}

	msg := email.VerificationMessage(payload.Email, payload.FullName, payload.VerificationURL)
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Error("send verification email failed",
			zap.String("user_id", event.UserID),
			zap.Error(err))
		return err
	}
	n.logger.Info("verification email sent", zap.String("user_id", event.UserID))
	return nil
}

func (n *NotificationService) handleOrderCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderCreated", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleOrderCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderCompleted", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleOrderFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("OrderFailed", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}
