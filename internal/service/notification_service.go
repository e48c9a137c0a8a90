package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sachi-ghani/storefront-service/internal/config"
	"github.com/sachi-ghani/storefront-service/internal/events"
	"github.com/sachi-ghani/storefront-service/internal/mail"
)

// NotificationService reacts to domain events. Today only the password reset
// mail leaves the process; the remaining hooks log for the admin audit trail.
type NotificationService struct {
	dispatcher  events.Dispatcher
	sender      mail.Sender
	logger      *zap.Logger
	frontendURL string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender mail.Sender, logger *zap.Logger, cfg config.AppConfig) *NotificationService {
	return &NotificationService{
		dispatcher:  dispatcher,
		sender:      sender,
		logger:      logger,
		frontendURL: cfg.FrontendURL,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventOrderPlaced, n.handleOrderPlaced)
	n.dispatcher.Subscribe(events.EventFeedbackCreated, n.handleFeedbackCreated)
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for password reset event")
		return nil
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", n.frontendURL, payload.Token)
	body := fmt.Sprintf(
		"We received a request to reset your password.\n\nReset link: %s\n\nThe link expires at %s. If you did not request this, ignore this email.",
		link, payload.ExpiresAt.Format("15:04 MST, 2 Jan 2006"))

	if err := n.sender.Send(ctx, payload.Email, "Reset your password", body); err != nil {
		n.logger.Error("failed to send reset mail", zap.Error(err))
		return err
	}
	return nil
}

func (n *NotificationService) handleOrderPlaced(_ context.Context, event events.Event) error {
	n.logger.Info("OrderPlaced", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleFeedbackCreated(_ context.Context, event events.Event) error {
	n.logger.Info("FeedbackCreated", zap.Any("payload", event.Payload))
	return nil
}
