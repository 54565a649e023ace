package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/config"
	"github.com/spec-kit/helpdesk-triage/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Delivery is best effort; failures are logged and never propagate into
// the triage pipeline.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventWorkItemCreated, n.handleWorkItemCreated)
	n.dispatcher.Subscribe(events.EventWorkItemEscalated, n.handleWorkItemEscalated)
	n.dispatcher.Subscribe(events.EventAccessAutoApproved, n.handleAccessAutoApproved)
	n.dispatcher.Subscribe(events.EventSLAWarning, n.handleSLAWarning)
}

func (n *NotificationService) handleWorkItemCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("WorkItemCreated", zap.String("work_item_id", event.WorkItemID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleWorkItemEscalated(ctx context.Context, event events.Event) error {
	n.logger.Info("WorkItemEscalated", zap.String("work_item_id", event.WorkItemID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAccessAutoApproved(ctx context.Context, event events.Event) error {
	n.logger.Info("AccessAutoApproved", zap.String("work_item_id", event.WorkItemID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSLAWarning(ctx context.Context, event events.Event) error {
	n.logger.Info("SLAWarning", zap.String("work_item_id", event.WorkItemID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("work_item_id", event.WorkItemID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("work_item_id", event.WorkItemID),
		zap.String("event_type", string(event.Type)))
}
