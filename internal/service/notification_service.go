package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/crowdinfra/crowdinfra-api/internal/config"
	"github.com/crowdinfra/crowdinfra-api/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	logger     *zap.Logger
	webhookURL string
	httpClient *http.Client
}

// NewNotificationService creates the service. Demand events are POSTed to
// cfg.WebhookURL when it is set.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		logger:     logger,
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		httpClient: &http.Client{Timeout: cfg.WebhookTimeout()},
	}
}

// NotifiedEvents lists the event types the service reacts to.
var NotifiedEvents = []events.EventType{
	events.EventDemandCreated,
	events.EventDemandUpvoteToggled,
	events.EventDemandCommentAdded,
	events.EventPropertyCreated,
	events.EventRatingSubmitted,
}

// Handle routes one event to its notification.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventDemandCreated:
		return n.handleDemandCreated(ctx, event)
	case events.EventDemandUpvoteToggled, events.EventDemandCommentAdded:
		return n.handleDemandActivity(ctx, event)
	case events.EventPropertyCreated, events.EventRatingSubmitted:
		return n.handleListingEvent(ctx, event)
	}
	return nil
}

func (n *NotificationService) handleDemandCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("DemandCreated", zap.String("demand_id", event.ResourceID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleDemandActivity(ctx context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_type", string(event.Type)),
		zap.String("demand_id", event.ResourceID),
		zap.Any("payload", event.Payload),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", *event.ActorID))
	}
	n.logger.Info("DemandActivity", fields...)
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleListingEvent(_ context.Context, event events.Event) error {
	n.logger.Info("ListingEvent",
		zap.String("event_type", string(event.Type)),
		zap.String("resource_id", event.ResourceID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	if n.webhookURL == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s webhook: %w", event.Type, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s webhook: %w", event.Type, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CrowdInfra-Event", string(event.Type))

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver %s webhook: %w", event.Type, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("deliver %s webhook: status %d", event.Type, resp.StatusCode)
	}
	n.logger.Debug("webhook delivered",
		zap.String("event_type", string(event.Type)),
		zap.String("resource_id", event.ResourceID))
	return nil
}
