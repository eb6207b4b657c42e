package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Qodestackr/Verity-sub004/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishProductSubmitted enqueues a product for asynchronous provisioning
func (ep *EventPublisher) PublishProductSubmitted(ctx context.Context, event *models.ProductSubmittedEvent) error {
	key := fmt.Sprintf("submission-%s", event.Product.IdempotencyKey)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishProductProvisioned publishes ProductProvisioned event
func (ep *EventPublisher) PublishProductProvisioned(ctx context.Context, event *models.ProductProvisionedEvent) error {
	key := fmt.Sprintf("submission-%d", event.SubmissionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishProvisioningFailed publishes ProvisioningFailed event
func (ep *EventPublisher) PublishProvisioningFailed(ctx context.Context, event *models.ProvisioningFailedEvent) error {
	key := fmt.Sprintf("submission-%d", event.SubmissionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onProductSubmitted func(context.Context, *models.ProductSubmittedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnProductSubmitted registers a handler for ProductSubmitted events
func (eh *EventHandler) OnProductSubmitted(handler func(context.Context, *models.ProductSubmittedEvent) error) {
	eh.onProductSubmitted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeProductSubmitted:
		if eh.onProductSubmitted != nil {
			var event models.ProductSubmittedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductSubmitted event: %w", err)
			}
			return eh.onProductSubmitted(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
