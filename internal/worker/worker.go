package worker

import (
	"context"
	"log"

	"github.com/Qodestackr/Verity-sub004/internal/broker"
	"github.com/Qodestackr/Verity-sub004/internal/models"
	"github.com/Qodestackr/Verity-sub004/internal/provision"
	"github.com/Qodestackr/Verity-sub004/internal/store"
)

// IntakeWorker drives the provisioning pipeline from ProductSubmitted
// events, so bulk imports and the chat-shop flow share one code path with
// the synchronous API.
type IntakeWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	service      *provision.Service
	store        *store.Store
}

// NewIntakeWorker creates a new intake worker
func NewIntakeWorker(
	consumer *broker.Consumer,
	service *provision.Service,
	st *store.Store,
) *IntakeWorker {
	w := &IntakeWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		service:      service,
		store:        st,
	}

	w.eventHandler.OnProductSubmitted(w.handleProductSubmitted)
	return w
}

// Start starts the worker
func (w *IntakeWorker) Start(ctx context.Context) error {
	log.Println("Starting intake worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *IntakeWorker) Stop() error {
	log.Println("Stopping intake worker...")
	return w.consumer.Close()
}

func (w *IntakeWorker) handleProductSubmitted(ctx context.Context, event *models.ProductSubmittedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		log.Printf("Event already processed: %s", event.EventID)
		return nil
	}

	sub := &provision.Submission{
		Name:              event.Product.Name,
		Brand:             event.Product.Brand,
		Type:              event.Product.Type,
		Category:          event.Product.Category,
		Volume:            event.Product.Volume,
		Price:             event.Product.Price,
		SKU:               event.Product.SKU,
		AlcoholPercentage: event.Product.AlcoholPercentage,
		Origin:            event.Product.Origin,
		Stock:             event.Product.Stock,
		Description:       event.Product.Description,
		IdempotencyKey:    event.Product.IdempotencyKey,
	}

	if _, _, err := w.service.SubmitProduct(ctx, sub); err != nil {
		return err
	}

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}
