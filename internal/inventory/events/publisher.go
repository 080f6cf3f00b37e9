package events

import (
	"context"

	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/pkg/actor"
	"github.com/stocker/stocker-backend/pkg/logger"
	"github.com/stocker/stocker-backend/pkg/messaging"
)

// InventoryEventPublisher publishes inventory-related events. A nil publisher
// is safe to call, so the service can run without a broker in development.
type InventoryEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewInventoryEventPublisher creates a new inventory event publisher
func NewInventoryEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*InventoryEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, "inventory-service", log)
	if err != nil {
		return nil, err
	}

	return &InventoryEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishProductCreated publishes a product created event
func (p *InventoryEventPublisher) PublishProductCreated(ctx context.Context, product *repository.Product) {
	if p == nil {
		return
	}

	data := messaging.ProductCreatedEvent{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Quantity:  product.QuantityInStock,
	}
	if act := actor.FromContext(ctx); act != nil {
		data.CreatedBy = act.ID
	}

	if err := p.publisher.Publish(ctx, messaging.EventProductCreated, data); err != nil {
		p.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to publish product created event")
	}
}

// PublishStockRecorded publishes a stock recorded event
func (p *InventoryEventPublisher) PublishStockRecorded(ctx context.Context, mv *repository.StockMovement) {
	if p == nil {
		return
	}

	reason := ""
	if mv.Reason != nil {
		reason = *mv.Reason
	}
	performedBy := ""
	if mv.PerformedBy != nil {
		performedBy = *mv.PerformedBy
	}

	data := messaging.StockRecordedEvent{
		MovementID:       mv.ID,
		ProductID:        mv.ProductID,
		MovementType:     mv.MovementType,
		PreviousQuantity: mv.PreviousQuantity,
		NewQuantity:      mv.NewQuantity,
		Delta:            mv.Delta,
		Reason:           reason,
		PerformedBy:      performedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventStockRecorded, data); err != nil {
		p.logger.Error().Err(err).Str("product_id", mv.ProductID).Msg("failed to publish stock recorded event")
	}
}

// PublishAlertDispatched publishes an alert dispatched event
func (p *InventoryEventPublisher) PublishAlertDispatched(ctx context.Context, alertType string, productCount, recipients int) {
	if p == nil {
		return
	}

	data := messaging.AlertDispatchedEvent{
		AlertType:    alertType,
		ProductCount: productCount,
		Recipients:   recipients,
	}

	if err := p.publisher.Publish(ctx, messaging.EventAlertDispatched, data); err != nil {
		p.logger.Error().Err(err).Str("alert_type", alertType).Msg("failed to publish alert dispatched event")
	}
}
