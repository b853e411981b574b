package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nyxieeee/aa2000-website/internal/domain"
	pkgkafka "github.com/nyxieeee/aa2000-website/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated     = "aa2000.cart.updated"
	TopicCartCleared     = "aa2000.cart.cleared"
	TopicOrderPlaced     = "aa2000.order.placed"
	TopicCatalogFallback = "aa2000.catalog.fallback"
)

// Aggregate type constants.
const (
	AggregateTypeCart    = "cart"
	AggregateTypeOrder   = "order"
	AggregateTypeCatalog = "catalog"
)

// Source identifier for events originating from the storefront service.
const SourceStorefront = "aa2000-storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID  string         `json:"session_id"`
	Items      []CartItemData `json:"items"`
	TotalItems int            `json:"total_items"`
	Subtotal   int64          `json:"subtotal"`
	Discount   float64        `json:"discount"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID   int64  `json:"order_id"`
	SessionID string `json:"session_id"`
	Subtotal  int64  `json:"subtotal"`
	Discount  int64  `json:"discount_amount"`
	Total     int64  `json:"total"`
	ItemCount int    `json:"item_count"`
}

// CatalogFallbackData is the payload for a catalog.fallback event, published
// when the catalog degrades from the remote source to the local snapshot.
type CatalogFallbackData struct {
	Reason       string `json:"reason"`
	ProductCount int    `json:"product_count"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event with the ledger snapshot.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, items domain.CartItems, rate float64) error {
	eventItems := make([]CartItemData, len(items))
	for i, item := range items {
		eventItems[i] = CartItemData{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID:  sessionID,
		Items:      eventItems,
		TotalItems: items.TotalItems(),
		Subtotal:   items.Subtotal(),
		Discount:   rate,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("total_items", data.TotalItems),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)

	return nil
}

// PublishOrderPlaced publishes an order.placed event after the collaborator
// accepts an order.
func (p *Producer) PublishOrderPlaced(ctx context.Context, sessionID string, order *domain.Order) error {
	data := OrderPlacedData{
		OrderID:   order.ID,
		SessionID: sessionID,
		Subtotal:  order.Subtotal,
		Discount:  order.DiscountAmount,
		Total:     order.Total,
		ItemCount: len(order.Items),
	}

	event, err := pkgkafka.NewEvent(TopicOrderPlaced, fmt.Sprintf("%d", order.ID), AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.Int64("order_id", order.ID),
		slog.String("session_id", sessionID),
	)

	return nil
}

// PublishCatalogFallback publishes a catalog.fallback event when the catalog
// switches to its local snapshot.
func (p *Producer) PublishCatalogFallback(ctx context.Context, reason string, productCount int) error {
	data := CatalogFallbackData{Reason: reason, ProductCount: productCount}

	event, err := pkgkafka.NewEvent(TopicCatalogFallback, AggregateTypeCatalog, AggregateTypeCatalog, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create catalog.fallback event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCatalogFallback, event); err != nil {
		return fmt.Errorf("publish catalog.fallback event: %w", err)
	}

	p.logger.WarnContext(ctx, "published catalog.fallback event",
		slog.String("reason", reason),
		slog.Int("product_count", productCount),
	)

	return nil
}
