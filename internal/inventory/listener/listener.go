package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-register/internal/inventory"
	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	orderCreated = "OrderCreated"
	saleReason   = "Order Sale"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// InventoryListener deducts stock for orders placed outside the register,
// e.g. by the online storefront. Redelivery is detected per order line: a
// product that already has a movement referencing the order is skipped, so a
// partially applied order gets its remaining lines on the next delivery.
// The check and the deduction are separate writes, which is safe only
// because Start handles one message at a time.
type InventoryListener struct {
	consumer   MessageReader
	uc         inventory.UseCase
	logger     logger.ZapLogger
	retryDelay time.Duration
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, log logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer:   consumer,
		uc:         uc,
		logger:     log,
		retryDelay: time.Second,
	}
}

// Start consumes until ctx is cancelled. Read errors are retried after
// retryDelay.
func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Order listener started")
	defer l.logger.Info("Order listener stopped")

	for ctx.Err() == nil {
		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Error("Failed to read order message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.retryDelay):
			}
			continue
		}

		order, ok := l.decode(msg.Value)
		if !ok {
			continue
		}
		l.apply(ctx, order)
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// decode returns the order carried by an OrderCreated message. Other event
// types and malformed payloads are dropped.
func (l *InventoryListener) decode(value []byte) (*OrderPayload, bool) {
	var evt OrderCreatedEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		l.logger.Error("Failed to decode order message", zap.Error(err))
		return nil, false
	}
	if evt.EventType != orderCreated {
		return nil, false
	}
	return &evt.Payload, true
}

func (l *InventoryListener) apply(ctx context.Context, order *OrderPayload) {
	log := l.logger.With(zap.String("order_id", order.ID))

	var applied, skipped, failed int
	for _, item := range mergeItems(order.Items) {
		if item.Quantity <= 0 {
			log.Warn("Skipping order item with non-positive quantity", zap.String("product_id", item.ProductID))
			continue
		}

		if order.ID != "" {
			seen, err := l.uc.ListMovements(ctx, &dto.MovementFilters{
				ProductID:   item.ProductID,
				ReferenceID: order.ID,
				Limit:       1,
			})
			if err != nil {
				failed++
				log.Error("Failed to check order redelivery", zap.String("product_id", item.ProductID), zap.Error(err))
				continue
			}
			if len(seen) > 0 {
				skipped++
				continue
			}
		}

		_, err := l.uc.AdjustStock(ctx, &dto.AdjustStockInput{
			ProductID:      item.ProductID,
			QuantityChange: -item.Quantity,
			Reason:         saleReason,
			ReferenceID:    order.ID,
		})
		if err != nil {
			failed++
			log.Error("Failed to deduct order item", zap.String("product_id", item.ProductID), zap.Error(err))
			continue
		}
		applied++
	}

	log.Info("Order applied", zap.Int("items", applied), zap.Int("already_applied", skipped), zap.Int("failed", failed))
}

// mergeItems sums quantities per product, keeping first-seen order, so each
// product gets at most one movement per order.
func mergeItems(items []OrderItemPayload) []OrderItemPayload {
	out := make([]OrderItemPayload, 0, len(items))
	idx := make(map[string]int, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}
