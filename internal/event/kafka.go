package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// SaleRecorded is the message written to the sales topic for every
// committed invoice.
type SaleRecorded struct {
	EventID   string        `json:"event_id"`
	EventType string        `json:"event_type"`
	Payload   model.Invoice `json:"payload"`
	Timestamp time.Time     `json:"timestamp"`
}

// SalesPublisher forwards invoice.committed events to kafka.
type SalesPublisher struct {
	writer  MessageWriter
	timeout time.Duration
	logger  logger.ZapLogger
}

func NewSalesPublisher(w MessageWriter, log logger.ZapLogger) *SalesPublisher {
	return &SalesPublisher{writer: w, timeout: 5 * time.Second, logger: log}
}

// Handle is a bus Handler. Failures are logged; the sale itself is already
// committed.
func (p *SalesPublisher) Handle(e Event) {
	if e.Type != InvoiceCommitted {
		return
	}
	inv, ok := e.Payload.(*model.Invoice)
	if !ok || inv == nil {
		return
	}

	msg := SaleRecorded{
		EventID:   uuid.New().String(),
		EventType: "SaleRecorded",
		Payload:   *inv,
		Timestamp: e.At,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error("failed to encode sale", zap.String("invoice_id", inv.ID), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(inv.ID), Value: data}); err != nil {
		p.logger.Error("failed to publish sale", zap.String("invoice_id", inv.ID), zap.Error(err))
		return
	}
	p.logger.Debug("sale published", zap.String("invoice_id", inv.ID))
}
