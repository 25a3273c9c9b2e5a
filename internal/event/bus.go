// Package event carries change notifications from the engine to whoever is
// watching: websocket clients, the sales topic, tests.
package event

import (
	"sync"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"go.uber.org/zap"
)

const (
	ProductCreated    = "product.created"
	ProductUpdated    = "product.updated"
	ProductDeleted    = "product.deleted"
	CatalogSeeded     = "catalog.seeded"
	CategoriesUpdated = "categories.updated"
	StockAdjusted     = "stock.adjusted"
	CartUpdated       = "cart.updated"
	InvoiceCommitted  = "invoice.committed"
	SettingsUpdated   = "settings.updated"
)

type Event struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

type Handler func(Event)

// Publisher is what use cases depend on.
type Publisher interface {
	Publish(e Event)
}

// Bus delivers every published event to all current subscribers, in
// subscription order, on the publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	order    []int
	next     int
	logger   logger.ZapLogger
}

func NewBus(log logger.ZapLogger) *Bus {
	return &Bus{handlers: map[int]Handler{}, logger: log}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.handlers[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", zap.String("event_type", e.Type), zap.Any("panic", r))
		}
	}()
	h(e)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(Event) {}

// Recorder keeps every event it receives. Handy in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
