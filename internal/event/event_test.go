package event

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/gorilla/websocket"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishInOrder(t *testing.T) {
	bus := NewBus(logger.NewNop())

	var got []string
	bus.Subscribe(func(e Event) { got = append(got, "a:"+e.Type) })
	bus.Subscribe(func(e Event) { got = append(got, "b:"+e.Type) })

	bus.Publish(Event{Type: CartUpdated})

	assert.Equal(t, []string{"a:cart.updated", "b:cart.updated"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(logger.NewNop())

	count := 0
	unsubscribe := bus.Subscribe(func(Event) { count++ })
	bus.Publish(Event{Type: CartUpdated})
	unsubscribe()
	unsubscribe()
	bus.Publish(Event{Type: CartUpdated})

	assert.Equal(t, 1, count)
}

func TestBus_RecoversPanics(t *testing.T) {
	bus := NewBus(logger.NewNop())

	delivered := false
	bus.Subscribe(func(Event) { panic("boom") })
	bus.Subscribe(func(Event) { delivered = true })

	assert.NotPanics(t, func() { bus.Publish(Event{Type: SettingsUpdated}) })
	assert.True(t, delivered)
}

func TestBus_StampsTime(t *testing.T) {
	bus := NewBus(logger.NewNop())
	var at time.Time
	bus.Subscribe(func(e Event) { at = e.At })

	bus.Publish(Event{Type: CartUpdated})
	assert.False(t, at.IsZero())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Publish(Event{Type: ProductCreated})
	r.Publish(Event{Type: ProductDeleted})

	assert.Equal(t, []string{ProductCreated, ProductDeleted}, r.Types())
	assert.Len(t, r.Events(), 2)
}

func TestHub_BroadcastsToClients(t *testing.T) {
	hub := NewHub(logger.NewNop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Handle(Event{Type: InvoiceCommitted, Payload: map[string]string{"id": "inv-1"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, InvoiceCommitted, got.Type)
	assert.Equal(t, "inv-1", got.Payload["id"])
}

func TestHub_RemovesClosedClients(t *testing.T) {
	hub := NewHub(logger.NewNop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestSalesPublisher_WritesCommittedInvoices(t *testing.T) {
	w := &fakeWriter{}
	p := NewSalesPublisher(w, logger.NewNop())

	p.Handle(Event{Type: CartUpdated})
	p.Handle(Event{Type: InvoiceCommitted, Payload: &model.Invoice{ID: "inv-1", Total: 4.725}})

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "inv-1", string(w.msgs[0].Key))

	var msg SaleRecorded
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &msg))
	assert.Equal(t, "SaleRecorded", msg.EventType)
	assert.Equal(t, "inv-1", msg.Payload.ID)
	assert.NotEmpty(t, msg.EventID)
}

func TestSalesPublisher_WriteFailureIsSwallowed(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewSalesPublisher(w, logger.NewNop())

	assert.NotPanics(t, func() {
		p.Handle(Event{Type: InvoiceCommitted, Payload: &model.Invoice{ID: "inv-1"}})
	})
	assert.Empty(t, w.msgs)
}
