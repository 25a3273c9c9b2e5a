// Package store is the persistence boundary of the register engine: named
// keys mapped to JSON documents.
//
// Every read-modify-write sequence goes through Store.Update. Writes made
// through the transaction handle are applied together when the callback
// returns nil and discarded otherwise, so a checkout can never record an
// invoice without also deducting its stock.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Persisted keys.
const (
	KeyProducts   = "products"
	KeyCategories = "categories"
	KeyCart       = "cart"
	KeyInvoices   = "invoices"
	KeySettings   = "settings"
	KeyMovements  = "stock_movements"
)

var ErrClosed = errors.New("store is closed")

// KV is a raw key-value view. Both a Store and the handle passed to
// Update implement it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Store interface {
	KV
	// Update runs fn with a transactional view. Reads through tx observe
	// earlier writes made through tx.
	Update(ctx context.Context, fn func(tx KV) error) error
	Ping(ctx context.Context) error
	Close() error
}

// Save serializes value and stores it under key.
func Save(ctx context.Context, kv KV, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// Load decodes the value stored under key. A missing key or a payload that
// does not decode into T yields fallback; only backend failures are errors.
func Load[T any](ctx context.Context, kv KV, key string, fallback T) (T, error) {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("load %q: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return fallback, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fallback, nil
	}
	return v, nil
}

// txBuffer collects writes for an Update and overlays them on reads.
type txBuffer struct {
	base   func(ctx context.Context, key string) ([]byte, bool, error)
	writes map[string][]byte
	order  []string
}

func newTxBuffer(base func(ctx context.Context, key string) ([]byte, bool, error)) *txBuffer {
	return &txBuffer{base: base, writes: map[string][]byte{}}
}

func (b *txBuffer) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := b.writes[key]; ok {
		return v, true, nil
	}
	return b.base(ctx, key)
}

func (b *txBuffer) Set(_ context.Context, key string, value []byte) error {
	if _, seen := b.writes[key]; !seen {
		b.order = append(b.order, key)
	}
	b.writes[key] = append([]byte(nil), value...)
	return nil
}
