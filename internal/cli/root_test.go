package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "seed", "products", "low-stock", "sales", "receipt"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	cfg := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "c", cfg.Shorthand)
}

// run executes the root command against a sqlite database in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	base := []string{"--store", "sqlite3", "--dsn", "file:" + filepath.Join(dir, "pos.db")}
	cmd.SetArgs(append(base, args...))
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, t.TempDir(), "--format", "xml", "products")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSeedAndQuery(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "starter catalog loaded")

	out, err = run(t, dir, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing seeded")

	out, err = run(t, dir, "--format", "json", "products", "--category", "Bakery", "--sort", "price")
	require.NoError(t, err)
	var products []model.Product
	require.NoError(t, json.Unmarshal([]byte(out), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Croissant", products[0].Name)

	out, err = run(t, dir, "--format", "json", "low-stock", "--threshold", "25")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &products))
	assert.Len(t, products, 3)

	out, err = run(t, dir, "products", "-q", "salmon")
	require.NoError(t, err)
	assert.Contains(t, out, "Fresh Salmon")
	assert.Contains(t, out, "14.00")
}

func TestSalesAndReceipt(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "sales")
	require.NoError(t, err)
	assert.Contains(t, out, "invoices")
	assert.Contains(t, out, "USD 0.00")

	out, err = run(t, dir, "--format", "json", "sales", "--today")
	require.NoError(t, err)
	assert.JSONEq(t, `{"period":"today","total":0}`, out)

	_, err = run(t, dir, "sales", "--today", "--month")
	assert.Error(t, err)

	_, err = run(t, dir, "receipt", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
