package jsonfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhaus/furnish/internal/domain/auth"
	"github.com/oakhaus/furnish/internal/domain/catalog"
	"github.com/oakhaus/furnish/internal/domain/order"
)

func TestCatalogFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	f := NewCatalogFile(dir)

	// Missing file reads as an empty catalog.
	items, err := f.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, items)

	want := []catalog.Item{
		{ID: "c1", Kind: catalog.KindChair, Name: "desk chair", Price: decimal.NewFromFloat(99.99), Quantity: 4,
			Attrs: catalog.Attributes{Material: "leather"}},
		{ID: "b1", Kind: catalog.KindBookcase, Name: "tall bookcase", Price: decimal.NewFromInt(210), Quantity: 2,
			Attrs: catalog.Attributes{Size: "large", Shelves: 6}},
	}
	require.NoError(t, f.SaveAll(want))

	got, err := f.LoadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.True(t, got[0].Price.Equal(decimal.NewFromFloat(99.99)))
	assert.Equal(t, 6, got[1].Attrs.Shelves)
}

func TestCatalogFile_SaveAllReplaces(t *testing.T) {
	dir := t.TempDir()
	f := NewCatalogFile(dir)

	require.NoError(t, f.SaveAll([]catalog.Item{
		{ID: "a", Kind: catalog.KindChair, Price: decimal.NewFromInt(1), Attrs: catalog.Attributes{Material: "wood"}},
		{ID: "b", Kind: catalog.KindChair, Price: decimal.NewFromInt(2), Attrs: catalog.Attributes{Material: "wood"}},
	}))
	require.NoError(t, f.SaveAll([]catalog.Item{
		{ID: "b", Kind: catalog.KindChair, Price: decimal.NewFromInt(2), Attrs: catalog.Attributes{Material: "wood"}},
	}))

	got, err := f.LoadAll()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestOrderStore_AppendAndReload(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenOrderStore(dir)
	require.NoError(t, err)

	o := &order.Order{
		ID:     "ord-1",
		UserID: "alice",
		Lines: []order.Line{
			{FurnitureID: "c1", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		},
		Total:         decimal.NewFromInt(200),
		PaymentMethod: order.PaymentCreditCard,
		Status:        order.StatusCompleted,
		CreatedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, s.Append(o))

	// A fresh store sees the persisted order.
	reloaded, err := OpenOrderStore(dir)
	require.NoError(t, err)

	got, err := reloaded.FindByID("ord-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, o.CreatedAt, got.CreatedAt)
}

func TestOrderStore_RejectsIDCollision(t *testing.T) {
	s, err := OpenOrderStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Append(&order.Order{ID: "dup", UserID: "alice"}))
	assert.Error(t, s.Append(&order.Order{ID: "dup", UserID: "bob"}))
}

func TestOrderStore_FindByUser(t *testing.T) {
	s, err := OpenOrderStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Append(&order.Order{ID: "o1", UserID: "alice"}))
	require.NoError(t, s.Append(&order.Order{ID: "o2", UserID: "bob"}))
	require.NoError(t, s.Append(&order.Order{ID: "o3", UserID: "alice"}))

	got, err := s.FindByUser("alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "o1", got[0].ID)
	assert.Equal(t, "o3", got[1].ID)

	got, err = s.FindByUser("nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOrderStore_FindByIDReturnsCopy(t *testing.T) {
	s, err := OpenOrderStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Append(&order.Order{ID: "o1", UserID: "alice"}))

	got, err := s.FindByID("o1")
	require.NoError(t, err)
	got.UserID = "mallory"

	again, err := s.FindByID("o1")
	require.NoError(t, err)
	assert.Equal(t, "alice", again.UserID)
}

func TestAPIKeyFile(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "apikeys.json"), `[
		{"key_hash": "aaa", "user_id": "alice", "name": "alice key", "active": true},
		{"key_hash": "bbb", "user_id": "bob", "name": "revoked", "active": false}
	]`)

	f, err := OpenAPIKeyFile(dir)
	require.NoError(t, err)

	k, err := f.FindByHash("aaa")
	require.NoError(t, err)
	assert.Equal(t, "alice", k.UserID)

	// Inactive keys are not indexed.
	_, err = f.FindByHash("bbb")
	assert.ErrorIs(t, err, auth.ErrKeyNotFound)

	_, err = f.FindByHash("ccc")
	assert.ErrorIs(t, err, auth.ErrKeyNotFound)
}

func TestAPIKeyFile_MissingFileRejectsAll(t *testing.T) {
	f, err := OpenAPIKeyFile(t.TempDir())
	require.NoError(t, err)

	_, err = f.FindByHash("anything")
	assert.ErrorIs(t, err, auth.ErrKeyNotFound)
}

func TestWriteFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewCatalogFile(dir)

	require.NoError(t, f.SaveAll([]catalog.Item{
		{ID: "a", Kind: catalog.KindChair, Price: decimal.NewFromInt(1), Attrs: catalog.Attributes{Material: "wood"}},
	}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "catalog.json", entries[0].Name())
}

func writeJSON(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
}
