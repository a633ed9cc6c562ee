package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhaus/furnish/internal/domain/catalog"
	"github.com/oakhaus/furnish/internal/domain/discount"
)

const testUser = "user-1"

func newTestManager(t *testing.T) (*Manager, *catalog.Catalog) {
	t.Helper()

	c := catalog.New()
	require.NoError(t, c.Load([]catalog.Item{
		{ID: "chair-1", Kind: catalog.KindChair, Name: "desk chair", Price: decimal.NewFromInt(100), Quantity: 10,
			Attrs: catalog.Attributes{Material: "fabric"}},
		{ID: "table-1", Kind: catalog.KindTable, Name: "side table", Price: decimal.NewFromFloat(59.5), Quantity: 4,
			Attrs: catalog.Attributes{Shape: "square", Size: "small"}},
	}))
	return NewManager(c), c
}

func TestManager_AddItem(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.AddItem(testUser, "chair-1", 2))
	require.NoError(t, m.AddItem(testUser, "chair-1", 1))

	entries := m.Entries(testUser)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Quantity)

	assert.ErrorIs(t, m.AddItem(testUser, "chair-1", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, m.AddItem(testUser, "missing", 1), catalog.ErrNotFound)
}

func TestManager_RemoveItem(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.AddItem(testUser, "chair-1", 3))

	// Partial removal decrements.
	require.NoError(t, m.RemoveItem(testUser, "chair-1", 1))
	assert.Equal(t, 2, m.Entries(testUser)[0].Quantity)

	// Removing at least the current quantity drops the entry.
	require.NoError(t, m.RemoveItem(testUser, "chair-1", 5))
	assert.True(t, m.IsEmpty(testUser))
	assert.True(t, m.Subtotal(testUser).IsZero())

	assert.ErrorIs(t, m.RemoveItem(testUser, "chair-1", 1), ErrNotInCart)
}

func TestManager_RemoveItem_NonPositiveRemovesAll(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.AddItem(testUser, "chair-1", 3))

	require.NoError(t, m.RemoveItem(testUser, "chair-1", 0))
	assert.True(t, m.IsEmpty(testUser))
}

func TestManager_UpdateQuantity(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.AddItem(testUser, "chair-1", 1))

	require.NoError(t, m.UpdateQuantity(testUser, "chair-1", 4))
	assert.Equal(t, 4, m.Entries(testUser)[0].Quantity)

	assert.ErrorIs(t, m.UpdateQuantity(testUser, "chair-1", -1), ErrInvalidQuantity)
	assert.ErrorIs(t, m.UpdateQuantity(testUser, "table-1", 2), ErrNotInCart)

	// Zero removes the entry.
	require.NoError(t, m.UpdateQuantity(testUser, "chair-1", 0))
	assert.True(t, m.IsEmpty(testUser))
}

func TestManager_SubtotalAndLines(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.AddItem(testUser, "chair-1", 2))
	require.NoError(t, m.AddItem(testUser, "table-1", 1))

	lines := m.Lines(testUser)
	require.Len(t, lines, 2)
	assert.Equal(t, "chair-1", lines[0].Item.ID)
	assert.True(t, lines[0].Subtotal.Equal(decimal.NewFromInt(200)))

	want := decimal.NewFromFloat(259.5)
	assert.True(t, m.Subtotal(testUser).Equal(want), "got %s", m.Subtotal(testUser))
}

func TestManager_SubtotalTracksPriceChanges(t *testing.T) {
	m, c := newTestManager(t)
	require.NoError(t, m.AddItem(testUser, "chair-1", 1))

	it, err := c.FindByID("chair-1")
	require.NoError(t, err)
	require.NoError(t, c.Remove("chair-1"))
	it.Price = decimal.NewFromInt(150)
	_, err = c.Add(it)
	require.NoError(t, err)

	assert.True(t, m.Subtotal(testUser).Equal(decimal.NewFromInt(150)))
}

func TestManager_PrunesRemovedFurniture(t *testing.T) {
	m, c := newTestManager(t)
	require.NoError(t, m.AddItem(testUser, "chair-1", 2))
	require.NoError(t, m.AddItem(testUser, "table-1", 1))

	require.NoError(t, c.Remove("chair-1"))

	entries := m.Entries(testUser)
	require.Len(t, entries, 1)
	assert.Equal(t, "table-1", entries[0].FurnitureID)
}

func TestManager_ApplyDiscount(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.AddItem(testUser, "chair-1", 1)) // subtotal 100

	spec, err := discount.Parse("percentage", decimal.NewFromInt(20))
	require.NoError(t, err)
	require.NoError(t, m.ApplyDiscount(testUser, spec))
	assert.True(t, m.Total(testUser).Equal(decimal.NewFromInt(80)))

	// A fixed discount above the subtotal is rejected outright.
	over, err := discount.Parse("fixed", decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.ErrorIs(t, m.ApplyDiscount(testUser, over), ErrDiscountExceedsSubtotal)

	// The previously applied discount stays in effect.
	assert.True(t, m.Total(testUser).Equal(decimal.NewFromInt(80)))
}

func TestManager_TotalClampsAtZero(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.AddItem(testUser, "chair-1", 1)) // subtotal 100

	spec, err := discount.Parse("fixed", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, m.ApplyDiscount(testUser, spec))

	// Shrink the cart below the fixed amount; total clamps instead of going
	// negative.
	require.NoError(t, m.UpdateQuantity(testUser, "chair-1", 1))
	require.NoError(t, m.AddItem(testUser, "table-1", 1))
	require.NoError(t, m.RemoveItem(testUser, "chair-1", 0))

	assert.True(t, m.Total(testUser).IsZero(), "got %s", m.Total(testUser))
}

func TestManager_ClearResetsDiscount(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.AddItem(testUser, "chair-1", 1))

	spec, err := discount.Parse("fixed", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, m.ApplyDiscount(testUser, spec))

	m.Clear(testUser)

	assert.True(t, m.IsEmpty(testUser))
	assert.True(t, m.Discount(testUser).IsZero())
}

func TestManager_CartsAreIsolatedPerUser(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.AddItem("alice", "chair-1", 1))

	assert.True(t, m.IsEmpty("bob"))
	assert.False(t, m.IsEmpty("alice"))
}
