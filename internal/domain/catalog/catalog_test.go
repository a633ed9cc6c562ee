package catalog

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	c := New()
	items := []Item{
		{ID: "c1", Kind: KindChair, Name: "office chair", Price: decimal.NewFromInt(120), Quantity: 5,
			Description: "Ergonomic leather office chair", Attrs: Attributes{Material: "leather"}},
		{ID: "c2", Kind: KindChair, Name: "kitchen chair", Price: decimal.NewFromInt(45), Quantity: 10,
			Attrs: Attributes{Material: "wood"}},
		{ID: "t1", Kind: KindTable, Name: "dining table", Price: decimal.NewFromInt(450), Quantity: 2,
			Attrs: Attributes{Shape: "round", Size: "large"}},
		{ID: "s1", Kind: KindSofa, Name: "living room sofa", Price: decimal.NewFromInt(900), Quantity: 1,
			Attrs: Attributes{Seats: 3, Color: "gray"}},
	}
	require.NoError(t, c.Load(items))
	return c
}

func TestCatalog_FindByID(t *testing.T) {
	c := newTestCatalog(t)

	it, err := c.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, "office chair", it.Name)

	_, err = c.FindByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_FindByID_ReturnsCopy(t *testing.T) {
	c := newTestCatalog(t)

	it, err := c.FindByID("c1")
	require.NoError(t, err)
	it.Quantity = 999
	it.Name = "mutated"

	again, err := c.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Quantity)
	assert.Equal(t, "office chair", again.Name)
}

func TestCatalog_FindByName(t *testing.T) {
	c := newTestCatalog(t)

	// Substring, case-insensitive.
	got := c.FindByName("CHAIR", false)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c2", got[1].ID)

	// Exact matches the kind as well as the name.
	got = c.FindByName("sofa", true)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)

	assert.Empty(t, c.FindByName("wardrobe", false))
}

func TestCatalog_FindByPriceRange(t *testing.T) {
	c := newTestCatalog(t)

	got, err := c.FindByPriceRange(decimal.NewFromInt(100), decimal.NewFromInt(500))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "t1", got[1].ID)

	_, err = c.FindByPriceRange(decimal.NewFromInt(10), decimal.NewFromInt(5))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCatalog_FindByAttribute(t *testing.T) {
	c := newTestCatalog(t)

	got, err := c.FindByAttribute("material", "Leather")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)

	got, err = c.FindByAttribute("seats", "3")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)

	_, err = c.FindByAttribute("upholstery", "velvet")
	assert.ErrorIs(t, err, ErrUnknownAttribute)
}

func TestCatalog_Add(t *testing.T) {
	c := newTestCatalog(t)

	it, err := c.Add(Item{Kind: KindBed, Price: decimal.NewFromInt(700), Quantity: 3,
		Attrs: Attributes{Size: "king"}})
	require.NoError(t, err)
	assert.NotEmpty(t, it.ID, "empty id should be assigned")

	_, err = c.Add(Item{ID: "c1", Kind: KindChair, Price: decimal.NewFromInt(1),
		Attrs: Attributes{Material: "wood"}})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = c.Add(Item{Kind: KindChair, Price: decimal.NewFromInt(1),
		Attrs: Attributes{Material: "glass"}})
	var attrErr *InvalidAttributeError
	assert.True(t, errors.As(err, &attrErr))
}

func TestCatalog_UpdateQuantity(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.UpdateQuantity("c1", 0))
	it, err := c.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, 0, it.Quantity)

	assert.ErrorIs(t, c.UpdateQuantity("c1", -1), ErrInvalidQuantity)
	assert.ErrorIs(t, c.UpdateQuantity("missing", 1), ErrNotFound)
}

func TestCatalog_Remove(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.Remove("c2"))
	_, err := c.FindByID("c2")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, c.Remove("c2"), ErrNotFound)
}

func TestCatalog_Reserve(t *testing.T) {
	c := newTestCatalog(t)

	committed, err := c.Reserve([]ReserveLine{
		{ID: "c1", Quantity: 2},
		{ID: "t1", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, committed, 2)
	assert.True(t, committed[0].UnitPrice.Equal(decimal.NewFromInt(120)))
	assert.True(t, committed[1].UnitPrice.Equal(decimal.NewFromInt(450)))

	it, err := c.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, 3, it.Quantity)
}

func TestCatalog_Reserve_ShortfallLeavesStockUntouched(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Reserve([]ReserveLine{
		{ID: "c1", Quantity: 2},
		{ID: "s1", Quantity: 5}, // only 1 in stock
	})

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "s1", stockErr.ID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	// No partial decrement, including for the line that would have passed.
	it, err := c.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, 5, it.Quantity)
}

func TestCatalog_Reserve_SequentialNeverOversells(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Reserve([]ReserveLine{{ID: "s1", Quantity: 1}})
	require.NoError(t, err)

	_, err = c.Reserve([]ReserveLine{{ID: "s1", Quantity: 1}})
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 0, stockErr.Available)
}

func TestCatalog_Release(t *testing.T) {
	c := newTestCatalog(t)

	committed, err := c.Reserve([]ReserveLine{{ID: "c1", Quantity: 4}})
	require.NoError(t, err)

	c.Release(committed)

	it, err := c.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, 5, it.Quantity)
}

func TestCatalog_DirtyTracking(t *testing.T) {
	c := newTestCatalog(t)
	assert.False(t, c.Dirty(), "freshly loaded catalog is clean")

	require.NoError(t, c.UpdateQuantity("c1", 7))
	assert.True(t, c.Dirty())

	c.MarkClean()
	assert.False(t, c.Dirty())

	// Reads do not dirty the catalog.
	c.All()
	_, _ = c.FindByID("c1")
	assert.False(t, c.Dirty())
}

func TestCatalog_Load_RejectsDuplicates(t *testing.T) {
	c := New()
	err := c.Load([]Item{
		{ID: "x", Kind: KindChair, Price: decimal.NewFromInt(1), Attrs: Attributes{Material: "wood"}},
		{ID: "x", Kind: KindChair, Price: decimal.NewFromInt(2), Attrs: Attributes{Material: "wood"}},
	})
	assert.ErrorIs(t, err, ErrDuplicateID)
}
