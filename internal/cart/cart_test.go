package cart_test

import (
	"testing"

	"restoran/internal/cart"
	"restoran/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	paneer = models.MenuItem{ID: 1, Name: "Paneer Tikka", Price: 100, IsAvailable: true}
	lassi  = models.MenuItem{ID: 2, Name: "Sweet Lassi", Price: 50, IsAvailable: true}
)

func TestCart_SubtotalAndDraft(t *testing.T) {
	c := cart.New(nil)
	c.Add(paneer, 2, nil)
	c.Add(lassi, 1, nil)
	c.SetTableNumber(7)
	c.SetCookingInstructions("less oil")

	assert.Equal(t, 250.0, c.Subtotal())

	draft := c.Draft(cart.Contact{Email: "a@example.com", Name: "Asha"})
	assert.Equal(t, 250.0, draft.Total)
	assert.Equal(t, 7, draft.TableNumber)
	assert.Equal(t, "less oil", draft.CookingInstructions)
	assert.Equal(t, "a@example.com", draft.UserEmail)
	require.Len(t, draft.Items, 2)
	assert.Equal(t, uint(1), draft.Items[0].MenuItemID)
	assert.Equal(t, 2, draft.Items[0].Quantity)
}

func TestCart_SnapshotPrice(t *testing.T) {
	item := paneer
	c := cart.New(nil)
	c.Add(item, 2, nil)

	// A later catalog price change does not reach lines already in the cart.
	item.Price = 120
	assert.Equal(t, 200.0, c.Subtotal())
}

func TestCart_AddNeverMerges(t *testing.T) {
	var notified []string
	c := cart.New(func(item models.MenuItem, quantity int) {
		notified = append(notified, item.Name)
	})

	spicy := map[string][]string{"Spice Level": {"Hot"}}
	c.Add(paneer, 1, spicy)
	c.Add(paneer, 1, spicy)
	c.Add(paneer, 0, nil)

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, 1, lines[2].Quantity)
	assert.Equal(t, []string{"Paneer Tikka", "Paneer Tikka", "Paneer Tikka"}, notified)

	// Mutating the caller's map does not leak into the cart.
	spicy["Spice Level"][0] = "Mild"
	assert.Equal(t, []string{"Hot"}, c.Lines()[0].Customizations["Spice Level"])
}

func TestCart_UnavailableItemCanBeAdded(t *testing.T) {
	c := cart.New(nil)
	soldOut := models.MenuItem{ID: 5, Name: "Biryani", Price: 200, IsAvailable: false}
	c.Add(soldOut, 1, nil)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 200.0, c.Subtotal())
}

func TestCart_UpdateQuantityZeroEqualsRemove(t *testing.T) {
	build := func() *cart.Cart {
		c := cart.New(nil)
		c.Add(paneer, 2, map[string][]string{"Spice Level": {"Hot"}})
		c.Add(lassi, 1, nil)
		c.Add(paneer, 1, nil)
		return c
	}

	updated := build()
	updated.UpdateQuantity(paneer.ID, 0)
	removed := build()
	removed.Remove(paneer.ID)

	assert.Equal(t, removed.Lines(), updated.Lines())
	require.Len(t, updated.Lines(), 1)
	assert.Equal(t, lassi.ID, updated.Lines()[0].Item.ID)
}

func TestCart_UpdateQuantitySetsEveryMatchingLine(t *testing.T) {
	c := cart.New(nil)
	c.Add(paneer, 1, map[string][]string{"Spice Level": {"Hot"}})
	c.Add(paneer, 1, nil)
	c.Add(lassi, 1, nil)

	c.UpdateQuantity(paneer.ID, 3)
	lines := c.Lines()
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3, lines[1].Quantity)
	assert.Equal(t, 1, lines[2].Quantity)

	// Unknown ids are no-ops.
	c.UpdateQuantity(99, 4)
	c.Remove(99)
	assert.Equal(t, lines, c.Lines())
}

func TestCart_ClearKeepsTableNumber(t *testing.T) {
	c := cart.New(nil)
	c.Add(paneer, 1, nil)
	c.SetTableNumber(3)
	c.SetCookingInstructions("no onion")

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, "", c.CookingInstructions())
	assert.Equal(t, 3, c.TableNumber())
	assert.Equal(t, 0.0, c.Subtotal())
}

func TestCart_Consolidate(t *testing.T) {
	c := cart.New(nil)
	c.Add(paneer, 1, map[string][]string{"Spice Level": {"Hot"}, "Extras": {"Cheese", "Onion"}})
	c.Add(lassi, 1, nil)
	c.Add(paneer, 2, map[string][]string{"Extras": {"Onion", "Cheese"}, "Spice Level": {"Hot"}})
	c.Add(paneer, 1, map[string][]string{"Spice Level": {"Mild"}})
	c.Add(lassi, 1, map[string][]string{})

	c.Consolidate()
	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, paneer.ID, lines[0].Item.ID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, lassi.ID, lines[1].Item.ID)
	assert.Equal(t, 2, lines[1].Quantity)
	assert.Equal(t, 1, lines[2].Quantity)
	assert.Equal(t, 500.0, c.Subtotal())
}

func TestSameCustomizations(t *testing.T) {
	assert.True(t, cart.SameCustomizations(nil, map[string][]string{}))
	assert.True(t, cart.SameCustomizations(nil, map[string][]string{"Extras": {}}))
	assert.True(t, cart.SameCustomizations(
		map[string][]string{"a": {"x", "y"}, "b": {"z"}},
		map[string][]string{"b": {"z"}, "a": {"y", "x"}},
	))
	assert.False(t, cart.SameCustomizations(
		map[string][]string{"a": {"x"}},
		map[string][]string{"a": {"x", "y"}},
	))
	assert.False(t, cart.SameCustomizations(
		map[string][]string{"a": {"x"}},
		map[string][]string{"b": {"x"}},
	))
}

func TestBuildQuote(t *testing.T) {
	catalog := map[uint]models.MenuItem{
		1: paneer,
		5: {ID: 5, Name: "Biryani", Price: 200, IsAvailable: false},
	}
	q := cart.BuildQuote(models.QuoteRequest{
		TableNumber: 2,
		Lines: []models.QuoteLine{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 5, Quantity: 1},
			{MenuItemID: 42, Quantity: 1},
		},
	}, catalog)

	require.Len(t, q.Lines, 2)
	assert.Equal(t, 400.0, q.Subtotal)
	assert.Equal(t, 400.0, q.Draft.Total)
	assert.Equal(t, 2, q.Draft.TableNumber)
	assert.Equal(t, []string{"Biryani is currently unavailable", "menu item 42 does not exist"}, q.Warnings)
}
