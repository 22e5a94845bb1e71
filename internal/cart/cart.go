// Package cart holds a customer's in-progress selection before checkout.
package cart

import (
	"math"
	"sort"

	"restoran/internal/models"
)

// Line is one entry of a cart. Item is a snapshot taken when the line was added.
type Line struct {
	Item           models.MenuItem     `json:"item"`
	Quantity       int                 `json:"quantity"`
	Customizations map[string][]string `json:"customizations,omitempty"`
}

// Notifier is told about every item added to a cart.
type Notifier func(item models.MenuItem, quantity int)

// Cart is not safe for concurrent use; each customer session owns one.
type Cart struct {
	lines               []Line
	tableNumber         int
	cookingInstructions string
	notify              Notifier
}

// New creates an empty cart. notify may be nil.
func New(notify Notifier) *Cart {
	return &Cart{notify: notify}
}

// Add appends a new line. Lines are never merged, even when identical.
func (c *Cart) Add(item models.MenuItem, quantity int, customizations map[string][]string) {
	if quantity < 1 {
		quantity = 1
	}
	c.lines = append(c.lines, Line{
		Item:           item,
		Quantity:       quantity,
		Customizations: copyCustomizations(customizations),
	})
	if c.notify != nil {
		c.notify(item, quantity)
	}
}

// Remove deletes every line for menuItemID regardless of customizations.
func (c *Cart) Remove(menuItemID uint) {
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.Item.ID != menuItemID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
}

// UpdateQuantity sets the quantity of every line for menuItemID. n <= 0 removes them.
func (c *Cart) UpdateQuantity(menuItemID uint, n int) {
	if n <= 0 {
		c.Remove(menuItemID)
		return
	}
	for i := range c.lines {
		if c.lines[i].Item.ID == menuItemID {
			c.lines[i].Quantity = n
		}
	}
}

func (c *Cart) SetTableNumber(n int) {
	c.tableNumber = n
}

func (c *Cart) SetCookingInstructions(text string) {
	c.cookingInstructions = text
}

// Clear empties the lines and cooking instructions. The table number is kept.
func (c *Cart) Clear() {
	c.lines = nil
	c.cookingInstructions = ""
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) TableNumber() int {
	return c.tableNumber
}

func (c *Cart) CookingInstructions() string {
	return c.cookingInstructions
}

// Len is the number of lines, not the number of units.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Subtotal sums snapshot price × quantity, rounded to cents.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Item.Price * float64(line.Quantity)
	}
	return math.Round(total*100) / 100
}

// Consolidate merges lines with the same item and equivalent customizations,
// summing their quantities. The first occurrence keeps its position.
func (c *Cart) Consolidate() {
	merged := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		found := false
		for i := range merged {
			if merged[i].Item.ID == line.Item.ID && SameCustomizations(merged[i].Customizations, line.Customizations) {
				merged[i].Quantity += line.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, line)
		}
	}
	c.lines = merged
}

// Contact identifies who is placing the order.
type Contact struct {
	Email        string
	MobileNumber string
	Name         string
}

// Draft snapshots the cart into an order request whose total is the cart subtotal.
func (c *Cart) Draft(contact Contact) models.CreateOrderRequest {
	items := make([]models.OrderItem, 0, len(c.lines))
	for _, line := range c.lines {
		items = append(items, models.OrderItem{
			MenuItemID:     line.Item.ID,
			Quantity:       line.Quantity,
			Customizations: copyCustomizations(line.Customizations),
		})
	}
	return models.CreateOrderRequest{
		UserEmail:           contact.Email,
		MobileNumber:        contact.MobileNumber,
		CustomerName:        contact.Name,
		TableNumber:         c.tableNumber,
		Items:               items,
		CookingInstructions: c.cookingInstructions,
		Total:               c.Subtotal(),
	}
}

// SameCustomizations compares two selections ignoring key order and choice order.
// A nil map equals an empty one, and an option with no choices equals an absent option.
func SameCustomizations(a, b map[string][]string) bool {
	ca, cb := canonical(a), canonical(b)
	if len(ca) != len(cb) {
		return false
	}
	for key, choicesA := range ca {
		choicesB, ok := cb[key]
		if !ok || len(choicesA) != len(choicesB) {
			return false
		}
		for i := range choicesA {
			if choicesA[i] != choicesB[i] {
				return false
			}
		}
	}
	return true
}

func canonical(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for key, choices := range m {
		if len(choices) == 0 {
			continue
		}
		sorted := append([]string(nil), choices...)
		sort.Strings(sorted)
		out[key] = sorted
	}
	return out
}

func copyCustomizations(m map[string][]string) map[string][]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string][]string, len(m))
	for key, choices := range m {
		out[key] = append([]string(nil), choices...)
	}
	return out
}
