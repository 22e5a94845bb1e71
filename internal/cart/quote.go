package cart

import (
	"fmt"

	"restoran/internal/models"
)

// Quote prices a cart against the current catalog.
type Quote struct {
	Lines    []Line                    `json:"lines"`
	Subtotal float64                   `json:"subtotal"`
	Warnings []string                  `json:"warnings"`
	Draft    models.CreateOrderRequest `json:"draft"`
}

// BuildQuote fills a cart from submitted lines using catalog prices. Unknown items are
// skipped and unavailable ones kept; both produce a warning.
func BuildQuote(req models.QuoteRequest, catalog map[uint]models.MenuItem) Quote {
	c := New(nil)
	c.SetTableNumber(req.TableNumber)
	c.SetCookingInstructions(req.CookingInstructions)

	warnings := []string{}
	for _, line := range req.Lines {
		item, ok := catalog[line.MenuItemID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("menu item %d does not exist", line.MenuItemID))
			continue
		}
		if !item.IsAvailable {
			warnings = append(warnings, fmt.Sprintf("%s is currently unavailable", item.Name))
		}
		c.Add(item, line.Quantity, line.Customizations)
	}

	return Quote{
		Lines:    c.Lines(),
		Subtotal: c.Subtotal(),
		Warnings: warnings,
		Draft:    c.Draft(Contact{}),
	}
}
