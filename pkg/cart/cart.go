// Package cart implements the billing cart state machine: an ordered set of
// cart lines keyed by product id, mutated only through single-step quantity
// toggles. A line exists iff its quantity is at least 1.
package cart

import (
	"github.com/superbill/pos-api/pkg/models"
	"github.com/superbill/pos-api/pkg/pricing"
)

// Cart holds the lines selected for one billing session, in the order the
// products were first added. The zero value is not usable; construct with
// New or FromLines.
type Cart struct {
	lines []models.CartLine
}

func New() *Cart {
	return &Cart{}
}

// FromLines rebuilds a cart from stored lines, dropping any line whose
// quantity has somehow fallen below 1 so the invariant holds on load.
func FromLines(lines []models.CartLine) *Cart {
	c := &Cart{lines: make([]models.CartLine, 0, len(lines))}
	for _, line := range lines {
		if line.Quantity >= 1 {
			c.lines = append(c.lines, line)
		}
	}
	return c
}

// Toggle adjusts the item's quantity by delta (+1 or -1). A present line
// whose adjusted quantity would drop to 0 or below is removed. An absent
// item is inserted with quantity 1 on a positive delta; decrementing an
// absent item is a no-op.
func (c *Cart) Toggle(item models.InventoryItem, delta int) {
	for i := range c.lines {
		if c.lines[i].ProductID != item.ProductID {
			continue
		}
		c.lines[i].Quantity += delta
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}

	if delta > 0 {
		c.lines = append(c.lines, models.CartLine{InventoryItem: item, Quantity: 1})
	}
}

// QuantityOf returns the line quantity for a product, or 0 when absent.
func (c *Cart) QuantityOf(productID string) int {
	for _, line := range c.lines {
		if string(line.ProductID) == productID {
			return line.Quantity
		}
	}
	return 0
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	lines := make([]models.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Total is the tax-inclusive grand total over all lines.
func (c *Cart) Total() float64 {
	return pricing.CartTotal(c.lines)
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Clear() {
	c.lines = nil
}
