// Package pricing computes GST-inclusive prices and cart totals. All
// functions are pure and keep full float precision; rounding to two decimal
// places happens in the presentation layer only.
package pricing

import "github.com/superbill/pos-api/pkg/models"

// TaxRate is the GST surcharge applied to every selling price.
const TaxRate = 0.18

// UnitPriceWithTax returns the tax-inclusive price for a single unit.
// The input must be a well-formed non-negative price; the catalog client
// guarantees that before anything reaches this package.
func UnitPriceWithTax(sellingPrice float64) float64 {
	return sellingPrice + sellingPrice*TaxRate
}

// TaxAmount returns just the GST portion for one unit, as shown on the
// billing footer.
func TaxAmount(sellingPrice float64) float64 {
	return sellingPrice * TaxRate
}

// LineTotal returns the tax-inclusive total for quantity units.
func LineTotal(sellingPrice float64, quantity int) float64 {
	return UnitPriceWithTax(sellingPrice) * float64(quantity)
}

// CartTotal sums LineTotal over all lines. An empty cart totals 0.
func CartTotal(lines []models.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += LineTotal(line.SellingPriceValue, line.Quantity)
	}
	return total
}
