// Package catalog derives the visible subset of a fetched inventory
// snapshot from the cashier's search query, category selection and stock
// filter. Filtering is stable: source order is preserved, never resorted.
package catalog

import (
	"strconv"
	"strings"

	"github.com/superbill/pos-api/pkg/models"
)

// CategoryAll is the wildcard category that matches every item.
const CategoryAll = "All"

// StockBucket classifies an item by remaining quantity.
type StockBucket string

const (
	StockAll       StockBucket = "All"
	StockAvailable StockBucket = "Available"
	StockLow       StockBucket = "Low Availability"
	StockOver      StockBucket = "Stock Over"
)

// ParseStockBucket maps the query-parameter form to a bucket. An empty
// value means no stock filtering.
func ParseStockBucket(s string) (StockBucket, bool) {
	switch StockBucket(s) {
	case StockAll, StockAvailable, StockLow, StockOver:
		return StockBucket(s), true
	case "":
		return StockAll, true
	}
	return "", false
}

// VisibleItems returns the items passing both the text match and the
// category match. The query is matched case-insensitively as a substring of
// the product name, stringified id, category, stock quantity and both
// prices; an empty query matches everything. Category "All" (or empty)
// matches every category.
func VisibleItems(items []models.InventoryItem, query, category string) []models.InventoryItem {
	q := strings.ToLower(query)

	visible := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if matchesQuery(item, q) && matchesCategory(item, category) {
			visible = append(visible, item)
		}
	}
	return visible
}

func matchesQuery(item models.InventoryItem, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.ProductName), q) ||
		strings.Contains(strings.ToLower(string(item.ProductID)), q) ||
		strings.Contains(strings.ToLower(item.Category), q) ||
		strings.Contains(strconv.Itoa(item.StockQuantity), q) ||
		strings.Contains(strings.ToLower(string(item.CostPrice)), q) ||
		strings.Contains(strings.ToLower(string(item.SellingPrice)), q)
}

func matchesCategory(item models.InventoryItem, category string) bool {
	return category == "" || category == CategoryAll || item.Category == category
}

// FilterByStock narrows items to one stock bucket: Available means more
// than 5 in stock, Low Availability 1 to 5, Stock Over exactly 0.
func FilterByStock(items []models.InventoryItem, bucket StockBucket) []models.InventoryItem {
	if bucket == StockAll {
		return items
	}

	filtered := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		var keep bool
		switch bucket {
		case StockAvailable:
			keep = item.StockQuantity > 5
		case StockLow:
			keep = item.StockQuantity > 0 && item.StockQuantity <= 5
		case StockOver:
			keep = item.StockQuantity == 0
		}
		if keep {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Categories returns "All" followed by the distinct categories of the
// snapshot in order of first occurrence.
func Categories(items []models.InventoryItem) []string {
	categories := []string{CategoryAll}
	seen := make(map[string]bool)
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories
}
