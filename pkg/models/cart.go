package models

// CartLine is an inventory item selected for billing, with the quantity the
// cashier has dialled in. A stored line always has Quantity >= 1; a line
// whose quantity would drop to 0 is removed from the cart instead.
type CartLine struct {
	InventoryItem
	Quantity int `json:"quantity"`
}

// ToggleCartRequest adjusts one product's cart quantity by a single step.
type ToggleCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Delta     int    `json:"delta" binding:"required,oneof=-1 1"`
}
