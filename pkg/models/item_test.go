package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want FlexString
	}{
		{"string value", `"P-101"`, "P-101"},
		{"integer value", `101`, "101"},
		{"decimal value", `99.5`, "99.5"},
		{"empty string", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &f))
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestInventoryItem_DecodesMixedIDTypes(t *testing.T) {
	raw := `[
		{"productId": 1, "productName": "A", "category": "X", "stockQuantity": 2, "costPrice": 10, "sellingPrice": 12},
		{"productId": "P2", "productName": "B", "category": "Y", "stockQuantity": 0, "costPrice": "20", "sellingPrice": "24"}
	]`

	var items []InventoryItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	require.Len(t, items, 2)

	assert.Equal(t, FlexString("1"), items[0].ProductID)
	assert.Equal(t, FlexString("12"), items[0].SellingPrice)
	assert.Equal(t, FlexString("P2"), items[1].ProductID)
	assert.Equal(t, FlexString("24"), items[1].SellingPrice)
}

func TestNormalize_ParsesPrices(t *testing.T) {
	it := InventoryItem{ProductID: "P1", CostPrice: "80", SellingPrice: "99.5", Image: "http://example.com/p1.png"}
	it.Normalize()

	assert.InDelta(t, 80.0, it.CostPriceValue, 1e-9)
	assert.InDelta(t, 99.5, it.SellingPriceValue, 1e-9)
	assert.Equal(t, "http://example.com/p1.png", it.Image)
}

func TestNormalize_DefaultImage(t *testing.T) {
	it := InventoryItem{ProductID: "P1", CostPrice: "1", SellingPrice: "1"}
	it.Normalize()

	assert.Equal(t, DefaultProductImage, it.Image)
}

func TestNormalize_CoercesBadPricesToZero(t *testing.T) {
	tests := []struct {
		name  string
		price FlexString
	}{
		{"unparsable", "abc"},
		{"empty", ""},
		{"negative", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := InventoryItem{ProductID: "P1", CostPrice: tt.price, SellingPrice: tt.price}
			it.Normalize()

			assert.Zero(t, it.CostPriceValue)
			assert.Zero(t, it.SellingPriceValue)
		})
	}
}
