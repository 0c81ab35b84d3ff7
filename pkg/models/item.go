package models

import (
	"encoding/json"
	"log"
	"strconv"
)

// DefaultProductImage is served for catalog rows that carry no image URI.
const DefaultProductImage = "/default-image.png"

// FlexString decodes JSON values the upstream catalog sends inconsistently
// as either a string or a number, and always holds the stringified form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// InventoryItem is one product row of a vendor's fetched catalog snapshot.
// ProductID is unique within one snapshot. Prices arrive tax-exclusive in
// the vendor's currency and are kept in their raw string form for display
// and search, with the parsed values alongside for arithmetic.
type InventoryItem struct {
	ProductID     FlexString `json:"productId"`
	ProductName   string     `json:"productName"`
	Category      string     `json:"category"`
	StockQuantity int        `json:"stockQuantity"`
	CostPrice     FlexString `json:"costPrice"`
	SellingPrice  FlexString `json:"sellingPrice"`
	Image         string     `json:"image,omitempty"`

	CostPriceValue    float64 `json:"-"`
	SellingPriceValue float64 `json:"-"`
}

// Normalize fills display defaults and parses the raw price strings once at
// fetch time. An unparsable or negative price coerces to 0 and is logged as
// an upstream data-quality fault; downstream pricing trusts the parsed value.
func (it *InventoryItem) Normalize() {
	if it.Image == "" {
		it.Image = DefaultProductImage
	}
	it.CostPriceValue = parsePrice(string(it.CostPrice), string(it.ProductID), "costPrice")
	it.SellingPriceValue = parsePrice(string(it.SellingPrice), string(it.ProductID), "sellingPrice")
}

func parsePrice(raw, productID, field string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: product %s has unparsable %s %q, treating as 0", productID, field, raw)
		return 0
	}
	if v < 0 {
		log.Printf("Warning: product %s has negative %s %q, treating as 0", productID, field, raw)
		return 0
	}
	return v
}
