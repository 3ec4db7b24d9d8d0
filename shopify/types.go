package shopify

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the subset of the Shopify product resource the catalog needs.
type Product struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Handle    string    `json:"handle"`
	Variants  []Variant `json:"variants"`
	Image     *Image    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Variant struct {
	ID                int64  `json:"id"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
	InventoryPolicy   string `json:"inventory_policy"`
}

type Image struct {
	Src string `json:"src"`
}

// PriceNA is rendered when a product carries no usable price.
const PriceNA = "N/A"

// FirstPrice returns the first variant's price formatted to two decimals,
// the raw string when it does not parse, or "N/A" when absent.
func (p Product) FirstPrice() string {
	if len(p.Variants) == 0 {
		return PriceNA
	}
	price := p.Variants[0].Price
	if price == "" {
		return PriceNA
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return price
	}
	return d.StringFixed(2)
}

// ImageURL returns the product's image source or "" when it has none.
func (p Product) ImageURL() string {
	if p.Image == nil {
		return ""
	}
	return p.Image.Src
}

// IsOutOfStock reports whether every variant is sold out and cannot be
// oversold (inventory policy "deny").
func (p Product) IsOutOfStock() bool {
	if len(p.Variants) == 0 {
		return false
	}
	for _, v := range p.Variants {
		if v.InventoryQuantity > 0 || v.InventoryPolicy != "deny" {
			return false
		}
	}
	return true
}
