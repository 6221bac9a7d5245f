package domain

import "time"

// Product represents a catalog entry. Price is the current sale price in
// cents. OriginalPrice is set only while a discount is active and holds the
// pre-discount price; DiscountPercent mirrors it (nil or 0 means no
// discount).
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           int64     `json:"price"`
	OriginalPrice   *int64    `json:"original_price,omitempty"`
	DiscountPercent *int      `json:"discount_percent,omitempty"`
	Category        string    `json:"category"`
	Stock           int       `json:"stock"`
	ImageURL        string    `json:"image_url"`
	Features        []string  `json:"features,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UncategorizedLabel is used for category rollups when a product carries no
// category.
const UncategorizedLabel = "Uncategorized"

// DiscountedPrice computes the sale price in cents for a base price and a
// discount percent, truncating fractional cents.
func DiscountedPrice(base int64, percent int) int64 {
	return base * int64(100-percent) / 100
}

// HasDiscount reports whether the product currently has an active discount.
func (p *Product) HasDiscount() bool {
	return p.DiscountPercent != nil && *p.DiscountPercent > 0
}
