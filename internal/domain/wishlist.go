package domain

import "time"

// WishlistItem is a denormalized snapshot of a product taken when it was
// added. It does not track later catalog changes.
type WishlistItem struct {
	ProductID     string    `json:"product_id"`
	Name          string    `json:"name"`
	Price         int64     `json:"price"`
	OriginalPrice *int64    `json:"original_price,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Category      string    `json:"category,omitempty"`
	AddedAt       time.Time `json:"added_at"`
}

// Wishlist holds one identity's liked products, unique by product ID.
type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

// Contains reports whether the wishlist holds an entry for the product.
func (w *Wishlist) Contains(productID string) bool {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			return true
		}
	}
	return false
}
