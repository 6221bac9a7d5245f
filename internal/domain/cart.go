package domain

// CartItem is a single cart entry: a product snapshot plus quantity. The
// snapshot carries the already-discounted price so totals never re-derive
// from the original price.
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Cart holds the session's cart entries. At most one entry exists per
// product ID and every quantity is at least 1.
type Cart struct {
	Items []CartItem `json:"items"`
}

// TotalAmount returns the sum of price times quantity over all entries,
// in cents.
func (c *Cart) TotalAmount() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the sum of all quantities.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the entry for the given product ID,
// or -1 when absent.
func (c *Cart) FindItemIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
