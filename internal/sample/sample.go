// Package sample provides static placeholder datasets shown when the real
// catalog or order history comes back empty. It is display content only,
// never a cache.
package sample

import (
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// DemoUserID owns the sample orders.
const DemoUserID = "00000000-0000-0000-0000-000000000001"

var sampleBase = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

// Products returns the placeholder catalog.
func Products() []domain.Product {
	return []domain.Product{
		{
			ID:          "10000000-0000-0000-0000-000000000001",
			Name:        "Wireless Noise-Cancelling Headphones",
			Description: "Over-ear headphones with 30-hour battery life and active noise cancellation.",
			Price:       19999,
			Category:    "Electronics",
			Stock:       42,
			ImageURL:    "https://images.example.com/products/headphones.jpg",
			Features:    []string{"Active noise cancellation", "30h battery", "Bluetooth 5.3"},
			CreatedAt:   sampleBase,
			UpdatedAt:   sampleBase,
		},
		{
			ID:              "10000000-0000-0000-0000-000000000002",
			Name:            "Smart Fitness Watch",
			Description:     "Water-resistant fitness tracker with heart rate and sleep monitoring.",
			Price:           11999,
			OriginalPrice:   int64Ptr(14999),
			DiscountPercent: intPtr(20),
			Category:        "Electronics",
			Stock:           18,
			ImageURL:        "https://images.example.com/products/watch.jpg",
			Features:        []string{"Heart rate monitor", "GPS", "7-day battery"},
			CreatedAt:       sampleBase.Add(-24 * time.Hour),
			UpdatedAt:       sampleBase,
		},
		{
			ID:          "10000000-0000-0000-0000-000000000003",
			Name:        "Organic Cotton T-Shirt",
			Description: "Classic-fit t-shirt made from 100% organic cotton.",
			Price:       2499,
			Category:    "Clothing",
			Stock:       120,
			ImageURL:    "https://images.example.com/products/tshirt.jpg",
			Features:    []string{"Organic cotton", "Machine washable"},
			CreatedAt:   sampleBase.Add(-48 * time.Hour),
			UpdatedAt:   sampleBase.Add(-48 * time.Hour),
		},
		{
			ID:          "10000000-0000-0000-0000-000000000004",
			Name:        "Stainless Steel Water Bottle",
			Description: "Insulated 750ml bottle that keeps drinks cold for 24 hours.",
			Price:       3499,
			Category:    "Home & Kitchen",
			Stock:       65,
			ImageURL:    "https://images.example.com/products/bottle.jpg",
			Features:    []string{"Double-wall insulation", "BPA free"},
			CreatedAt:   sampleBase.Add(-72 * time.Hour),
			UpdatedAt:   sampleBase.Add(-72 * time.Hour),
		},
		{
			ID:          "10000000-0000-0000-0000-000000000005",
			Name:        "Leather Messenger Bag",
			Description: "Full-grain leather bag with padded laptop compartment.",
			Price:       8999,
			Category:    "Accessories",
			Stock:       23,
			ImageURL:    "https://images.example.com/products/bag.jpg",
			Features:    []string{"Fits 15-inch laptop", "Full-grain leather"},
			CreatedAt:   sampleBase.Add(-96 * time.Hour),
			UpdatedAt:   sampleBase.Add(-96 * time.Hour),
		},
		{
			ID:          "10000000-0000-0000-0000-000000000006",
			Name:        "Ceramic Pour-Over Coffee Set",
			Description: "Hand-glazed dripper and carafe for slow-brewed coffee.",
			Price:       4599,
			Category:    "Home & Kitchen",
			Stock:       31,
			ImageURL:    "https://images.example.com/products/coffee.jpg",
			Features:    []string{"Dishwasher safe", "Includes 40 filters"},
			CreatedAt:   sampleBase.Add(-120 * time.Hour),
			UpdatedAt:   sampleBase.Add(-120 * time.Hour),
		},
	}
}

// OrdersFor returns the placeholder order history entries belonging to the
// given user. Users other than the demo user get an empty slice.
func OrdersFor(userID string) []domain.Order {
	orders := []domain.Order{
		{
			ID:              "20000000-0000-0000-0000-000000000001",
			UserID:          DemoUserID,
			OrderNumber:     "ORD-482913",
			Total:           23498,
			Status:          domain.OrderStatusDelivered,
			ShippingAddress: "221B Baker Street, London",
			Items: []domain.OrderItem{
				{
					ID:           "30000000-0000-0000-0000-000000000001",
					OrderID:      "20000000-0000-0000-0000-000000000001",
					ProductID:    "10000000-0000-0000-0000-000000000001",
					Quantity:     1,
					Price:        19999,
					ProductName:  "Wireless Noise-Cancelling Headphones",
					ProductImage: "https://images.example.com/products/headphones.jpg",
				},
				{
					ID:           "30000000-0000-0000-0000-000000000002",
					OrderID:      "20000000-0000-0000-0000-000000000001",
					ProductID:    "10000000-0000-0000-0000-000000000004",
					Quantity:     1,
					Price:        3499,
					ProductName:  "Stainless Steel Water Bottle",
					ProductImage: "https://images.example.com/products/bottle.jpg",
				},
			},
			CreatedAt: sampleBase.Add(-14 * 24 * time.Hour),
			UpdatedAt: sampleBase.Add(-10 * 24 * time.Hour),
		},
		{
			ID:              "20000000-0000-0000-0000-000000000002",
			UserID:          DemoUserID,
			OrderNumber:     "ORD-519204",
			Total:           4998,
			Status:          domain.OrderStatusProcessing,
			ShippingAddress: "221B Baker Street, London",
			Items: []domain.OrderItem{
				{
					ID:           "30000000-0000-0000-0000-000000000003",
					OrderID:      "20000000-0000-0000-0000-000000000002",
					ProductID:    "10000000-0000-0000-0000-000000000003",
					Quantity:     2,
					Price:        2499,
					ProductName:  "Organic Cotton T-Shirt",
					ProductImage: "https://images.example.com/products/tshirt.jpg",
				},
			},
			CreatedAt: sampleBase.Add(-3 * 24 * time.Hour),
			UpdatedAt: sampleBase.Add(-3 * 24 * time.Hour),
		},
	}

	filtered := []domain.Order{}
	for _, o := range orders {
		if o.UserID == userID {
			filtered = append(filtered, o)
		}
	}
	return filtered
}
