package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// GuestIdentity is the persistence namespace used when no user is signed in.
const GuestIdentity = "guest"

// WishlistIdentity maps a user ID to its wishlist namespace. An empty
// userID selects the guest namespace.
func WishlistIdentity(userID string) string {
	if userID == "" {
		return GuestIdentity
	}
	return userID
}

// WishlistStore persists one wishlist per identity in the KV port. Every
// operation takes the caller's user ID and runs load-mutate-persist under
// a single lock, so concurrent requests for different identities never see
// each other's items.
type WishlistStore struct {
	mu sync.Mutex
	kv repository.KV
}

// NewWishlistStore creates a wishlist store backed by the given KV port.
func NewWishlistStore(kv repository.KV) *WishlistStore {
	return &WishlistStore{kv: kv}
}

// wishlistKey returns the persistence slot for an identity.
func wishlistKey(identity string) string {
	return "wishlist_" + identity
}

// Items returns the caller's wishlist entries.
func (s *WishlistStore) Items(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wishlist, err := s.load(ctx, WishlistIdentity(userID))
	if err != nil {
		return nil, err
	}
	return wishlist.Items, nil
}

// Add stores a product snapshot in the caller's wishlist and returns the
// resulting entries. Adding an already-present product is a no-op.
func (s *WishlistStore) Add(ctx context.Context, userID string, product *domain.Product) ([]domain.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity := WishlistIdentity(userID)
	wishlist, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	if wishlist.Contains(product.ID) {
		return wishlist.Items, nil
	}

	wishlist.Items = append(wishlist.Items, domain.WishlistItem{
		ProductID:     product.ID,
		Name:          product.Name,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		ImageURL:      product.ImageURL,
		Category:      product.Category,
		AddedAt:       time.Now().UTC(),
	})

	if err := s.persist(ctx, identity, wishlist); err != nil {
		return nil, err
	}
	return wishlist.Items, nil
}

// Remove deletes the entry for the product from the caller's wishlist and
// returns the resulting entries. Removing an absent product is a no-op.
func (s *WishlistStore) Remove(ctx context.Context, userID, productID string) ([]domain.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity := WishlistIdentity(userID)
	wishlist, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	for i := range wishlist.Items {
		if wishlist.Items[i].ProductID == productID {
			wishlist.Items = append(wishlist.Items[:i], wishlist.Items[i+1:]...)
			if err := s.persist(ctx, identity, wishlist); err != nil {
				return nil, err
			}
			break
		}
	}
	return wishlist.Items, nil
}

// Contains reports whether the product is in the caller's wishlist.
func (s *WishlistStore) Contains(ctx context.Context, userID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wishlist, err := s.load(ctx, WishlistIdentity(userID))
	if err != nil {
		return false, err
	}
	return wishlist.Contains(productID), nil
}

// Clear removes every entry from the caller's wishlist by dropping its
// persistence slot.
func (s *WishlistStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, wishlistKey(WishlistIdentity(userID))); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}

// load reads an identity's wishlist snapshot. A missing slot yields an
// empty wishlist. Callers must hold the mutex.
func (s *WishlistStore) load(ctx context.Context, identity string) (*domain.Wishlist, error) {
	data, err := s.kv.Get(ctx, wishlistKey(identity))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Wishlist{}, nil
		}
		return nil, fmt.Errorf("load wishlist: %w", err)
	}

	var wishlist domain.Wishlist
	if err := json.Unmarshal(data, &wishlist); err != nil {
		return nil, fmt.Errorf("unmarshal wishlist: %w", err)
	}
	return &wishlist, nil
}

// persist rewrites the full wishlist snapshot for an identity. Callers
// must hold the mutex.
func (s *WishlistStore) persist(ctx context.Context, identity string, wishlist *domain.Wishlist) error {
	data, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}
	if err := s.kv.Set(ctx, wishlistKey(identity), data); err != nil {
		return fmt.Errorf("persist wishlist: %w", err)
	}
	return nil
}
