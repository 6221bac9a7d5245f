package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistAdd_Dedup(t *testing.T) {
	store := NewWishlistStore(newMemKV())
	ctx := context.Background()

	_, err := store.Add(ctx, "user-1", lamp())
	require.NoError(t, err)
	items, err := store.Add(ctx, "user-1", lamp())
	require.NoError(t, err)

	assert.Len(t, items, 1)
	saved, err := store.Contains(ctx, "user-1", "prod-lamp")
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestWishlistRemove_AbsentIsNoop(t *testing.T) {
	store := NewWishlistStore(newMemKV())
	ctx := context.Background()

	_, err := store.Add(ctx, "user-1", lamp())
	require.NoError(t, err)
	items, err := store.Remove(ctx, "user-1", "prod-unknown")
	require.NoError(t, err)

	assert.Len(t, items, 1)
}

func TestWishlistClear_DropsSlot(t *testing.T) {
	kv := newMemKV()
	store := NewWishlistStore(kv)
	ctx := context.Background()

	_, err := store.Add(ctx, "user-1", lamp())
	require.NoError(t, err)
	_, err = store.Add(ctx, "user-1", mug())
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, "user-1"))

	items, err := store.Items(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = kv.Get(ctx, "wishlist_user-1")
	assert.Error(t, err)
}

func TestWishlistAdd_SnapshotsDiscountFields(t *testing.T) {
	store := NewWishlistStore(newMemKV())
	ctx := context.Background()

	product := lamp()
	product.Price = 2799
	product.OriginalPrice = int64Ptr(3499)
	items, err := store.Add(ctx, "user-1", product)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, int64(2799), items[0].Price)
	require.NotNil(t, items[0].OriginalPrice)
	assert.Equal(t, int64(3499), *items[0].OriginalPrice)
	assert.False(t, items[0].AddedAt.IsZero())
}

func TestWishlistIdentities_IsolatedLists(t *testing.T) {
	store := NewWishlistStore(newMemKV())
	ctx := context.Background()

	// Guest saves one item; a signed-in user saves another.
	_, err := store.Add(ctx, "", lamp())
	require.NoError(t, err)
	_, err = store.Add(ctx, "user-1", mug())
	require.NoError(t, err)

	// Each identity sees only its own list. Nothing is merged.
	items, err := store.Items(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "prod-lamp", items[0].ProductID)

	items, err = store.Items(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "prod-mug", items[0].ProductID)
}

func TestWishlistInterleavedIdentities_NoCrossContamination(t *testing.T) {
	store := NewWishlistStore(newMemKV())
	ctx := context.Background()

	// Alice's add lands after Bob's list was last touched. Her item must
	// end up in her list, not his.
	items, err := store.Items(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = store.Add(ctx, "alice", lamp())
	require.NoError(t, err)

	saved, err := store.Contains(ctx, "bob", "prod-lamp")
	require.NoError(t, err)
	assert.False(t, saved)

	saved, err = store.Contains(ctx, "alice", "prod-lamp")
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestWishlistConcurrentIdentities_IsolatedLists(t *testing.T) {
	store := NewWishlistStore(newMemKV())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i%2)
			product := lamp()
			product.ID = fmt.Sprintf("prod-%d-%d", i%2, i)
			_, err := store.Add(ctx, userID, product)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for u := 0; u < 2; u++ {
		items, err := store.Items(ctx, fmt.Sprintf("user-%d", u))
		require.NoError(t, err)
		assert.Len(t, items, 4)
		for _, item := range items {
			assert.Contains(t, item.ProductID, fmt.Sprintf("prod-%d-", u))
		}
	}
}

func TestWishlistPersistence_PerIdentityKeys(t *testing.T) {
	kv := newMemKV()
	store := NewWishlistStore(kv)
	ctx := context.Background()

	_, err := store.Add(ctx, "", lamp())
	require.NoError(t, err)
	_, err = store.Add(ctx, "user-1", mug())
	require.NoError(t, err)

	_, err = kv.Get(ctx, "wishlist_guest")
	require.NoError(t, err)
	_, err = kv.Get(ctx, "wishlist_user-1")
	require.NoError(t, err)
}
