package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountedPrice_WholeCents(t *testing.T) {
	assert.Equal(t, int64(8000), DiscountedPrice(10000, 20))
}

func TestDiscountedPrice_TruncatesFractionalCents(t *testing.T) {
	// 999 * 67 / 100 = 669.33, truncated.
	assert.Equal(t, int64(669), DiscountedPrice(999, 33))
}

func TestDiscountedPrice_ZeroPercent(t *testing.T) {
	assert.Equal(t, int64(999), DiscountedPrice(999, 0))
}

func TestDiscountedPrice_HundredPercent(t *testing.T) {
	assert.Equal(t, int64(0), DiscountedPrice(999, 100))
}

func TestHasDiscount(t *testing.T) {
	pct := 20
	zero := 0

	p := Product{}
	assert.False(t, p.HasDiscount())

	p.DiscountPercent = &zero
	assert.False(t, p.HasDiscount())

	p.DiscountPercent = &pct
	assert.True(t, p.HasDiscount())
}
