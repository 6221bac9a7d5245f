package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range ValidOrderStatuses() {
		assert.True(t, IsValidOrderStatus(s), s)
	}
	assert.False(t, IsValidOrderStatus("teleported"))
	assert.False(t, IsValidOrderStatus(""))
	assert.False(t, IsValidOrderStatus("Pending"))
}

func TestNewOrderNumber_LastSixMillisDigits(t *testing.T) {
	ts := time.UnixMilli(1_724_000_482_913).UTC()
	assert.Equal(t, "ORD-482913", NewOrderNumber(ts))
}

func TestNewOrderNumber_ZeroPadded(t *testing.T) {
	ts := time.UnixMilli(1_724_000_000_042).UTC()
	assert.Equal(t, "ORD-000042", NewOrderNumber(ts))
}
