package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus(" Preparing ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPreparing, got)

	_, err = ParseOrderStatus("shipped")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestPriceMarshalsAsNumber(t *testing.T) {
	data, err := json.Marshal(Product{Name: "Pizza", Price: decimal.RequireFromString("35.90")})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":35.9`)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now}).Expired(now))
}
