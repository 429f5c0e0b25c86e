package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cloudjet/airbooking/config"
	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchKey(t *testing.T) {
	assert.Equal(t, "flights:GMP:CJU:2026-11-01", SearchKey("gmp", "CJU", "2026-11-01"))
}

func testCache(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c := NewRedisCache(config.RedisConfig{Addr: addr, DB: 15}, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.InvalidateSearch(context.Background()))
	return c
}

func TestRedisCache_SearchRoundTripAndInvalidate(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	got, err := c.GetSearch(ctx, "GMP", "CJU", "2026-11-01")
	require.NoError(t, err)
	assert.Nil(t, got)

	offers := []domain.FlightOffer{{ScheduleID: 7, FlightID: "CJ101", OriginalPrice: 100000, Price: 90000, HasDiscount: true}}
	require.NoError(t, c.SetSearch(ctx, "GMP", "CJU", "2026-11-01", offers))
	require.NoError(t, c.SetSearch(ctx, "ICN", "NRT", "2026-12-24", offers))

	got, err = c.GetSearch(ctx, "GMP", "CJU", "2026-11-01")
	require.NoError(t, err)
	assert.Equal(t, offers, got)

	require.NoError(t, c.InvalidateSearch(ctx))

	got, err = c.GetSearch(ctx, "ICN", "NRT", "2026-12-24")
	require.NoError(t, err)
	assert.Nil(t, got)
}
