package rp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insaplace/spresso/rp"
)

func TestCacheInMemoryRoundTrip(t *testing.T) {
	c := rp.NewCache()
	require.NoError(t, c.Set("idp.example", time.Minute, true, "payload"))

	got, ok := c.Get("idp.example")
	assert.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestCacheFileBackedRoundTrip(t *testing.T) {
	c := rp.NewCache()
	require.NoError(t, c.Set("idp.example", time.Minute, false, "payload"))

	got, ok := c.Get("idp.example")
	assert.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestCacheExpiry(t *testing.T) {
	c := rp.NewCache()
	require.NoError(t, c.Set("idp.example", time.Nanosecond, true, "payload"))
	time.Sleep(time.Millisecond)

	_, ok := c.Get("idp.example")
	assert.False(t, ok)
}

func TestCacheZeroLifetimeSkipsStorage(t *testing.T) {
	c := rp.NewCache()
	require.NoError(t, c.Set("idp.example", 0, true, "payload"))

	_, ok := c.Get("idp.example")
	assert.False(t, ok)
}

func TestCacheMissReturnsFalse(t *testing.T) {
	c := rp.NewCache()
	_, ok := c.Get("unknown.example")
	assert.False(t, ok)
}
