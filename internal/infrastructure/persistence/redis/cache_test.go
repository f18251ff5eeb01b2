package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, TTLProfileCache, cfg.TTL)

	cfg.Host, cfg.Port = "cache.internal", 6380
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}

func TestProfileKey(t *testing.T) {
	assert.Equal(t, "skillswap:profile:42", ProfileKey("42"))
	assert.NotEqual(t, KeyProfileDirectory, ProfileKey("all"))
}

func TestNewCache_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 1
	cfg.DialTimeout = 200 * time.Millisecond
	cfg.MaxRetries = -1

	_, err := NewCache(cfg)
	assert.ErrorIs(t, err, ErrCacheConnection)
}
