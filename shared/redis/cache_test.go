package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type view struct {
	Name string `json:"name"`
}

// Cache failures degrade to misses instead of surfacing errors.
func TestViewCacheUnavailable(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewViewCache[view](client, time.Minute, nil)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		cache.Set(ctx, "view:1", &view{Name: "a"})
		cache.Delete(ctx, "view:1")
	})
	got, ok := cache.Get(ctx, "view:1")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestNewClientFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewClient(ctx, Options{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
