package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, prefix string) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), prefix)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "orgchart:")

	data, hit, err := c.Get(ctx, "roster:a")
	if err != nil {
		t.Fatalf("Get miss error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get on empty cache = %q, %v; want miss", data, hit)
	}

	if err := c.Set(ctx, "roster:a", []byte("csv"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err = c.Get(ctx, "roster:a")
	if err != nil || !hit || string(data) != "csv" {
		t.Errorf("Get = %q, %v, %v; want csv hit", data, hit, err)
	}

	if !mr.Exists("orgchart:roster:a") {
		t.Errorf("keys = %v, want orgchart:roster:a", mr.Keys())
	}
	if ttl := mr.TTL("orgchart:roster:a"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	if err := c.Delete(ctx, "roster:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "roster:a"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "")

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("Get after expiry: hit = %v, err = %v; want miss", hit, err)
	}
}

func TestRedisCachePrefixIsolates(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	a := NewRedisCacheFromClient(client, "a:")
	b := NewRedisCacheFromClient(client, "b:")
	if err := a.Set(ctx, "k", []byte("from a"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := b.Get(ctx, "k"); hit {
		t.Error("prefix b: saw a key written under a:")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not a url", ""); err == nil {
		t.Error("NewRedisCache with a bad url should fail")
	}
}
