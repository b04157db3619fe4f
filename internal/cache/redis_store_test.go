package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T) (*RedisStore, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return NewRedisStore(client), cleanup
}

func TestRedisStoreComputesOnceWithinTTL(t *testing.T) {
	store, cleanup := setupRedisStore(t)
	defer cleanup()

	ctx := context.Background()
	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`{"n":1}`), nil
	}

	first, err := store.GetOrCompute(ctx, "clients:u1:1", time.Minute, []string{TagClient}, compute)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := store.GetOrCompute(ctx, "clients:u1:1", time.Minute, []string{TagClient}, compute)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected a single compute, got %d", calls)
	}
	if string(first) != string(second) {
		t.Fatalf("cache hit payload differs: %q vs %q", first, second)
	}
}

func TestRedisStoreKeysDoNotCollideAcrossUsers(t *testing.T) {
	store, cleanup := setupRedisStore(t)
	defer cleanup()

	ctx := context.Background()
	payloadFor := func(body string) ComputeFn {
		return func(context.Context) ([]byte, error) { return []byte(body), nil }
	}

	u1, err := store.GetOrCompute(ctx, Key("clients", "u1", "1"), time.Minute, []string{TagClient}, payloadFor(`["a"]`))
	if err != nil {
		t.Fatalf("u1 get: %v", err)
	}
	u2, err := store.GetOrCompute(ctx, Key("clients", "u2", "1"), time.Minute, []string{TagClient}, payloadFor(`["b"]`))
	if err != nil {
		t.Fatalf("u2 get: %v", err)
	}

	if string(u1) == string(u2) {
		t.Fatalf("distinct users observed the same cached payload %q", u1)
	}
}

func TestRedisStoreInvalidateEvictsTaggedKeys(t *testing.T) {
	store, cleanup := setupRedisStore(t)
	defer cleanup()

	ctx := context.Background()
	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`{}`), nil
	}

	if _, err := store.GetOrCompute(ctx, "client:u1:c1", time.Minute, []string{TagClient}, compute); err != nil {
		t.Fatalf("prime client key: %v", err)
	}
	if _, err := store.GetOrCompute(ctx, "mobile:m1", time.Minute, []string{TagMobile}, compute); err != nil {
		t.Fatalf("prime mobile key: %v", err)
	}

	if err := store.Invalidate(ctx, TagClient); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if _, err := store.GetOrCompute(ctx, "client:u1:c1", time.Minute, []string{TagClient}, compute); err != nil {
		t.Fatalf("reread client key: %v", err)
	}
	if _, err := store.GetOrCompute(ctx, "mobile:m1", time.Minute, []string{TagMobile}, compute); err != nil {
		t.Fatalf("reread mobile key: %v", err)
	}

	// client key recomputed after invalidation, mobile key untouched
	if calls != 3 {
		t.Fatalf("expected 3 computes, got %d", calls)
	}
}

func TestRedisStoreComputeErrorIsNotCached(t *testing.T) {
	store, cleanup := setupRedisStore(t)
	defer cleanup()

	ctx := context.Background()
	boom := errors.New("backend down")
	if _, err := store.GetOrCompute(ctx, "client:u1:c1", time.Minute, []string{TagClient}, func(context.Context) ([]byte, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}

	payload, err := store.GetOrCompute(ctx, "client:u1:c1", time.Minute, []string{TagClient}, func(context.Context) ([]byte, error) {
		return []byte(`ok`), nil
	})
	if err != nil {
		t.Fatalf("get after failed compute: %v", err)
	}
	if string(payload) != "ok" {
		t.Fatalf("expected fresh payload, got %q", payload)
	}
}
