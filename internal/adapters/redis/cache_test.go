package redisad_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "workshop_finder/internal/adapters/redis"
	"workshop_finder/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	var miss domain.Coords
	if ok, err := c.Get(ctx, "postcode:LS1 1UR", &miss); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	want := domain.Coords{Lat: 53.79, Lon: -1.54}
	if err := c.Set(ctx, "postcode:LS1 1UR", want, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("finder:postcode:LS1 1UR") {
		t.Fatalf("expected prefixed key in redis, keys=%v", mr.Keys())
	}

	var got domain.Coords
	ok, err := c.Get(ctx, "postcode:LS1 1UR", &got)
	if err != nil || !ok || got != want {
		t.Fatalf("unexpected hit: ok=%v err=%v got=%+v", ok, err, got)
	}

	if err := c.Del(ctx, "postcode:LS1 1UR"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "postcode:LS1 1UR", &got); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "place:leeds", domain.Coords{Lat: 1, Lon: 2}, 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var got domain.Coords
	if ok, _ := c.Get(ctx, "place:leeds", &got); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	if err := mr.Set("finder:postcode:SW1A 1AA", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var got domain.Location
	ok, err := c.Get(ctx, "postcode:SW1A 1AA", &got)
	if ok {
		t.Fatalf("corrupt entry must not be a hit, got %+v", got)
	}
	if !errors.Is(err, domain.ErrCacheCorrupt) {
		t.Fatalf("expected ErrCacheCorrupt, got %v", err)
	}
}
