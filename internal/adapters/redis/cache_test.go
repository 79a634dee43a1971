package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "staydash/internal/adapters/redis"
)

type payload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	in := payload{ID: "p1", Name: "Seaside Loft"}
	if err := c.Set(ctx, "booking:property:p1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	ok, err := c.Get(ctx, "booking:property:p1", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || out != in {
		t.Fatalf("expected %+v, got ok=%v %+v", in, ok, out)
	}
}

func TestCache_ExpiredReadsAsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "cleaning:jobs:all:all:all", payload{ID: "j1"}, 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var out payload
	ok, err := c.Get(ctx, "cleaning:jobs:all:all:all", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after TTL elapsed, got %+v", out)
	}
}

func TestCache_Del(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "k", payload{ID: "x"}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var out payload
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatal("expected miss after delete")
	}
}
