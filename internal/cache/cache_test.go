package cache

import (
	"context"
	"testing"
	"time"

	apperrors "astrochart/internal/errors"
)

func TestKey(t *testing.T) {
	if got := Key("natal-chart", "abc123"); got != "astrochart:v1:natal-chart:abc123" {
		t.Errorf("key = %q", got)
	}
	if Key("natal-chart", "abc") == Key("transits", "abc") {
		t.Error("operations must not share keys")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "k", []byte("chart")); err != nil {
		t.Fatal(err)
	}
	v, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || string(v) != "chart" {
		t.Fatalf("get = %q %v %v", v, ok, err)
	}

	v[0] = 'X'
	if v, _, _ := m.Get(ctx, "k"); string(v) != "chart" {
		t.Error("callers must not alias stored bytes")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("entry should have expired")
	}
	if m.Len() != 0 {
		t.Error("expired entry should be dropped")
	}
}

func TestMemoryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory(0)
	if err := m.Set(ctx, "k", nil); err == nil {
		t.Error("set on a cancelled context should fail")
	}
	if _, _, err := m.Get(ctx, "k"); err == nil {
		t.Error("get on a cancelled context should fail")
	}
}

func TestNop(t *testing.T) {
	var s Store = Nop{}
	ctx := context.Background()
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Errorf("nop hit: %v %v", ok, err)
	}
}

func TestRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedis(ctx, RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	if !apperrors.IsType(err, apperrors.TypeConfig) {
		t.Errorf("err = %v", err)
	}
}
