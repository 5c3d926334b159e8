package datasource

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(1 * time.Second)

	c.Set("key1", "value1")
	v, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if v != "value1" {
		t.Fatalf("got %v, want value1", v)
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewCache(1 * time.Second)
	if _, ok := c.Get("nonexistent"); ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(1 * time.Millisecond)
	c.Set("key", "val")

	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("key"); ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := NewCache(1 * time.Hour)
	c.SetWithTTL("quick", "val", 1*time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("quick"); ok {
		t.Fatal("expected cache miss after custom TTL expiry")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(1 * time.Hour)
	c.Set("key", "val")
	c.Invalidate("key")
	if _, ok := c.Get("key"); ok {
		t.Fatal("expected cache miss after invalidation")
	}
}

func TestCacheFlush(t *testing.T) {
	c := NewCache(1 * time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected all entries flushed")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected all entries flushed")
	}
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait() #%d failed: %v", i, err)
		}
	}
}

func TestRateLimiterCancelledContext(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour) // 1 token, very slow refill

	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Fatal("expected error once tokens are exhausted and context expires")
	}
}

func TestMatchesAny(t *testing.T) {
	keywords := coinKeywords("BTC", "Bitcoin")

	tests := []struct {
		text string
		want bool
	}{
		{text: "BTC breaks new high", want: true},
		{text: "bitcoin ETF inflows continue", want: true},
		{text: "Ethereum upgrade ships", want: false},
		{text: "", want: false},
	}
	for _, tt := range tests {
		if got := matchesAny(tt.text, keywords); got != tt.want {
			t.Errorf("matchesAny(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestCleanHTML(t *testing.T) {
	got := cleanHTML(`<p>Bitcoin hit <b>$65k</b> today.</p>`)
	if got != "Bitcoin hit $65k today." {
		t.Fatalf("cleanHTML = %q", got)
	}

	if got := cleanHTML(""); got != "" {
		t.Fatalf("cleanHTML(\"\") = %q", got)
	}
}
