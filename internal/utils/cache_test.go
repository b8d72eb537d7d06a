package utils

import (
	"sync"
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Close()

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v.(int) != 1 {
		t.Fatalf("expected 1, got %v (ok=%v)", v, ok)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected deleted key to be missing")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Close()

	c.SetWithTTL("short", "x", -time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("expected expired entry to be missing")
	}
	if c.Size() != 0 {
		t.Errorf("expected expired entry to be removed, size %d", c.Size())
	}
	if c.Touch("short") {
		t.Error("expected touch on missing entry to fail")
	}
}

func TestCacheTouch(t *testing.T) {
	c := NewCache(time.Hour)
	defer c.Close()

	c.SetWithTTL("k", "v", time.Millisecond)
	if !c.Touch("k") {
		t.Fatal("expected touch to succeed")
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Error("expected touched entry to survive")
	}
}

// Run with -race: readers and touchers share one entry.
func TestCacheConcurrentGetTouch(t *testing.T) {
	c := NewCache(time.Hour)
	defer c.Close()
	c.Set("wiz", "state")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if _, ok := c.Get("wiz"); !ok {
					t.Error("expected live entry")
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c.Touch("wiz")
			}
		}()
	}
	wg.Wait()
}

func TestCacheGetKeepsRefreshedEntry(t *testing.T) {
	c := NewCache(time.Hour)
	defer c.Close()

	c.SetWithTTL("k", "old", -time.Second)
	c.Set("k", "new")
	c.deleteIfExpired("k")
	if v, ok := c.Get("k"); !ok || v != "new" {
		t.Errorf("expected refreshed entry to survive, got %v (ok=%v)", v, ok)
	}
}
