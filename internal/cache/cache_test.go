package cache

import (
	"testing"
	"time"
)

func TestKeyStableAndDistinct(t *testing.T) {
	a := Key("https://example.com/paper/1")
	b := Key("https://example.com/paper/2")
	if a == b {
		t.Error("distinct URLs must produce distinct keys")
	}
	if a != Key("https://example.com/paper/1") {
		t.Error("key must be stable for the same URL")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	key := Key("https://example.com/p")
	if err := c.Set(key, []byte("document text"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, found := c.Get(key)
	if !found || string(got) != "document text" {
		t.Errorf("Get() = (%q, %v), want cached text", got, found)
	}

	if _, found := c.Get(Key("https://example.com/other")); found {
		t.Error("unexpected hit for a key that was never set")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	key := Key("https://example.com/p")
	if err := c.Set(key, []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expired entry must miss")
	}
}

func TestLayeredCachePromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskCache(dir, time.Hour)
	key := Key("https://example.com/p")
	if err := disk.Set(key, []byte("persisted"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	layered := NewLayeredCache(time.Hour, dir, time.Hour)
	got, found := layered.Get(key)
	if !found || string(got) != "persisted" {
		t.Fatalf("Get() = (%q, %v), want disk entry", got, found)
	}

	// A second lookup should be served from memory even if the disk
	// entry disappears.
	if err := disk.Delete(key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found := layered.Get(key); !found {
		t.Error("promoted entry missing from memory layer")
	}
}
