package ttlcache

import (
	"fmt"
	"testing"
	"time"
)

func TestContainsAfterAdd(t *testing.T) {
	c := New(10, time.Minute)
	if c.Contains("a") {
		t.Fatalf("empty cache should not contain a")
	}
	c.Add("a")
	if !c.Contains("a") {
		t.Fatalf("cache should contain a after Add")
	}
}

func TestEntriesExpire(t *testing.T) {
	c := New(10, 10*time.Millisecond)
	c.Add("a")
	time.Sleep(25 * time.Millisecond)
	if c.Contains("a") {
		t.Fatalf("entry should have expired")
	}
}

func TestCapacityBound(t *testing.T) {
	c := New(3, time.Minute)
	for i := 0; i < 10; i++ {
		c.Add(fmt.Sprintf("key-%d", i))
		if c.Len() > 3 {
			t.Fatalf("cache grew past capacity: %d", c.Len())
		}
	}
	if !c.Contains("key-9") {
		t.Fatalf("most recent key should survive eviction")
	}
}
