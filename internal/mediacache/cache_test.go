package mediacache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ternarybob/loci/internal/models"
)

func img(url string) *models.Image {
	return &models.Image{URL: url, ContentType: "image/jpeg"}
}

func TestGetPut(t *testing.T) {
	c := New(10)

	if _, ok := c.Get("http://img/a"); ok {
		t.Error("Get on empty cache should miss")
	}

	c.Put("http://img/a", img("http://img/a"))
	got, ok := c.Get("http://img/a")
	if !ok {
		t.Fatal("Get after Put should hit")
	}
	if got.URL != "http://img/a" {
		t.Errorf("got URL %q", got.URL)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(3)
	c.Put("a", img("a"))
	c.Put("b", img("b"))
	c.Put("c", img("c"))

	// Touch "a" so "b" becomes the least recently used entry.
	c.Get("a")

	c.Put("d", img("d"))

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should have been evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("entry %q should still be cached", key)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestPutExistingKeyReplacesValue(t *testing.T) {
	c := New(2)
	c.Put("a", &models.Image{URL: "a", Width: 100})
	c.Put("a", &models.Image{URL: "a", Width: 200})

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("entry should be present")
	}
	if got.Width != 200 {
		t.Errorf("Width = %d, want 200", got.Width)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCapacityBound(t *testing.T) {
	c := New(5)
	for i := 0; i < 50; i++ {
		c.Put(fmt.Sprintf("url-%d", i), img("x"))
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(20)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("url-%d", (n+j)%30)
				c.Put(key, img(key))
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 20 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func TestDefaultCapacity(t *testing.T) {
	c := New(0)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("Capacity() = %d, want %d", c.Capacity(), DefaultCapacity)
	}
}
