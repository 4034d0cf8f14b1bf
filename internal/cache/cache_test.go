package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGet(t *testing.T) {
	c := NewCache[string, int](time.Minute, 10)

	c.Set("a", 1)

	value, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, value)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiration(t *testing.T) {
	c := NewCache[string, string](time.Minute, 10)

	c.SetWithTTL("a", "value", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestEvictLRU(t *testing.T) {
	c := NewCache[string, int](time.Minute, 2)

	c.Set("a", 1)
	time.Sleep(5 * time.Millisecond)
	c.Set("b", 2)
	time.Sleep(5 * time.Millisecond)

	// Touch "a" so "b" becomes the least recently used
	c.Get("a")
	c.Set("c", 3)

	assert.True(t, c.Has("a"))
	assert.False(t, c.Has("b"))
	assert.True(t, c.Has("c"))
}

func TestClear(t *testing.T) {
	c := NewCache[string, int](time.Minute, 10)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	assert.Equal(t, 0, c.Size())
}

func TestDelete(t *testing.T) {
	c := NewCache[string, int](time.Minute, 10)

	c.Set("a", 1)
	c.Delete("a")

	assert.False(t, c.Has("a"))
}
