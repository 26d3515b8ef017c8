package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStockCache_PutLookup(t *testing.T) {
	cache := NewStockCache(30 * time.Second)

	_, known := cache.Lookup("42")
	assert.False(t, known)

	cache.Put("42", 7)
	available, known := cache.Lookup("42")
	assert.True(t, known)
	assert.Equal(t, 7, available)
}

func TestStockCache_ExpiryReadsAsUnknown(t *testing.T) {
	cache := NewStockCache(30 * time.Second)

	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Put("42", 7)

	current = current.Add(29 * time.Second)
	_, known := cache.Lookup("42")
	assert.True(t, known)

	current = current.Add(2 * time.Second)
	_, known = cache.Lookup("42")
	assert.False(t, known)
}

func TestStockCache_Forget(t *testing.T) {
	cache := NewStockCache(time.Minute)

	cache.Put("42", 7)
	cache.Forget("42")

	_, known := cache.Lookup("42")
	assert.False(t, known)
}
