package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache[string, int64](2)
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "最久未使用的被淘汰")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.EqualValues(t, 1, v)
	assert.Equal(t, 2, c.size())
}

func TestLRUCacheDisabled(t *testing.T) {
	c := NewLRUCache[string, int64](0)
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.size())
}

func (c *LRUCache[K, V]) size() int {
	if c.storage == nil {
		return 0
	}
	return c.storage.Len()
}
