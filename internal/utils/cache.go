package utils

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUCache 固定容量的 LRU 缓存封装，size <= 0 时不缓存任何内容
type LRUCache[K comparable, V any] struct {
	storage *lru.Cache[K, V]
}

// NewLRUCache 初始化，size 是最大缓存条数（如 10000）
func NewLRUCache[K comparable, V any](size int) *LRUCache[K, V] {
	if size <= 0 {
		return &LRUCache[K, V]{}
	}
	// lru.New 是线程安全的，仅在 size 非法时返回错误
	c, _ := lru.New[K, V](size)
	return &LRUCache[K, V]{storage: c}
}

// Get 查询
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	if c.storage == nil {
		var zero V
		return zero, false
	}
	return c.storage.Get(key)
}

// Set 写入（已存在时覆盖）
func (c *LRUCache[K, V]) Set(key K, value V) {
	if c.storage == nil {
		return
	}
	c.storage.Add(key, value)
}
