package factory

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize bounds the number of products kept by WithCache.
const DefaultCacheSize = 1024

// productCache is a best effort memo. Two goroutines missing the same key
// both construct a product and the last Add wins.
type productCache struct {
	lru *lru.Cache
}

func newProductCache(size int) *productCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &productCache{lru: c}
}

func (c *productCache) get(key string) (any, bool) {
	return c.lru.Get(key)
}

func (c *productCache) add(key string, value any) {
	c.lru.Add(key, value)
}

// cacheKey identifies a (key, arguments) tuple by the type and value of
// each element, so int(1) and int64(1) are different arguments.
func cacheKey[K any](key K, args []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%T:%#v", key, key)
	for _, arg := range args {
		fmt.Fprintf(&b, "|%T:%#v", arg, arg)
	}
	return b.String()
}
