// Package cache provides a small generic LRU cache.
//
//	c := cache.New[string, *LUT](32)
//	lut, ok := c.GetOrCreate("viridis", buildViridis)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
