package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0  // responses carry "no-cache"
	CacheCustom  = -1 // the handler sets its own header
)

// CacheRouter stamps a cache-control header on every response passing
// through it. The API serves mutable vault state, so no-cache is the
// default and media endpoints override per response.
type CacheRouter struct {
	CacheTime int // max-age in seconds
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch cr.CacheTime {
		case CacheCustom:
			// left to the handler
		case CacheNoCache:
			c.Header("cache-control", "no-cache")
		default:
			c.Header("cache-control", "private, max-age="+strconv.Itoa(cr.CacheTime))
		}
		c.Next()
	}
}
