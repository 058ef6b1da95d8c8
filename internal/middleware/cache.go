// Package middleware contains http middlewares.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/coocood/freecache"

	"github.com/crowdhive/crowdhive/internal/metrics"
)

const cacheSize = 4 * 1024 * 1024

// Cached caches successful responses by request URI for ttl.
func Cached(name string, ttl time.Duration, m metrics.Metrics, handler http.HandlerFunc) http.HandlerFunc {
	storage := freecache.NewCache(cacheSize)

	return func(w http.ResponseWriter, r *http.Request) {
		key := []byte(r.RequestURI)

		if content, err := storage.Get(key); err == nil {
			m.IncCacheHits(name)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(content)
			return
		}

		m.IncCacheMisses(name)

		c := httptest.NewRecorder()
		handler(c, r)

		for k, v := range c.Header() {
			w.Header()[k] = v
		}

		w.WriteHeader(c.Code)
		content := c.Body.Bytes()

		if c.Code == http.StatusOK {
			if err := storage.Set(key, content, int(ttl.Seconds())); err != nil {
				GetLogger(r.Context()).WithError(err).Warn("failed to cache response")
			}
		}

		_, _ = w.Write(content)
	}
}
