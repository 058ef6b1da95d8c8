// Package coingecko is implementation of price quoter over CoinGecko simple price API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coocood/freecache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/crowdhive/crowdhive/internal/metrics"
	"github.com/crowdhive/crowdhive/internal/price"
)

const cacheSize = 512 * 1024

var log = logrus.WithField("layer", "price").WithField("package", "coingecko")

var cacheKey = []byte("hive/usd")

type quoter struct {
	url   string
	c     *http.Client
	m     metrics.Metrics
	cache *freecache.Cache
	ttl   int
}

type priceResponse struct {
	Hive *struct {
		USD *float64 `json:"usd"`
	} `json:"hive"`
}

// New creates new instance of quoter. Quotes are cached for ttl, zero ttl disables the cache.
func New(url string, c *http.Client, ttl time.Duration, m metrics.Metrics) price.Quoter {
	q := &quoter{
		url: url,
		c:   c,
		m:   m,
		ttl: int(ttl.Seconds()),
	}

	if q.ttl > 0 {
		q.cache = freecache.NewCache(cacheSize)
	}

	return q
}

func (q *quoter) HiveUSD(ctx context.Context) (decimal.Decimal, error) {
	if q.cache != nil {
		if b, err := q.cache.Get(cacheKey); err == nil {
			if v, err := decimal.NewFromString(string(b)); err == nil {
				q.m.IncCacheHits("price")
				return v, nil
			}
		}
		q.m.IncCacheMisses("price")
	}

	v, err := q.fetch(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if q.cache != nil {
		if err := q.cache.Set(cacheKey, []byte(v.String()), q.ttl); err != nil {
			log.WithError(err).Warn("failed to cache quote")
		}
	}

	return v, nil
}

func (q *quoter) fetch(ctx context.Context) (v decimal.Decimal, err error) {
	started := time.Now()
	defer func() {
		q.m.ObserveRequest("coingecko", "simple/price", err, time.Since(started))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := q.c.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var r priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode response: %w", err)
	}

	if r.Hive == nil || r.Hive.USD == nil || *r.Hive.USD <= 0 {
		return decimal.Zero, price.ErrNoQuote
	}

	return decimal.NewFromFloat(*r.Hive.USD), nil
}
