package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg).(*collectors)

	m.ObserveRequest("hive", "condenser_api.get_accounts", nil, time.Millisecond)
	m.ObserveRequest("hive", "condenser_api.get_accounts", errors.New("test"), time.Millisecond)
	m.ObserveRequest("hive", "condenser_api.get_accounts", nil, time.Millisecond)
	m.IncSignRequests("transfer", false)
	m.IncCacheHits("price")
	m.IncCacheMisses("price")
	m.IncCacheMisses("price")

	require.EqualValues(t, 2, testutil.ToFloat64(m.requestsTotal.WithLabelValues("hive", "condenser_api.get_accounts", "ok")))
	require.EqualValues(t, 1, testutil.ToFloat64(m.requestsTotal.WithLabelValues("hive", "condenser_api.get_accounts", "error")))
	require.EqualValues(t, 1, testutil.ToFloat64(m.signTotal.WithLabelValues("transfer", "error")))
	require.EqualValues(t, 1, testutil.ToFloat64(m.cacheHits.WithLabelValues("price")))
	require.EqualValues(t, 2, testutil.ToFloat64(m.cacheMisses.WithLabelValues("price")))
	require.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}

func TestNoop(t *testing.T) {
	m := Noop()

	require.NotPanics(t, func() {
		m.ObserveRequest("hive", "method", nil, time.Second)
		m.IncSignRequests("post", true)
		m.IncCacheHits("price")
		m.IncCacheMisses("price")
	})
}
