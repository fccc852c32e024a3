package app

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"marketrewind/internal/domain"
)

// seriesCache memoizes raw-series fetches keyed by (symbol, session,
// load horizon). Cached series are immutable and shared read-only across
// every view querying the same key; aggregation is not memoized because
// the causally sliced input changes on every tick.
type seriesCache struct {
	cache *ristretto.Cache
}

func newSeriesCache() (*seriesCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating series cache: %w", err)
	}
	return &seriesCache{cache: c}, nil
}

func seriesKey(symbol string, session domain.SessionFilter, since time.Time) string {
	return fmt.Sprintf("%s|%s|%s", symbol, session, since.UTC().Format("2006-01-02"))
}

func (c *seriesCache) get(key string) (domain.BarSeries, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	series, ok := v.(domain.BarSeries)
	return series, ok
}

func (c *seriesCache) set(key string, series domain.BarSeries) {
	// Cost is the bar count; admission may still reject the entry, which
	// only costs a refetch.
	c.cache.Set(key, series, int64(len(series))+1)
	c.cache.Wait()
}
