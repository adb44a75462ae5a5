package downloads

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/modboard/modboard/internal/infrastructure/logging"
	"github.com/modboard/modboard/internal/infrastructure/monitoring"
)

// Counter resolves total download counts for release-list URLs.
//
// The cache is keyed by the exact URL string. Once a URL has resolved, the
// cached value is returned without re-fetching; failures cache as zero, so
// a second call never turns into a hidden retry. When two callers race on
// the same key the first write wins, which is acceptable since resolved
// values are idempotent.
type Counter struct {
	client  *resty.Client
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu    sync.RWMutex
	cache map[string]int64
}

// NewCounter creates a counter with an empty cache.
func NewCounter(client *resty.Client, logger *logging.Logger) *Counter {
	return &Counter{
		client: client,
		logger: logger,
		cache:  make(map[string]int64),
	}
}

// WithMetrics adds cache hit/miss tracking to the counter.
func (c *Counter) WithMetrics(metrics *monitoring.Metrics) *Counter {
	c.metrics = metrics
	return c
}

// ResolveCount returns the aggregated download count for a release-list URL,
// always >= 0. Transport failures, non-success statuses, and malformed
// payloads resolve to 0 with a logged diagnostic; nothing propagates.
func (c *Counter) ResolveCount(ctx context.Context, releaseListURL string) int64 {
	c.mu.RLock()
	cached, ok := c.cache[releaseListURL]
	c.mu.RUnlock()
	if ok {
		if c.metrics != nil {
			c.metrics.RecordCountLookup("hit")
		}
		return cached
	}
	if c.metrics != nil {
		c.metrics.RecordCountLookup("miss")
	}

	count := c.fetchCount(ctx, releaseListURL)

	c.mu.Lock()
	if prior, ok := c.cache[releaseListURL]; ok {
		count = prior // first write wins
	} else {
		c.cache[releaseListURL] = count
	}
	c.mu.Unlock()

	return count
}

// CacheSize returns the number of resolved URLs.
func (c *Counter) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Counter) fetchCount(ctx context.Context, url string) int64 {
	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		c.logger.Warn("release list fetch failed", zap.String("url", url), zap.Error(err))
		return 0
	}
	if resp.IsError() {
		c.logger.Warn("release list fetch failed",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode()),
		)
		return 0
	}

	count, err := sumDownloadCounts(resp.Body())
	if err != nil {
		c.logger.Warn("release list parse failed", zap.String("url", url), zap.Error(err))
		return 0
	}
	return count
}

// sumDownloadCounts totals assets[].download_count across every release.
// Individual releases that do not decode (e.g. a non-array assets field)
// contribute zero rather than failing the whole response.
func sumDownloadCounts(data []byte) (int64, error) {
	var releases []json.RawMessage
	if err := sonic.Unmarshal(data, &releases); err != nil {
		return 0, err
	}

	var total int64
	for _, raw := range releases {
		var release struct {
			Assets []struct {
				DownloadCount int64 `json:"download_count"`
			} `json:"assets"`
		}
		if err := sonic.Unmarshal(raw, &release); err != nil {
			continue
		}
		for _, asset := range release.Assets {
			if asset.DownloadCount > 0 {
				total += asset.DownloadCount
			}
		}
	}
	return total, nil
}
