package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modboard/modboard/internal/infrastructure/logging"
	"github.com/modboard/modboard/internal/infrastructure/monitoring"
)

// Fetcher loads manifests from an ordered set of repository sources.
//
// All fetches within one load are issued concurrently and awaited jointly:
// the load completes only when every source has either succeeded or failed,
// and no fetch is cancelled on another's failure. Each fetch, parse, and
// normalization failure is converted to a diagnostic plus "no Package for
// this source" and never aborts the batch.
type Fetcher struct {
	client   *resty.Client
	resolver *SourceResolver
	tags     *TagIndex
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewFetcher creates a fetcher. The tag index receives the union of tags
// from every successfully normalized package.
func NewFetcher(client *resty.Client, resolver *SourceResolver, tags *TagIndex, logger *logging.Logger) *Fetcher {
	return &Fetcher{
		client:   client,
		resolver: resolver,
		tags:     tags,
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the fetcher.
func (f *Fetcher) WithMetrics(metrics *monitoring.Metrics) *Fetcher {
	f.metrics = metrics
	return f
}

// Event reports per-source progress during a load, for incremental display.
type Event struct {
	Type    string   `json:"type"`
	LoadID  string   `json:"load_id"`
	Source  string   `json:"source,omitempty"`
	Package *Package `json:"package,omitempty"`
	Message string   `json:"message,omitempty"`
}

// LoadAll fetches every source concurrently and collects the successful
// normalizations, stable by source index rather than completion time.
// The optional notify callback receives a package_loaded event per success;
// it may be called from multiple goroutines.
func (f *Fetcher) LoadAll(ctx context.Context, sources []string, notify func(Event)) LoadResult {
	loadID := uuid.NewString()

	type slot struct {
		pkg Package
		err error
	}
	slots := make([]slot, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			pkg, err := f.fetchOne(ctx, source)
			if err != nil {
				slots[i] = slot{err: err}
				f.logger.Warn("manifest fetch failed",
					zap.String("load_id", loadID),
					zap.String("source", source),
					zap.Error(err),
				)
				if f.metrics != nil {
					f.metrics.RecordManifestFetch("failure")
				}
				return
			}
			slots[i] = slot{pkg: pkg}
			// Tags from successes reach the index even before the whole
			// batch settles; the union is unaffected by interleaving.
			f.tags.AddAll(pkg.Tags)
			if f.metrics != nil {
				f.metrics.RecordManifestFetch("success")
			}
			if notify != nil {
				notify(Event{Type: "package_loaded", LoadID: loadID, Source: source, Package: &pkg})
			}
		}(i, source)
	}
	wg.Wait()

	result := LoadResult{LoadID: loadID, Sources: len(sources)}
	for i, s := range slots {
		if s.err != nil {
			result.Failures++
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Source:  sources[i],
				Message: s.err.Error(),
			})
			continue
		}
		result.Packages = append(result.Packages, s.pkg)
	}
	return result
}

// fetchOne resolves, fetches, parses, and normalizes a single source.
func (f *Fetcher) fetchOne(ctx context.Context, source string) (Package, error) {
	manifestURL := f.resolver.ManifestURL(source)

	resp, err := f.client.R().SetContext(ctx).Get(manifestURL)
	if err != nil {
		return Package{}, fmt.Errorf("fetch %s: %w", manifestURL, err)
	}
	if resp.IsError() {
		return Package{}, fmt.Errorf("fetch %s: status %d", manifestURL, resp.StatusCode())
	}

	raw, err := ParseManifest(resp.Body())
	if err != nil {
		return Package{}, fmt.Errorf("parse manifest from %s: %w", manifestURL, err)
	}
	return Normalize(raw), nil
}
