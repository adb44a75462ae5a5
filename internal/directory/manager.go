package directory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/modboard/modboard/internal/infrastructure/logging"
	"github.com/modboard/modboard/internal/infrastructure/monitoring"
)

// Manager owns the current package set, the tag index, and the diagnostics
// of the last load. The set is rebuilt in full on every reload; the swap is
// atomic so readers never observe a partial load. The manager is constructed
// by the composition root and passed by reference, never held as a global.
type Manager struct {
	mu       sync.RWMutex
	packages []Package
	last     LoadResult
	loadedAt time.Time
	loads    int

	fetcher *Fetcher
	tags    *TagIndex
	sources []string
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewManager creates a directory manager over a fixed source list.
func NewManager(fetcher *Fetcher, tags *TagIndex, sources []string, logger *logging.Logger) *Manager {
	return &Manager{
		fetcher: fetcher,
		tags:    tags,
		sources: sources,
		logger:  logger,
	}
}

// WithMetrics adds metrics tracking to the manager.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Load performs a full rebuild of the package set. Per-source failures are
// already folded into diagnostics by the fetcher; Load itself cannot fail.
func (m *Manager) Load(ctx context.Context, notify func(Event)) LoadResult {
	start := time.Now()
	result := m.fetcher.LoadAll(ctx, m.sources, notify)
	elapsed := time.Since(start)

	m.mu.Lock()
	m.packages = result.Packages
	m.last = result
	m.loadedAt = time.Now()
	m.loads++
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.ObserveLoad(elapsed, len(result.Packages), m.tags.Len())
	}
	m.logger.Info("directory load complete",
		zap.String("load_id", result.LoadID),
		zap.Int("sources", result.Sources),
		zap.Int("packages", len(result.Packages)),
		zap.Int("failures", result.Failures),
		zap.Duration("elapsed", elapsed),
	)
	return result
}

// Packages returns the current package set, in source order.
func (m *Manager) Packages() []Package {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.packages
}

// Tags returns the tag index shared with the fetcher.
func (m *Manager) Tags() *TagIndex {
	return m.tags
}

// Failed reports the total-load failure state: at least one source was
// configured but no load has ever produced a package. This is the only
// blocking, user-visible failure.
func (m *Manager) Failed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loads > 0 && len(m.packages) == 0 && len(m.sources) > 0
}

// Stats describes the manager's current state for health and stats endpoints.
type Stats struct {
	Packages    int          `json:"packages"`
	Tags        int          `json:"tags"`
	Sources     int          `json:"sources"`
	Loads       int          `json:"loads"`
	LoadedAt    time.Time    `json:"loaded_at"`
	LastLoadID  string       `json:"last_load_id"`
	Failures    int          `json:"failures"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Stats returns a snapshot of the manager state.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Packages:    len(m.packages),
		Tags:        m.tags.Len(),
		Sources:     len(m.sources),
		Loads:       m.loads,
		LoadedAt:    m.loadedAt,
		LastLoadID:  m.last.LoadID,
		Failures:    m.last.Failures,
		Diagnostics: m.last.Diagnostics,
	}
}
