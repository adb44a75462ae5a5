// Package http contains the gin handlers of the directory API. The handlers
// are a thin presentation adapter: all filtering and state decoding happens
// in the directory core, which holds no transport references.
package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/modboard/modboard/internal/directory"
	"github.com/modboard/modboard/internal/downloads"
)

// fragmentParam stands in for the URL hash, which browsers never transmit
// to a server. The frontend mirrors its fragment into this parameter.
const fragmentParam = "fragment"

// Handlers contains all HTTP handlers.
type Handlers struct {
	manager *directory.Manager
	counter *downloads.Counter
	reload  func(*gin.Context) directory.LoadResult
}

// NewHandlers creates a handler set. reload re-runs the full directory load;
// it is injected so the server can attach stream notifications.
func NewHandlers(manager *directory.Manager, counter *downloads.Counter, reload func(*gin.Context) directory.LoadResult) *Handlers {
	return &Handlers{
		manager: manager,
		counter: counter,
		reload:  reload,
	}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "modboard directory",
		"version": "0.3.0",
	})
}

// Health handles detailed health check.
func (h *Handlers) Health(c *gin.Context) {
	status := "healthy"
	if h.manager.Failed() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      status,
		"directory":   h.manager.Stats(),
		"count_cache": gin.H{"entries": h.counter.CacheSize()},
	})
}

// packageView decorates a package with its resolved download count for
// rendering. Counts exist only for packages advertising a release link.
type packageView struct {
	directory.Package
	Downloads        *int64 `json:"downloads,omitempty"`
	DownloadsDisplay string `json:"downloads_display,omitempty"`
}

// ListPackages answers the directory listing: it decodes the view state
// from the request query, applies the filter pipeline, and returns the
// matching packages with download counts and the canonical URL encoding.
func (h *Handlers) ListPackages(c *gin.Context) {
	if h.manager.Failed() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":       "directory load failed",
			"diagnostics": h.manager.Stats().Diagnostics,
		})
		return
	}

	params := c.Request.URL.Query()
	fragment := params.Get(fragmentParam)
	params.Del(fragmentParam)

	state := directory.DecodeViewState(params, fragment, h.manager.Tags())
	direct := directory.DirectLink(params, fragment)
	matched := state.Apply(h.manager.Packages(), len(params) > 0)

	c.JSON(http.StatusOK, gin.H{
		"packages": h.decorate(c, matched),
		"total":    len(matched),
		"state":    state,
		"url":      state.Encode(),
		"direct":   direct,
	})
}

// GetPackage handles direct links: lookup by slug, first match wins.
func (h *Handlers) GetPackage(c *gin.Context) {
	slug := c.Param("slug")
	pkg, ok := directory.FindBySlug(h.manager.Packages(), slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "package not found", "slug": slug})
		return
	}
	c.JSON(http.StatusOK, h.decorate(c, []directory.Package{pkg})[0])
}

// ListTags returns the sorted tag list for filter-UI population.
func (h *Handlers) ListTags(c *gin.Context) {
	tags := h.manager.Tags().SortedList()
	c.JSON(http.StatusOK, gin.H{
		"tags":  tags,
		"total": len(tags),
	})
}

// Reload re-runs the full directory load. The download count cache is
// deliberately left untouched; it has no invalidation.
func (h *Handlers) Reload(c *gin.Context) {
	result := h.reload(c)
	c.JSON(http.StatusOK, gin.H{
		"load_id":  result.LoadID,
		"sources":  result.Sources,
		"packages": len(result.Packages),
		"failures": result.Failures,
	})
}

// Stats returns load statistics and the diagnostics of the last load.
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Stats())
}

func (h *Handlers) decorate(c *gin.Context, pkgs []directory.Package) []packageView {
	views := make([]packageView, len(pkgs))
	for i, pkg := range pkgs {
		views[i] = packageView{Package: pkg}
		if pkg.Links.Release == "" {
			continue
		}
		count := h.counter.ResolveCount(c.Request.Context(), pkg.Links.Release)
		views[i].Downloads = &count
		views[i].DownloadsDisplay = downloads.FormatCount(count)
	}
	return views
}

// StateURL rebuilds the canonical address-bar representation for a raw
// query string, used by frontends to normalize what they push into
// browser history.
func (h *Handlers) StateURL(c *gin.Context) {
	params, err := url.ParseQuery(c.Query("raw"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed query: " + err.Error()})
		return
	}
	fragment := params.Get(fragmentParam)
	params.Del(fragmentParam)

	state := directory.DecodeViewState(params, fragment, h.manager.Tags())
	c.JSON(http.StatusOK, gin.H{
		"state": state,
		"url":   state.Encode(),
	})
}
