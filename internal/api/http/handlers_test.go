package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modboard/modboard/internal/directory"
	"github.com/modboard/modboard/internal/downloads"
	"github.com/modboard/modboard/internal/infrastructure/logging"
)

func newTestRouter(t *testing.T) (*gin.Engine, *directory.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	releases := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"assets":[{"download_count":1500}]}]`)
	}))
	t.Cleanup(releases.Close)

	manifests := map[string]string{
		"/alpha/manifest.json": fmt.Sprintf(
			`{"name":"Alpha Mod","author":"ada","description":"map overlays","keywords":["ui","maps"],"links":{"release":%q}}`,
			releases.URL),
		"/beta/manifest.json": `{"name":"Beta","author":"grace","description":"extra audio","tags":["audio"]}`,
	}
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := manifests[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(host.Close)

	logger := logging.NewNop()
	client := resty.New()
	tags := directory.NewTagIndex()
	fetcher := directory.NewFetcher(client, directory.NewSourceResolver("manifest.json"), tags, logger)
	manager := directory.NewManager(fetcher, tags, []string{host.URL + "/alpha", host.URL + "/beta"}, logger)
	counter := downloads.NewCounter(client, logger)

	manager.Load(context.Background(), nil)

	handlers := NewHandlers(manager, counter, func(c *gin.Context) directory.LoadResult {
		return manager.Load(c.Request.Context(), nil)
	})

	router := gin.New()
	router.GET("/packages", handlers.ListPackages)
	router.GET("/packages/:slug", handlers.GetPackage)
	router.GET("/tags", handlers.ListTags)
	router.GET("/state-url", handlers.StateURL)
	router.GET("/stats", handlers.Stats)
	router.GET("/health", handlers.Health)
	router.POST("/reload", handlers.Reload)
	return router, manager
}

func doRequest(t *testing.T, router *gin.Engine, method, target string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestListPackages(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("unfiltered listing", func(t *testing.T) {
		code, body := doRequest(t, router, http.MethodGet, "/packages")
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 2, body["total"])
		assert.Equal(t, "", body["url"])
	})

	t.Run("text filter", func(t *testing.T) {
		code, body := doRequest(t, router, http.MethodGet, "/packages?search=audio")
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 1, body["total"])
		pkgs := body["packages"].([]any)
		assert.Equal(t, "Beta", pkgs[0].(map[string]any)["name"])
	})

	t.Run("legacy q parameter", func(t *testing.T) {
		code, body := doRequest(t, router, http.MethodGet, "/packages?q=audio")
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 1, body["total"])
	})

	t.Run("tag filter with canonical url", func(t *testing.T) {
		code, body := doRequest(t, router, http.MethodGet, "/packages?tags=ui")
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 1, body["total"])
		assert.Equal(t, "?tags=ui", body["url"])
	})

	t.Run("unknown tag matches everything", func(t *testing.T) {
		code, body := doRequest(t, router, http.MethodGet, "/packages?tags=rogue")
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 2, body["total"])
	})

	t.Run("download counts decorate release packages", func(t *testing.T) {
		_, body := doRequest(t, router, http.MethodGet, "/packages?search=alpha")
		pkgs := body["packages"].([]any)
		require.Len(t, pkgs, 1)
		pkg := pkgs[0].(map[string]any)
		assert.EqualValues(t, 1500, pkg["downloads"])
		assert.Equal(t, "1.5K", pkg["downloads_display"])
	})

	t.Run("fragment-only request is a direct link", func(t *testing.T) {
		code, body := doRequest(t, router, http.MethodGet, "/packages?fragment=alpha-mod")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["direct"])
		assert.EqualValues(t, 1, body["total"])
	})

	t.Run("fragment plus params only highlights", func(t *testing.T) {
		_, body := doRequest(t, router, http.MethodGet, "/packages?search=beta&fragment=alpha-mod")
		assert.Equal(t, false, body["direct"])
		assert.EqualValues(t, 1, body["total"])
		pkgs := body["packages"].([]any)
		assert.Equal(t, "Beta", pkgs[0].(map[string]any)["name"])
	})
}

func TestGetPackage(t *testing.T) {
	router, _ := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodGet, "/packages/alpha-mod")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Alpha Mod", body["name"])

	code, _ = doRequest(t, router, http.MethodGet, "/packages/nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListTags(t *testing.T) {
	router, _ := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodGet, "/tags")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["total"])
	tags := body["tags"].([]any)
	assert.Equal(t, []any{"audio", "maps", "ui"}, tags)
}

func TestStateURL(t *testing.T) {
	router, _ := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodGet, "/state-url?raw=search%3Dfoo%26tags%3Dui")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "?search=foo&tags=ui", body["url"])
}

func TestReloadAndStats(t *testing.T) {
	router, _ := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodPost, "/reload")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["sources"])
	assert.EqualValues(t, 2, body["packages"])
	assert.EqualValues(t, 0, body["failures"])

	code, body = doRequest(t, router, http.MethodGet, "/stats")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["packages"])
	assert.EqualValues(t, 2, body["loads"])
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	code, body := doRequest(t, router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
}
