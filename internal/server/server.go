// Package server wires the directory pipeline together and serves the API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/modboard/modboard/internal/api/http"
	"github.com/modboard/modboard/internal/api/middleware"
	"github.com/modboard/modboard/internal/api/ws"
	"github.com/modboard/modboard/internal/directory"
	"github.com/modboard/modboard/internal/downloads"
	"github.com/modboard/modboard/internal/infrastructure/config"
	"github.com/modboard/modboard/internal/infrastructure/logging"
	"github.com/modboard/modboard/internal/infrastructure/monitoring"
	"github.com/modboard/modboard/internal/sources"
)

// Server wraps the HTTP server and its dependencies. It is the composition
// root: every service object is constructed here and passed by reference;
// nothing in the core holds module-level state.
type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	manager *directory.Manager
	counter *downloads.Counter
	stream  *ws.Handler
	logger  *logging.Logger
	config  *config.Config
}

// New creates a server from configuration.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("initializing directory server",
		zap.String("port", cfg.Server.Port),
		zap.String("source_list", cfg.Directory.SourceList),
	)

	metrics := monitoring.NewMetrics()

	srcs, err := sources.Load(cfg.Directory.SourceList)
	if err != nil {
		return nil, fmt.Errorf("load source list: %w", err)
	}
	logger.Info("source list loaded", zap.Int("sources", len(srcs)))

	client := newHTTPClient(cfg.Directory.FetchTimeout)

	resolver := &directory.SourceResolver{
		RawHost:       cfg.Directory.RawHost,
		WebHost:       cfg.Directory.WebHost,
		DefaultBranch: cfg.Directory.DefaultBranch,
		ManifestName:  cfg.Directory.ManifestName,
	}

	tags := directory.NewTagIndex()
	fetcher := directory.NewFetcher(client, resolver, tags, logger).WithMetrics(metrics)
	manager := directory.NewManager(fetcher, tags, srcs, logger).WithMetrics(metrics)
	counter := downloads.NewCounter(client, logger).WithMetrics(metrics)
	stream := ws.NewHandler(logger, metrics)

	srv := &Server{
		manager: manager,
		counter: counter,
		stream:  stream,
		logger:  logger,
		config:  cfg,
	}
	srv.router = srv.buildRouter(cfg, metrics)
	return srv, nil
}

// newHTTPClient builds the outbound client shared by the fetcher and the
// counter. Retries stay off: a failed source is reported as absent, never
// retried behind the caller's back.
func newHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", "modboard-directory/0.3")
}

func (s *Server) buildRouter(cfg *config.Config, metrics *monitoring.Metrics) *gin.Engine {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(s.manager, s.counter, func(c *gin.Context) directory.LoadResult {
		return s.load(c.Request.Context())
	})

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/packages", handlers.ListPackages)
	router.GET("/packages/:slug", handlers.GetPackage)
	router.GET("/tags", handlers.ListTags)
	router.GET("/state-url", handlers.StateURL)
	router.GET("/stats", handlers.Stats)
	router.POST("/reload", handlers.Reload)
	router.GET("/stream", s.stream.HandleConnection)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// load runs a full directory load, mirroring progress onto the stream.
func (s *Server) load(ctx context.Context) directory.LoadResult {
	s.stream.Broadcast(directory.Event{Type: "load_started"})
	result := s.manager.Load(ctx, s.stream.Broadcast)
	s.stream.Broadcast(directory.Event{
		Type:    "load_complete",
		LoadID:  result.LoadID,
		Message: fmt.Sprintf("%d packages, %d failures", len(result.Packages), result.Failures),
	})
	return result
}

// Run performs the initial load and serves until the listener fails.
func (s *Server) Run() error {
	// Initial load in the background so the API comes up immediately;
	// /packages reports the blocking failure state until it settles.
	go s.load(context.Background())

	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("directory server listening", zap.String("addr", addr))

	s.httpSrv = &http.Server{Addr: addr, Handler: s.router}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}
	_ = s.logger.Sync()
	return err
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
