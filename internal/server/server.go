// Package server is the reference asset store: a REST backend under
// /api/assets that the asset client and the CLI talk to.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"asset-inventory/internal/auth"
	"asset-inventory/internal/config"
	"asset-inventory/internal/handlers"
	"asset-inventory/internal/logger"
	"asset-inventory/internal/metrics"
	"asset-inventory/internal/server/store"
)

// BasePath is where the asset collection is mounted
const BasePath = "/api/assets"

type Server struct {
	Store      store.Store
	Router     *chi.Mux
	JWTManager *auth.JWTManager
	Metrics    *metrics.Metrics
	log        logger.Logger
}

// New wires the router over st. A nil cfg serves without auth or metrics.
func New(st store.Store, cfg *config.ServerConfig, log logger.Logger) (*Server, error) {
	if cfg == nil {
		cfg = &config.ServerConfig{}
	}
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		Store:  st,
		Router: chi.NewRouter(),
		log:    log,
	}

	if cfg.AuthEnabled {
		s.JWTManager = auth.NewJWTManagerFromConfig(cfg.JWT)
		if err := s.JWTManager.ValidateConfig(); err != nil {
			return nil, fmt.Errorf("JWT configuration validation failed: %w", err)
		}
	}

	// chi requires middleware before any route
	if cfg.EnableMetrics {
		s.Metrics = metrics.NewMetrics()
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	s.Router.Route(BasePath, func(r chi.Router) {
		if s.JWTManager != nil {
			r.Use(auth.AuthMiddleware(s.JWTManager))
		}
		s.mountAssetRoutes(r)
	})

	s.refreshStoreSize(context.Background())
	return s, nil
}

// mountAssetRoutes mounts the collection. With auth on, writes need asset_admin.
func (s *Server) mountAssetRoutes(r chi.Router) {
	writes := r
	if s.JWTManager != nil {
		writes = r.With(auth.MustRole(auth.RoleAssetAdmin))
	}

	r.Get("/", s.listAssets)
	r.Get("/paginated", s.listAssetsPaginated)
	r.Get("/{id}", s.getAsset)
	writes.Post("/", s.createAsset)
	writes.Put("/{id}", s.updateAsset)
	writes.Delete("/{id}", s.deleteAsset)

	importsHandler := handlers.NewImportsHandler(s.Store, s.log)
	importsHandler.OnChange = s.refreshStoreSize
	writes.Post("/import", importsHandler.UploadExcel)
}

// Close releases the store
func (s *Server) Close(ctx context.Context) error {
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}

func (s *Server) refreshStoreSize(ctx context.Context) {
	if s.Metrics == nil {
		return
	}
	n, err := s.Store.Count(ctx)
	if err != nil {
		s.log.Warnw("count assets failed", "error", err)
		return
	}
	s.Metrics.SetStoreSize(n)
}
