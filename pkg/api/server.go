package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pinion/pkg/config"
	"github.com/platinummonkey/pinion/pkg/manifest"
	"github.com/platinummonkey/pinion/pkg/model"
	"github.com/platinummonkey/pinion/pkg/observability"
	"github.com/platinummonkey/pinion/pkg/resolver"
)

// Server represents the registry API server
type Server struct {
	cfg     config.RegistryConfig
	logger  *observability.Logger
	metrics *observability.Metrics
	router  *mux.Router

	// resolverLog feeds the resolver's debug trace.
	resolverLog *logrus.Logger

	mu         sync.Mutex
	registry   *model.Registry
	lastStatus *resolver.Status
}

// NewServer creates a new API server. metrics may be nil when scraping is
// disabled.
func NewServer(cfg config.RegistryConfig, logger *observability.Logger, resolverLog *logrus.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics,
		resolverLog: resolverLog,
		router:      mux.NewRouter(),
		registry:    &model.Registry{},
		lastStatus:  &resolver.Status{},
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/plugins", s.listPlugins).Methods("GET")
	s.router.HandleFunc("/plugins/{id}", s.getPlugin).Methods("GET")
	s.router.HandleFunc("/plugins/{id}/versions/{version}", s.getPluginVersion).Methods("GET")
	s.router.HandleFunc("/resolve", s.resolveRegistry).Methods("POST")
	s.router.HandleFunc("/diagnostics", s.getDiagnostics).Methods("GET")

	s.router.Use(RequestIDMiddleware)
	s.router.Use(LoggingMiddleware(s.logger))
	if s.metrics != nil {
		s.router.Use(MetricsMiddleware(s.metrics))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Reload loads the plugin directory into a fresh registry, resolves it and
// swaps it in. The previous registry is discarded whole; resolution is not
// incremental.
func (s *Server) Reload() (*resolver.Status, error) {
	registry, err := manifest.LoadDir(s.cfg.PluginDir)
	if err != nil {
		return nil, err
	}

	r := resolver.NewResolver(s.resolverLog)
	r.SetTrimPlugins(s.cfg.TrimPlugins)
	r.SetCrossLink(s.cfg.CrossLink)
	r.SetDebugOptions(s.cfg.DebugOptions)

	start := time.Now()
	status := r.Resolve(registry)
	duration := time.Since(start)

	s.mu.Lock()
	s.registry = registry
	s.lastStatus = status
	enabled, disabled := pluginCounts(registry)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RegistryReloads.Inc()
		s.metrics.ObserveResolve(status, duration)
		s.metrics.SetPluginCounts(enabled, disabled)
	}
	s.logger.WithFields(map[string]interface{}{
		"plugins":     len(registry.Plugins()),
		"enabled":     enabled,
		"diagnostics": len(status.Diagnostics()),
		"duration":    duration.String(),
	}).Info("registry resolved")
	return status, nil
}

func pluginCounts(registry *model.Registry) (enabled, disabled int) {
	for _, pd := range registry.Plugins() {
		if pd.Enabled {
			enabled++
		} else {
			disabled++
		}
	}
	return enabled, disabled
}

// listPlugins handles GET /plugins
func (s *Server) listPlugins(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]PluginSummary, 0, len(s.registry.Plugins()))
	for _, pd := range s.registry.Plugins() {
		summaries = append(summaries, summarize(pd))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plugins": summaries,
		"count":   len(summaries),
	})
}

// getPlugin handles GET /plugins/{id}
func (s *Server) getPlugin(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	var versions []PluginDetail
	for _, pd := range s.registry.Plugins() {
		if pd.ID == id {
			versions = append(versions, detail(pd))
		}
	}
	if len(versions) == 0 {
		http.Error(w, "plugin not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       id,
		"versions": versions,
	})
}

// getPluginVersion handles GET /plugins/{id}/versions/{version}
func (s *Server) getPluginVersion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	pd := s.registry.PluginVersion(vars["id"], vars["version"])
	if pd == nil {
		http.Error(w, "plugin not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail(pd))
}

// resolveRegistry handles POST /resolve
func (s *Server) resolveRegistry(w http.ResponseWriter, r *http.Request) {
	status, err := s.Reload()
	if err != nil {
		s.logger.WithError(err).Error("registry reload failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	enabled, _ := pluginCounts(s.registry)
	total := len(s.registry.Plugins())
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, ResolveResponse{
		OK:          status.OK(),
		Diagnostics: append([]resolver.Diagnostic{}, status.Diagnostics()...),
		Plugins:     total,
		Enabled:     enabled,
	})
}

// getDiagnostics handles GET /diagnostics
func (s *Server) getDiagnostics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":          s.lastStatus.OK(),
		"diagnostics": append([]resolver.Diagnostic{}, s.lastStatus.Diagnostics()...),
	})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
