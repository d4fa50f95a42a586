package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nova19-exe/eBhutanza/internal/admin"
	applicationhandler "github.com/nova19-exe/eBhutanza/internal/application/handler"
	compliancehandler "github.com/nova19-exe/eBhutanza/internal/compliance/handler"
	dashboardhandler "github.com/nova19-exe/eBhutanza/internal/dashboard/handler"
	identityhandler "github.com/nova19-exe/eBhutanza/internal/identity/handler"
	"github.com/nova19-exe/eBhutanza/internal/identity/token"
	incorporationhandler "github.com/nova19-exe/eBhutanza/internal/incorporation/handler"
	"github.com/nova19-exe/eBhutanza/internal/platform/config"
	"github.com/nova19-exe/eBhutanza/internal/platform/metrics"
	profilehandler "github.com/nova19-exe/eBhutanza/internal/profile/handler"
	settingshandler "github.com/nova19-exe/eBhutanza/internal/settings/handler"
	"github.com/nova19-exe/eBhutanza/pkg/platform/httputil"
	adminmw "github.com/nova19-exe/eBhutanza/pkg/platform/middleware/admin"
	authmw "github.com/nova19-exe/eBhutanza/pkg/platform/middleware/auth"
	"github.com/nova19-exe/eBhutanza/pkg/platform/middleware/metadata"
	"github.com/nova19-exe/eBhutanza/pkg/platform/middleware/request"
	"github.com/nova19-exe/eBhutanza/pkg/platform/middleware/requesttime"
)

func newRouter(a *app, cfg config.Config, log *slog.Logger, reg prometheus.Registerer) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(log))
	r.Use(metrics.NewWithRegistry(reg).Middleware)
	r.Use(request.ContentTypeJSON)

	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	identity := identityhandler.New(a.identity, log)
	identity.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(token.NewMiddlewareAdapter(a.jwt), a.identity, log))
		identity.RegisterProtected(r)
		applicationhandler.New(a.tracker, log).Register(r)
		compliancehandler.New(a.compliance, log).Register(r)
		incorporationhandler.New(a.incorporations, log).Register(r)
		profilehandler.New(a.profiles, log).Register(r)
		settingshandler.New(a.settings, log).Register(r)
		dashboardhandler.New(a.dashboard, log).Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(cfg.Server.AdminToken, log))
		admin.New(a.tracker, a.audit, log).Register(r)
	})
	return r
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Redis   string `json:"redis,omitempty"`
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Storage: a.storage.Backend}
	status := http.StatusOK
	if a.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		resp.Redis = "ok"
		if err := a.redis.Health(ctx); err != nil {
			resp.Status, resp.Redis = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	httputil.WriteJSON(w, status, resp)
}
