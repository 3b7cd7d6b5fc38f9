package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/growthos/growthos/internal/activation"
	"github.com/growthos/growthos/internal/ai"
	"github.com/growthos/growthos/internal/alerts"
	"github.com/growthos/growthos/internal/assets"
	"github.com/growthos/growthos/internal/audit"
	"github.com/growthos/growthos/internal/auth"
	"github.com/growthos/growthos/internal/channels"
	"github.com/growthos/growthos/internal/creators"
	"github.com/growthos/growthos/internal/experiments"
	"github.com/growthos/growthos/internal/funnels"
	"github.com/growthos/growthos/internal/observability"
	"github.com/growthos/growthos/internal/portal"
	"github.com/growthos/growthos/internal/reports"
	"github.com/growthos/growthos/internal/strategy"
	"github.com/growthos/growthos/internal/tenancy"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger      *slog.Logger
	Config      *Config
	AuthService *auth.Service

	AuthHandler       *auth.Handler
	TenancyHandler    *tenancy.Handler
	StrategyHandler   *strategy.Handler
	FunnelHandler     *funnels.Handler
	ActivationHandler *activation.Handler
	ExperimentHandler *experiments.Handler
	AssetHandler      *assets.Handler
	CreatorHandler    *creators.Handler
	ChannelHandler    *channels.Handler
	ReportHandler     *reports.Handler
	AlertHandler      *alerts.Handler
	AIHandler         *ai.Handler
	PortalHandler     *portal.Handler
	AuditHandler      *audit.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with GrowthOS defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		params.AuthHandler.MountPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(params.AuthService))

			params.AuthHandler.MountProtected(r)
			params.TenancyHandler.MountRoutes(r)
			params.StrategyHandler.MountRoutes(r)
			params.FunnelHandler.MountRoutes(r)
			params.ActivationHandler.MountRoutes(r)
			params.ExperimentHandler.MountRoutes(r)
			params.AssetHandler.MountRoutes(r)
			params.CreatorHandler.MountRoutes(r)
			params.ChannelHandler.MountRoutes(r)
			params.ReportHandler.MountRoutes(r)
			params.AlertHandler.MountRoutes(r)
			params.AIHandler.MountRoutes(r)
			params.PortalHandler.MountRoutes(r)
			params.AuditHandler.MountRoutes(r)
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
