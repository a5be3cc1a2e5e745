package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merchantpulse/dashboard-api/api/controllers"
	dashboardcontrollers "github.com/merchantpulse/dashboard-api/api/controllers/dashboard"
	"github.com/merchantpulse/dashboard-api/api/middleware"
	"github.com/merchantpulse/dashboard-api/internal/insights"
	"github.com/merchantpulse/dashboard-api/pkg/logger"
)

func NewRouter(
	logg *logger.Logger,
	insightsService insights.Service,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.Health())
	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/dashboard/metrics", dashboardcontrollers.Metrics(insightsService, logg))
	})

	return r
}
