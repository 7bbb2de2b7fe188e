package http

import (
	"net/http"

	"github.com/agsafastpitch/leagueops/internal/config"
	"github.com/agsafastpitch/leagueops/internal/importer"
	"github.com/agsafastpitch/leagueops/internal/league"
	"github.com/agsafastpitch/leagueops/internal/metrics"
	"github.com/agsafastpitch/leagueops/internal/planner"
	"github.com/go-playground/validator/v10"
)

func NewServer(store league.Store, plannerSvc *planner.Planner, importerSvc *importer.Importer, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Planner:        plannerSvc,
		Importer:       importerSvc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/teams", Chain(s.ListTeamsHandler(), paramsMiddleware))
	s.Router.Handle("/schedule/preview", Chain(s.PreviewScheduleHandler(), paramsMiddleware))
	s.Router.Handle("/schedule/apply", Chain(s.ApplyScheduleHandler(), paramsMiddleware))
	s.Router.Handle("/slots/generate", Chain(s.GenerateSlotsHandler(), paramsMiddleware))
	s.Router.Handle("/slots/import", Chain(s.ImportSlotsHandler(), paramsMiddleware))
	s.Router.Handle("/runs", Chain(s.ListRunsHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
