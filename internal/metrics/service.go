package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ScheduleRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leagueops_schedule_runs_total",
			Help: "The total number of schedule preview/apply runs.",
		}),
		ScheduleApplies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leagueops_schedule_applies_total",
			Help: "The total number of schedule apply invocations.",
		}),
		AssignmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leagueops_assignment_duration_seconds",
			Help:    "The duration of matchup assignment runs.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlotsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leagueops_slots_generated_total",
			Help: "The total number of slots created from availability rules.",
		}),
		SlotsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leagueops_slots_imported_total",
			Help: "The total number of slots created through CSV import.",
		}),
		ImportRowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leagueops_import_rows_skipped_total",
			Help: "The total number of CSV import rows rejected or skipped.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leagueops_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ScheduleRuns,
		s.ScheduleApplies,
		s.AssignmentDuration,
		s.SlotsGenerated,
		s.SlotsImported,
		s.ImportRowsSkipped,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncScheduleRuns() {
	s.ScheduleRuns.Inc()
}

func (s *Service) IncScheduleApplies() {
	s.ScheduleApplies.Inc()
}

func (s *Service) ObserveAssignmentDuration(seconds float64) {
	s.AssignmentDuration.Observe(seconds)
}

func (s *Service) AddSlotsGenerated(count int) {
	s.SlotsGenerated.Add(float64(count))
}

func (s *Service) AddSlotsImported(count int) {
	s.SlotsImported.Add(float64(count))
}

func (s *Service) AddImportRowsSkipped(count int) {
	s.ImportRowsSkipped.Add(float64(count))
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
