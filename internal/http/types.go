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

type Server struct {
	Store          league.Store
	Planner        *planner.Planner
	Importer       *importer.Importer
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	validate       *validator.Validate
}

// scheduleRequest is the JSON body for /schedule/preview and /schedule/apply.
type scheduleRequest struct {
	Division             string `json:"division" validate:"required"`
	DateFrom             string `json:"dateFrom" validate:"required,datetime=2006-01-02"`
	DateTo               string `json:"dateTo" validate:"required,datetime=2006-01-02"`
	MaxGamesPerWeek      *int   `json:"maxGamesPerWeek,omitempty" validate:"omitempty,gte=0"`
	NoDoubleHeaders      bool   `json:"noDoubleHeaders"`
	BalanceHomeAway      bool   `json:"balanceHomeAway"`
	ExternalOfferPerWeek *int   `json:"externalOfferPerWeek,omitempty" validate:"omitempty,gte=0"`
}

// slotGenRequest is the JSON body for /slots/generate.
type slotGenRequest struct {
	Division          string   `json:"division" validate:"required"`
	FieldKeys         []string `json:"fieldKeys"`
	DateFrom          string   `json:"dateFrom" validate:"required,datetime=2006-01-02"`
	DateTo            string   `json:"dateTo" validate:"required,datetime=2006-01-02"`
	GameLengthMinutes int      `json:"gameLengthMinutes" validate:"omitempty,gt=0"`
	Mode              string   `json:"mode" validate:"required,oneof=rules fixed"`
	DaysOfWeek        []int    `json:"daysOfWeek" validate:"omitempty,dive,gte=0,lte=6"`
	StartMinute       int      `json:"startMinute" validate:"gte=0,lt=1440"`
	EndMinute         int      `json:"endMinute" validate:"gte=0,lte=1440"`
}
