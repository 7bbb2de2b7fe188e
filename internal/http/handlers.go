package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agsafastpitch/leagueops/internal/planner"
	"github.com/agsafastpitch/leagueops/internal/schedule"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

func (s *Server) ListTeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		division := r.URL.Query().Get("division")
		teams, err := s.Store.LoadTeams(division)
		if err != nil {
			http.Error(w, "Failed to get teams", http.StatusInternalServerError)
			log.Error("Failed to get teams from store", "error", err)
			return
		}
		respondJSON(w, teams)
	}
}

func (s *Server) PreviewScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := s.decodeScheduleRequest(w, r)
		if !ok {
			return
		}
		result, err := s.Planner.PreviewSchedule(req)
		if err != nil {
			s.respondPlannerError(w, err)
			return
		}
		respondJSON(w, result)
	}
}

func (s *Server) ApplyScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := s.decodeScheduleRequest(w, r)
		if !ok {
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Previewing schedule instead of applying", "division", req.Division)
			result, err := s.Planner.PreviewSchedule(req)
			if err != nil {
				s.respondPlannerError(w, err)
				return
			}
			respondJSON(w, result)
			return
		}
		result, err := s.Planner.ApplySchedule(req)
		if err != nil {
			s.respondPlannerError(w, err)
			return
		}
		respondJSON(w, result)
	}
}

func (s *Server) GenerateSlotsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body slotGenRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := s.validate.Struct(body); err != nil {
			http.Error(w, validationMessage(err), http.StatusBadRequest)
			return
		}

		gameLength := body.GameLengthMinutes
		if gameLength == 0 {
			gameLength = s.Cfg.Defaults.GameLengthMinutes
		}
		days := make([]time.Weekday, len(body.DaysOfWeek))
		for i, d := range body.DaysOfWeek {
			days[i] = time.Weekday(d)
		}
		req := planner.SlotGenRequest{
			Division:          body.Division,
			FieldKeys:         body.FieldKeys,
			DateFrom:          body.DateFrom,
			DateTo:            body.DateTo,
			GameLengthMinutes: gameLength,
			Mode:              planner.GenMode(body.Mode),
			DaysOfWeek:        days,
			StartMinute:       body.StartMinute,
			EndMinute:         body.EndMinute,
		}

		var result *planner.SlotGenResult
		var err error
		if isDryRunFromContext(r) {
			result, err = s.Planner.PreviewSlots(req)
		} else {
			result, err = s.Planner.ApplySlots(req)
		}
		if err != nil {
			s.respondPlannerError(w, err)
			return
		}
		respondJSON(w, result)
	}
}

func (s *Server) ImportSlotsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		result, err := s.Importer.Import(r.Body, isDryRunFromContext(r))
		if err != nil {
			log.Error("Slot import failed", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondJSON(w, result)
	}
}

func (s *Server) ListRunsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if runID := r.URL.Query().Get("id"); runID != "" {
			run, err := s.Store.GetRun(runID)
			if err != nil {
				http.Error(w, "Failed to get run", http.StatusInternalServerError)
				log.Error("Failed to get run from store", "runID", runID, "error", err)
				return
			}
			if run == nil {
				http.Error(w, "Run not found", http.StatusNotFound)
				return
			}
			respondJSON(w, run)
			return
		}

		runs, err := s.Store.ListRuns(r.URL.Query().Get("division"))
		if err != nil {
			http.Error(w, "Failed to list runs", http.StatusInternalServerError)
			log.Error("Failed to list runs from store", "error", err)
			return
		}
		respondJSON(w, runs)
	}
}

func (s *Server) decodeScheduleRequest(w http.ResponseWriter, r *http.Request) (planner.ScheduleRequest, bool) {
	var body scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return planner.ScheduleRequest{}, false
	}
	if err := s.validate.Struct(body); err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return planner.ScheduleRequest{}, false
	}

	cons := schedule.Constraints{
		MaxGamesPerWeek:      s.Cfg.Defaults.MaxGamesPerWeek,
		NoDoubleHeaders:      body.NoDoubleHeaders,
		BalanceHomeAway:      body.BalanceHomeAway,
		ExternalOfferPerWeek: s.Cfg.Defaults.ExternalOfferPerWeek,
	}
	if body.MaxGamesPerWeek != nil {
		cons.MaxGamesPerWeek = *body.MaxGamesPerWeek
	}
	if body.ExternalOfferPerWeek != nil {
		cons.ExternalOfferPerWeek = *body.ExternalOfferPerWeek
	}

	return planner.ScheduleRequest{
		Division:    body.Division,
		DateFrom:    body.DateFrom,
		DateTo:      body.DateTo,
		Constraints: cons,
	}, true
}

// respondPlannerError maps validation failures to 400 and everything else
// to 500.
func (s *Server) respondPlannerError(w http.ResponseWriter, err error) {
	if errors.Is(err, planner.ErrTooFewTeams) || errors.Is(err, planner.ErrInvalidRequest) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Error("Planner request failed", "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Sprintf("invalid field %s (%s)", first.Field(), first.Tag())
	}
	return err.Error()
}
