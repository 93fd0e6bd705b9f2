// Package api serves an enriched team-round table over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/utakatalp/league-stats/internal/league"
)

// Handler answers read-only queries against one enriched table.
type Handler struct {
	rows []league.TeamRound
	log  logrus.FieldLogger
}

// NewRouter wires the standings routes. rows must already be enriched and
// must not be modified while the router is serving.
func NewRouter(rows []league.TeamRound, log logrus.FieldLogger) *mux.Router {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handler{rows: rows, log: log}

	r := mux.NewRouter()
	r.Use(h.logRequests)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/rounds", h.ListRounds).Methods(http.MethodGet)
	r.HandleFunc("/rounds/{round}/standings", h.RoundStandings).Methods(http.MethodGet)
	r.HandleFunc("/teams/{team}/rounds", h.TeamRounds).Methods(http.MethodGet)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"rows":   len(h.rows),
	})
}

// ListRounds returns the rounds present in the table.
func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"rounds": league.Rounds(h.rows)})
}

// RoundStandings returns one round ordered by championship position.
func (h *Handler) RoundStandings(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(mux.Vars(r)["round"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "round must be an integer")
		return
	}
	table := league.Standings(h.rows, round)
	if len(table) == 0 {
		writeError(w, http.StatusNotFound, "round not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"round":     round,
		"standings": table,
	})
}

// TeamRounds returns one team's rows ordered by round.
func (h *Handler) TeamRounds(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["team"]
	history := league.TeamHistory(h.rows, team)
	if len(history) == 0 {
		writeError(w, http.StatusNotFound, "team not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id_team": team,
		"rounds":  history,
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.WithFields(logrus.Fields{
			"http_method": r.Method,
			"http_path":   r.URL.Path,
			"elapsed":     time.Since(start),
		}).Debug("request served")
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
