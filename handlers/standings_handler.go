package handlers

import (
	"net/http"

	"github.com/flynnistcool/pinball-tournament-app-sub000/services"
	"github.com/go-chi/chi/v5"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(standingsService services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService}
}

// ListStandings returns the current leaderboard.
// GET /tournaments/{code}/standings
func (h *StandingsHandler) ListStandings(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		badRequestResponse(w, r, errMissingCode)
		return
	}

	rows, err := h.standingsService.ListStandings(r.Context(), code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil)
}
