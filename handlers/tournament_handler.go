package handlers

import (
	"net/http"

	"github.com/flynnistcool/pinball-tournament-app-sub000/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

// GetTournament looks a tournament up by its public code.
// GET /tournaments/{code}
func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		badRequestResponse(w, r, errMissingCode)
		return
	}

	detail, err := h.tournamentService.GetByCode(r.Context(), code)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detail, nil)
}
