package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/flynnistcool/pinball-tournament-app-sub000/services"
	"github.com/go-chi/chi/v5"
)

type ScoreHandler struct {
	scoreService services.ScoreService
}

func NewScoreHandler(scoreService services.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

type submitScoreRequest struct {
	Score *float64 `json:"score"`
}

// SubmitScore records (or clears) one player's score in a match.
// PUT /tournaments/{code}/matches/{matchID}/players/{playerID}/score
func (h *ScoreHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		badRequestResponse(w, r, errMissingCode)
		return
	}
	matchID, err := strconv.Atoi(chi.URLParam(r, "matchID"))
	if err != nil || matchID <= 0 {
		badRequestResponse(w, r, errors.New("invalid match ID in URL"))
		return
	}
	playerID, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil || playerID <= 0 {
		badRequestResponse(w, r, errors.New("invalid player ID in URL"))
		return
	}

	var input submitScoreRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.scoreService.SubmitScore(r.Context(), code, matchID, playerID, input.Score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil)
}
