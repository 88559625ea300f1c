package handlers

import (
	"log/slog"
	"net/http"

	"github.com/flynnistcool/pinball-tournament-app-sub000/middleware"
	"github.com/flynnistcool/pinball-tournament-app-sub000/services"
	"github.com/go-chi/chi/v5"
)

type RoundHandler struct {
	roundService services.RoundService
}

func NewRoundHandler(roundService services.RoundService) *RoundHandler {
	return &RoundHandler{roundService: roundService}
}

type createRoundRequest struct {
	StartOrder string `json:"start_order"`
	EloEnabled *bool  `json:"elo_enabled"`
}

// CreateRound builds the next round for a tournament.
// POST /tournaments/{code}/rounds
func (h *RoundHandler) CreateRound(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		badRequestResponse(w, r, errMissingCode)
		return
	}

	var input createRoundRequest
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	params := services.CreateRoundParams{
		StartOrder: services.StartOrder(input.StartOrder),
	}
	if params.StartOrder == "" {
		params.StartOrder = services.StartOrderRandom
	}
	if input.EloEnabled != nil {
		params.EloEnabled = *input.EloEnabled
	}

	result, err := h.roundService.CreateRound(r.Context(), code, params)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if userID, uidErr := middleware.GetUserIDFromContext(r.Context()); uidErr == nil {
		slog.Info("round created by scorekeeper",
			slog.String("tournament", code),
			slog.Int("round", result.RoundNumber),
			slog.Int("user_id", userID),
		)
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"round": result}, nil)
}
