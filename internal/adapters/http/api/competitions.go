package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pedrohgl18/elox/internal/domain/model"
	"github.com/pedrohgl18/elox/internal/domain/types"
)

// CompetitionDependencies defines the competition and leaderboard operations.
type CompetitionDependencies interface {
	PutCompetition(ctx context.Context, c model.Competition) (model.Competition, error)
	Leaderboard(ctx context.Context, competitionID string) (types.Leaderboard, error)
	Standing(ctx context.Context, competitionID, participantID string) (types.Standing, error)
	Payouts(ctx context.Context, competitionID string) ([]types.PayoutEntry, error)
}

// competitionRequest mirrors the OpenAPI schema for POST /competitions.
type competitionRequest struct {
	ID       string `json:"id" validate:"omitempty,max=128"`
	Name     string `json:"name" validate:"required,max=200"`
	MinViews *int64 `json:"min_views" validate:"omitempty,min=0"`
}

// CompetitionHandler handles competition requests.
type CompetitionHandler struct {
	deps      CompetitionDependencies
	validator *requestValidator
}

// NewCompetitionHandler creates a new competition handler.
func NewCompetitionHandler(deps CompetitionDependencies, v *requestValidator) *CompetitionHandler {
	return &CompetitionHandler{deps: deps, validator: v}
}

// HandlePostCompetition handles POST /competitions requests.
func (h *CompetitionHandler) HandlePostCompetition(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_competition"
	var req competitionRequest
	if err := decode(r, h.validator, &req); err != nil {
		writeErr(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	c, err := h.deps.PutCompetition(r.Context(), model.Competition{
		ID:       req.ID,
		Name:     req.Name,
		MinViews: req.MinViews,
	})
	if err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, toCompetitionResponse(c))
}

// HandleGetLeaderboard handles GET /competitions/{competitionID}/leaderboard requests.
func (h *CompetitionHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	board, err := h.deps.Leaderboard(r.Context(), chi.URLParam(r, "competitionID"))
	if err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleGetPayouts handles GET /competitions/{competitionID}/payouts requests.
func (h *CompetitionHandler) HandleGetPayouts(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_payouts"
	payouts, err := h.deps.Payouts(r.Context(), chi.URLParam(r, "competitionID"))
	if err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, payouts)
}

// HandleGetStanding handles GET /competitions/{competitionID}/participants/{participantID} requests.
func (h *CompetitionHandler) HandleGetStanding(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standing"
	st, err := h.deps.Standing(r.Context(), chi.URLParam(r, "competitionID"), chi.URLParam(r, "participantID"))
	if err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}
