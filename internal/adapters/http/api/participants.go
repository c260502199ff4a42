package api

import (
	"context"
	"net/http"

	"github.com/pedrohgl18/elox/internal/domain/model"
)

// ParticipantDependencies defines the participant directory operations.
type ParticipantDependencies interface {
	PutParticipant(ctx context.Context, p model.Participant) error
}

type participantRequest struct {
	ID          string `json:"id" validate:"required,max=128"`
	DisplayName string `json:"display_name" validate:"required,max=200"`
}

// ParticipantHandler handles participant requests.
type ParticipantHandler struct {
	deps      ParticipantDependencies
	validator *requestValidator
}

// NewParticipantHandler creates a new participant handler.
func NewParticipantHandler(deps ParticipantDependencies, v *requestValidator) *ParticipantHandler {
	return &ParticipantHandler{deps: deps, validator: v}
}

// HandlePostParticipant handles POST /participants requests.
func (h *ParticipantHandler) HandlePostParticipant(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_participant"
	var req participantRequest
	if err := decode(r, h.validator, &req); err != nil {
		writeErr(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p := model.Participant{ID: req.ID, DisplayName: req.DisplayName}
	if err := h.deps.PutParticipant(r.Context(), p); err != nil {
		writeErr(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, req)
}
