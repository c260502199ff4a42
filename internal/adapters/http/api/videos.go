package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pedrohgl18/elox/internal/domain/model"
)

// VideoDependencies defines the ingestion entry point.
type VideoDependencies interface {
	// Enqueue pushes an event for async processing. accepted is false on backpressure.
	Enqueue(ctx context.Context, e model.VideoEvent) (accepted, duplicate bool)
}

// videoRequest mirrors the OpenAPI schema for POST /videos.
type videoRequest struct {
	EventID       string     `json:"event_id" validate:"omitempty,max=128"`
	CompetitionID string     `json:"competition_id" validate:"required,max=128"`
	VideoID       string     `json:"video_id" validate:"required,max=256"`
	ParticipantID string     `json:"participant_id" validate:"required,max=128"`
	Views         *int64     `json:"views" validate:"required,min=0"`
	Status        string     `json:"status" validate:"required,video_status"`
	TS            *time.Time `json:"ts"`
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	EventID   string `json:"event_id"`
}

// VideoHandler handles video event requests.
type VideoHandler struct {
	deps      VideoDependencies
	validator *requestValidator
	now       func() time.Time
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(deps VideoDependencies, v *requestValidator) *VideoHandler {
	return &VideoHandler{deps: deps, validator: v, now: time.Now}
}

// HandlePostVideo handles POST /videos requests.
func (h *VideoHandler) HandlePostVideo(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_video"
	var req videoRequest
	if err := decode(r, h.validator, &req); err != nil {
		writeErr(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	status, _ := model.ParseVideoStatus(req.Status)
	e := model.VideoEvent{
		EventID:       req.EventID,
		CompetitionID: req.CompetitionID,
		VideoID:       req.VideoID,
		ParticipantID: req.ParticipantID,
		Views:         *req.Views,
		Status:        status,
		TS:            h.now().UTC(),
	}
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if req.TS != nil {
		e.TS = req.TS.UTC()
	}

	accepted, duplicate := h.deps.Enqueue(r.Context(), e)
	switch {
	case duplicate:
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, EventID: e.EventID})
	case !accepted:
		writeErr(w, NewKind(op, ErrBackpressure))
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", EventID: e.EventID})
	}
}
