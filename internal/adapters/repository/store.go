// Package repository defines the competition, video and participant stores.
package repository

import (
	"context"

	"github.com/pedrohgl18/elox/internal/domain/model"
)

// CompetitionStore holds competition configuration.
type CompetitionStore interface {
	PutCompetition(ctx context.Context, c model.Competition) error
	// Competition returns ErrNotFound for an unknown id.
	Competition(ctx context.Context, id string) (model.Competition, error)
	Competitions(ctx context.Context) ([]model.Competition, error)
}

// VideoStore holds submitted videos and their latest view counts.
type VideoStore interface {
	// UpsertVideo inserts v or refreshes its views and status. The first
	// SubmittedAt is kept. Moving a video to another participant or
	// competition fails with ErrConflict.
	UpsertVideo(ctx context.Context, v model.Video) (created bool, err error)

	// Videos returns every video of a competition regardless of status,
	// ordered by SubmittedAt and then by first insertion.
	Videos(ctx context.Context, competitionID string) ([]model.Video, error)

	CountVideos(ctx context.Context) int
}

// ParticipantDirectory resolves participant ids to display names.
type ParticipantDirectory interface {
	PutParticipant(ctx context.Context, p model.Participant) error
	// DisplayName returns ErrNotFound for an unknown participant.
	DisplayName(ctx context.Context, id string) (string, error)
}
