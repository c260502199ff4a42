// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// VideoStatus is the moderation state of a submitted video.
type VideoStatus string

// Moderation states. Only approved videos take part in allocation.
const (
	StatusPending  VideoStatus = "PENDING"
	StatusApproved VideoStatus = "APPROVED"
	StatusRejected VideoStatus = "REJECTED"
)

// ParseVideoStatus normalizes s and reports whether it names a known status.
func ParseVideoStatus(s string) (VideoStatus, bool) {
	st := VideoStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Valid reports whether s is a known status.
func (s VideoStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Competition is a sponsored contest. A nil MinViews means the lowest tier
// has no view floor.
type Competition struct {
	ID        string
	Name      string
	MinViews  *int64
	CreatedAt time.Time
}

// Floor returns the configured lowest-tier floor, or zero.
func (c Competition) Floor() int64 {
	if c.MinViews == nil {
		return 0
	}
	return *c.MinViews
}

// Video is a participant's submitted short video with its latest view count.
type Video struct {
	ID            string
	CompetitionID string
	ParticipantID string
	Views         int64
	Status        VideoStatus
	SubmittedAt   time.Time
}

// Participant is a clipador as shown on the leaderboard.
type Participant struct {
	ID          string
	DisplayName string
}

// VideoEvent reports a submission or a fresh view count for a video.
// Events flow through the ingestion queue and are applied by workers.
type VideoEvent struct {
	EventID       string      // unique id for idempotency
	CompetitionID string      // competition the video is entered in
	VideoID       string      // platform video identifier
	ParticipantID string      // owning clipador
	Views         int64       // latest scraped view count
	Status        VideoStatus // moderation state
	TS            time.Time   // observation time; first sighting becomes SubmittedAt
}

// Video converts the event into the stored video shape.
func (e VideoEvent) Video() Video {
	return Video{
		ID:            e.VideoID,
		CompetitionID: e.CompetitionID,
		ParticipantID: e.ParticipantID,
		Views:         e.Views,
		Status:        e.Status,
		SubmittedAt:   e.TS,
	}
}
