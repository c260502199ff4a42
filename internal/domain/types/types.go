// Package types contains the read shapes served by the API.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Leaderboard is the tier-by-tier winner list of one competition.
type Leaderboard struct {
	CompetitionID string     `json:"competition_id"`
	TableVersion  string     `json:"table_version"`
	ComputedAt    time.Time  `json:"computed_at"`
	Tiers         []TierView `json:"tiers"`
}

// TierView is one tier with its winners.
type TierView struct {
	Name        string          `json:"name"`
	Rank        int             `json:"rank"`
	PrizeAmount decimal.Decimal `json:"prize_amount"`
	MaxWinners  int             `json:"max_winners"`
	MinViews    int64           `json:"min_views"`
	Winners     []WinnerView    `json:"winners"`
}

// WinnerView is a winning video with its owner's display name.
type WinnerView struct {
	Place         int    `json:"place"`
	VideoID       string `json:"video_id"`
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Views         int64  `json:"views"`
}

// Standing summarizes one participant's results in a competition.
type Standing struct {
	CompetitionID string          `json:"competition_id"`
	ParticipantID string          `json:"participant_id"`
	DisplayName   string          `json:"display_name"`
	Wins          []TierWin       `json:"wins"`
	TotalPrize    decimal.Decimal `json:"total_prize"`
}

// TierWin is a single winning video within a Standing.
type TierWin struct {
	Tier    string `json:"tier"`
	Rank    int    `json:"rank"`
	Place   int    `json:"place"`
	VideoID string `json:"video_id"`
	Views   int64  `json:"views"`
}

// PayoutEntry is a participant's total prize in a competition.
type PayoutEntry struct {
	ParticipantID string          `json:"participant_id"`
	DisplayName   string          `json:"display_name"`
	Wins          int             `json:"wins"`
	Total         decimal.Decimal `json:"total"`
}
