// Package tiers partitions approved competition submissions into fixed reward
// tiers under per-participant caps.
//
// Allocation is a pure function of its inputs: it holds no state between
// calls, performs no I/O and is safe to call from many goroutines at once.
package tiers

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Participant caps applied during allocation.
const (
	// PerTierParticipantCap bounds how many videos one participant may win within a single tier.
	PerTierParticipantCap = 2
	// TotalParticipantCap bounds how many videos one participant may win across all tiers.
	TotalParticipantCap = 4
	// TierCount is the number of tiers every configuration must carry.
	TierCount = 5
)

// TableVersion identifies the default tier table returned by DefaultTiers.
// Bump it whenever names, capacities or prizes change.
const TableVersion = "v1"

// Tier is one reward bracket.
type Tier struct {
	Name        string          `json:"name"`
	Rank        int             `json:"rank"`
	PrizeAmount decimal.Decimal `json:"prize_amount"`
	MaxWinners  int             `json:"max_winners"`
	MinViews    int64           `json:"min_views"`
}

// Submission is one approved video eligible for allocation.
type Submission struct {
	VideoID       string `json:"video_id"`
	ParticipantID string `json:"participant_id"`
	Views         int64  `json:"views"`
}

// Winner is a submission placed in a tier. Place is 1-based within the tier.
type Winner struct {
	VideoID       string `json:"video_id"`
	ParticipantID string `json:"participant_id"`
	Views         int64  `json:"views"`
	Place         int    `json:"place"`
}

// TierResult is the outcome for a single tier.
type TierResult struct {
	Name        string          `json:"name"`
	Rank        int             `json:"rank"`
	PrizeAmount decimal.Decimal `json:"prize_amount"`
	MaxWinners  int             `json:"max_winners"`
	MinViews    int64           `json:"min_views"`
	Winners     []Winner        `json:"winners"`
}

// defaultTable lists rank, capacity and flat prize from the top tier down.
var defaultTable = [TierCount]struct {
	rank       int
	maxWinners int
	prize      int64
}{
	{rank: 5, maxWinners: 3, prize: 150},
	{rank: 4, maxWinners: 5, prize: 75},
	{rank: 3, maxWinners: 10, prize: 30},
	{rank: 2, maxWinners: 15, prize: 15},
	{rank: 1, maxWinners: 20, prize: 5},
}

// DefaultTiers returns the standard five-tier table ordered from Level 5 to
// Level 1. minViews becomes the floor of the lowest tier; every higher tier
// has no floor.
func DefaultTiers(minViews int64) []Tier {
	out := make([]Tier, 0, TierCount)
	for _, row := range defaultTable {
		t := Tier{
			Name:        levelName(row.rank),
			Rank:        row.rank,
			PrizeAmount: decimal.NewFromInt(row.prize),
			MaxWinners:  row.maxWinners,
		}
		if row.rank == 1 {
			t.MinViews = minViews
		}
		out = append(out, t)
	}
	return out
}

func levelName(rank int) string {
	return "Level " + strconv.Itoa(rank)
}
