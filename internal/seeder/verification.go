package seeder

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/pedrohgl18/elox/internal/domain/tiers"
	"github.com/pedrohgl18/elox/internal/domain/types"
)

// ToResults turns a served leaderboard back into allocation results.
func ToResults(board types.Leaderboard) []tiers.TierResult {
	out := make([]tiers.TierResult, len(board.Tiers))
	for i, t := range board.Tiers {
		r := tiers.TierResult{
			Name:        t.Name,
			Rank:        t.Rank,
			PrizeAmount: t.PrizeAmount,
			MaxWinners:  t.MaxWinners,
			MinViews:    t.MinViews,
			Winners:     make([]tiers.Winner, len(t.Winners)),
		}
		for j, w := range t.Winners {
			r.Winners[j] = tiers.Winner{VideoID: w.VideoID, ParticipantID: w.ParticipantID, Views: w.Views, Place: w.Place}
		}
		out[i] = r
	}
	return out
}

// Verify checks the allocation invariants on the served leaderboard and that
// it matches the locally expected allocation.
func Verify(board types.Leaderboard, expected []tiers.TierResult) error {
	got := ToResults(board)
	if err := tiers.Check(got); err != nil {
		return err
	}
	if diff := cmp.Diff(expected, got, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		return fmt.Errorf("%w (-expected +served):\n%s", ErrMismatch, diff)
	}
	return nil
}
