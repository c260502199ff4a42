package seeder_test

import (
	"github.com/pedrohgl18/elox/internal/domain/tiers"
	"github.com/pedrohgl18/elox/internal/domain/types"
)

// toBoard renders allocation results the way the API serves them.
func toBoard(results []tiers.TierResult) types.Leaderboard {
	board := types.Leaderboard{TableVersion: tiers.TableVersion, Tiers: make([]types.TierView, len(results))}
	for i, r := range results {
		view := types.TierView{
			Name:        r.Name,
			Rank:        r.Rank,
			PrizeAmount: r.PrizeAmount,
			MaxWinners:  r.MaxWinners,
			MinViews:    r.MinViews,
			Winners:     make([]types.WinnerView, len(r.Winners)),
		}
		for j, w := range r.Winners {
			view.Winners[j] = types.WinnerView{Place: w.Place, VideoID: w.VideoID, ParticipantID: w.ParticipantID, Views: w.Views}
		}
		board.Tiers[i] = view
	}
	return board
}
