package tiers

import (
	"fmt"
	"sort"
)

// Allocate places submissions into tiers, best tier first.
//
// Tiers are processed by rank descending regardless of the order they are
// given in; the result holds one TierResult per input tier in input order.
// Within a tier the highest-view remaining submissions win, subject to
// MaxWinners, the tier's view floor, PerTierParticipantCap and
// TotalParticipantCap. Equal view counts keep input order, so callers that
// want earliest-submitted-first must pre-sort submissions.
//
// Input is validated before any allocation; on error no result is returned.
func Allocate(tiers []Tier, submissions []Submission) ([]TierResult, error) {
	if err := validateTiers(tiers); err != nil {
		return nil, err
	}
	if err := validateSubmissions(submissions); err != nil {
		return nil, err
	}

	order := make([]int, len(tiers))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tiers[order[a]].Rank > tiers[order[b]].Rank
	})

	// Filtering a stably sorted slice keeps it sorted, so one sort serves every tier.
	ranked := make([]Submission, len(submissions))
	copy(ranked, submissions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Views > ranked[j].Views
	})

	used := make(map[string]struct{}, len(ranked))
	totalWins := make(map[string]int)
	results := make([]TierResult, len(tiers))

	for _, idx := range order {
		tier := tiers[idx]
		winners := make([]Winner, 0, min(tier.MaxWinners, len(ranked)))
		tierWins := make(map[string]int)

		for _, s := range ranked {
			if len(winners) >= tier.MaxWinners {
				break
			}
			if s.Views < tier.MinViews {
				// sorted by views desc: nothing further clears the floor
				break
			}
			if _, ok := used[s.VideoID]; ok {
				continue
			}
			if totalWins[s.ParticipantID] >= TotalParticipantCap {
				continue
			}
			if tierWins[s.ParticipantID] >= PerTierParticipantCap {
				continue
			}

			winners = append(winners, Winner{
				VideoID:       s.VideoID,
				ParticipantID: s.ParticipantID,
				Views:         s.Views,
				Place:         len(winners) + 1,
			})
			used[s.VideoID] = struct{}{}
			totalWins[s.ParticipantID]++
			tierWins[s.ParticipantID]++
		}

		results[idx] = TierResult{
			Name:        tier.Name,
			Rank:        tier.Rank,
			PrizeAmount: tier.PrizeAmount,
			MaxWinners:  tier.MaxWinners,
			MinViews:    tier.MinViews,
			Winners:     winners,
		}
	}

	return results, nil
}

func validateTiers(tiers []Tier) error {
	if len(tiers) != TierCount {
		return fmt.Errorf("%w: want %d tiers, got %d", ErrInvalidConfiguration, TierCount, len(tiers))
	}
	seen := make(map[int]struct{}, len(tiers))
	for i, t := range tiers {
		switch {
		case t.Rank < 1 || t.Rank > TierCount:
			return fmt.Errorf("%w: tier %d has rank %d outside 1..%d", ErrInvalidConfiguration, i, t.Rank, TierCount)
		case t.MaxWinners < 0:
			return fmt.Errorf("%w: tier %q has negative max winners", ErrInvalidConfiguration, t.Name)
		case t.PrizeAmount.IsNegative():
			return fmt.Errorf("%w: tier %q has negative prize amount", ErrInvalidConfiguration, t.Name)
		case t.MinViews < 0:
			return fmt.Errorf("%w: tier %q has negative min views", ErrInvalidConfiguration, t.Name)
		}
		if _, dup := seen[t.Rank]; dup {
			return fmt.Errorf("%w: duplicate rank %d", ErrInvalidConfiguration, t.Rank)
		}
		seen[t.Rank] = struct{}{}
	}
	return nil
}

func validateSubmissions(submissions []Submission) error {
	seen := make(map[string]struct{}, len(submissions))
	for i, s := range submissions {
		switch {
		case s.VideoID == "":
			return fmt.Errorf("%w: submission %d has empty video id", ErrInvalidSubmission, i)
		case s.ParticipantID == "":
			return fmt.Errorf("%w: video %q has empty participant id", ErrInvalidSubmission, s.VideoID)
		case s.Views < 0:
			return fmt.Errorf("%w: video %q has negative views %d", ErrInvalidSubmission, s.VideoID, s.Views)
		}
		if _, dup := seen[s.VideoID]; dup {
			return fmt.Errorf("%w: video id %q", ErrDuplicateSubmission, s.VideoID)
		}
		seen[s.VideoID] = struct{}{}
	}
	return nil
}
