package tiers

import "fmt"

// Check verifies that results satisfy the allocation guarantees: no video
// wins twice, participant caps hold per tier and overall, every winner clears
// its tier floor, tiers never exceed capacity, and winners are listed by views
// descending with contiguous 1-based places.
func Check(results []TierResult) error {
	videos := make(map[string]int)
	totals := make(map[string]int)

	for _, r := range results {
		if len(r.Winners) > r.MaxWinners {
			return fmt.Errorf("%w: %s has %d winners, max %d", ErrInvariantViolation, r.Name, len(r.Winners), r.MaxWinners)
		}
		perTier := make(map[string]int)
		for i, w := range r.Winners {
			if rank, ok := videos[w.VideoID]; ok {
				return fmt.Errorf("%w: video %q wins rank %d and rank %d", ErrInvariantViolation, w.VideoID, rank, r.Rank)
			}
			videos[w.VideoID] = r.Rank

			perTier[w.ParticipantID]++
			if perTier[w.ParticipantID] > PerTierParticipantCap {
				return fmt.Errorf("%w: participant %q exceeds tier cap in %s", ErrInvariantViolation, w.ParticipantID, r.Name)
			}
			totals[w.ParticipantID]++
			if totals[w.ParticipantID] > TotalParticipantCap {
				return fmt.Errorf("%w: participant %q exceeds total cap", ErrInvariantViolation, w.ParticipantID)
			}

			if w.Views < r.MinViews {
				return fmt.Errorf("%w: video %q below %s floor", ErrInvariantViolation, w.VideoID, r.Name)
			}
			if w.Place != i+1 {
				return fmt.Errorf("%w: %s place %d at position %d", ErrInvariantViolation, r.Name, w.Place, i+1)
			}
			if i > 0 && r.Winners[i-1].Views < w.Views {
				return fmt.Errorf("%w: %s not ordered by views at place %d", ErrInvariantViolation, r.Name, w.Place)
			}
		}
	}
	return nil
}
