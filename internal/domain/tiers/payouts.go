package tiers

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Payout sums what one participant earns from a set of tier results.
type Payout struct {
	ParticipantID string          `json:"participant_id"`
	Wins          int             `json:"wins"`
	Total         decimal.Decimal `json:"total"`
}

// Payouts totals the flat tier prizes per participant, largest total first and
// participant id ascending on ties. Participants without a win are omitted.
func Payouts(results []TierResult) []Payout {
	byParticipant := make(map[string]*Payout)
	for _, r := range results {
		for _, w := range r.Winners {
			p, ok := byParticipant[w.ParticipantID]
			if !ok {
				p = &Payout{ParticipantID: w.ParticipantID, Total: decimal.Zero}
				byParticipant[w.ParticipantID] = p
			}
			p.Wins++
			p.Total = p.Total.Add(r.PrizeAmount)
		}
	}

	out := make([]Payout, 0, len(byParticipant))
	for _, p := range byParticipant {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})
	return out
}
