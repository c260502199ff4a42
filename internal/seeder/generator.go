package seeder

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/pedrohgl18/elox/internal/domain/model"
	"github.com/pedrohgl18/elox/internal/domain/tiers"
)

// Generator view ranges. Most videos stay small so the lowest tier floor matters.
const (
	smallViewsMax = 5_000
	viralViewsMax = 2_000_000
	viralPercent  = 10
	// percentages of videos that end up approved or rejected; the rest stay pending
	approvedPercent = 80
	rejectedPercent = 10
	// share of videos that get a second scrape with more views
	rescrapePercent = 25
	// share of first-phase events that are sent twice with the same id
	replayPercent = 5
)

// Plan is everything one seeding run submits.
type Plan struct {
	Competition  model.Competition
	Participants []model.Participant
	// First holds one event per video. Rescrapes update some of them and are
	// submitted only after First has been ingested.
	First     []model.VideoEvent
	Rescrapes []model.VideoEvent
	// Replays reuse event ids from First and must all be reported as duplicates.
	Replays []model.VideoEvent
}

// Generator builds deterministic plans from a seed.
type Generator struct {
	faker *gofakeit.Faker
	base  time.Time
}

// NewGenerator creates a generator. Identical seeds give identical plans.
func NewGenerator(seed int64, base time.Time) *Generator {
	return &Generator{faker: gofakeit.New(uint64(seed)), base: base.UTC()}
}

// Generate builds a plan for cfg.
func (g *Generator) Generate(cfg *Config) Plan {
	minViews := cfg.MinViews
	p := Plan{
		Competition: model.Competition{
			ID:       g.faker.UUID(),
			Name:     g.faker.Company() + " " + g.faker.BuzzWord() + " Challenge",
			MinViews: &minViews,
		},
		Participants: make([]model.Participant, cfg.Participants),
		First:        make([]model.VideoEvent, 0, cfg.Videos),
	}

	for i := range p.Participants {
		p.Participants[i] = model.Participant{
			ID:          fmt.Sprintf("creator-%04d", i),
			DisplayName: g.faker.Name(),
		}
	}
	if len(p.Participants) == 0 {
		return p
	}

	for i := 0; i < cfg.Videos; i++ {
		owner := p.Participants[g.faker.IntRange(0, len(p.Participants)-1)]
		e := model.VideoEvent{
			EventID:       g.faker.UUID(),
			CompetitionID: p.Competition.ID,
			VideoID:       fmt.Sprintf("video-%05d", i),
			ParticipantID: owner.ID,
			Views:         g.views(),
			Status:        g.status(),
			TS:            g.base.Add(time.Duration(i) * time.Second),
		}
		p.First = append(p.First, e)

		if g.percent(rescrapePercent) {
			next := e
			next.EventID = g.faker.UUID()
			next.Views += int64(g.faker.IntRange(1, smallViewsMax))
			if next.Status == model.StatusPending {
				next.Status = model.StatusApproved
			}
			p.Rescrapes = append(p.Rescrapes, next)
		}
		if g.percent(replayPercent) {
			p.Replays = append(p.Replays, e)
		}
	}
	return p
}

func (g *Generator) percent(n int) bool {
	return g.faker.IntRange(1, 100) <= n
}

func (g *Generator) views() int64 {
	if g.percent(viralPercent) {
		return int64(g.faker.IntRange(smallViewsMax, viralViewsMax))
	}
	return int64(g.faker.IntRange(0, smallViewsMax))
}

func (g *Generator) status() model.VideoStatus {
	n := g.faker.IntRange(1, 100)
	switch {
	case n <= approvedPercent:
		return model.StatusApproved
	case n <= approvedPercent+rejectedPercent:
		return model.StatusRejected
	default:
		return model.StatusPending
	}
}

// Expected allocates the plan's final state locally, the way the service must.
func (p *Plan) Expected() ([]tiers.TierResult, error) {
	latest := make(map[string]model.VideoEvent, len(p.First))
	for _, e := range p.First {
		latest[e.VideoID] = e
	}
	for _, e := range p.Rescrapes {
		latest[e.VideoID] = e
	}

	// First is already in submission time order.
	subs := make([]tiers.Submission, 0, len(latest))
	for _, e := range p.First {
		v := latest[e.VideoID]
		if v.Status != model.StatusApproved {
			continue
		}
		subs = append(subs, tiers.Submission{VideoID: v.VideoID, ParticipantID: v.ParticipantID, Views: v.Views})
	}
	return tiers.Allocate(tiers.DefaultTiers(p.Competition.Floor()), subs)
}
