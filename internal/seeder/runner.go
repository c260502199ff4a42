package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/pedrohgl18/elox/internal/domain/model"
	"github.com/pedrohgl18/elox/internal/domain/tiers"
	"github.com/pedrohgl18/elox/pkg/logger"
)

const pollInterval = 50 * time.Millisecond

func (cfg *Config) validate() error {
	switch {
	case cfg.BaseURL == "":
		return fmt.Errorf("%w: url is required", ErrInvalidConfig)
	case cfg.Participants <= 0:
		return fmt.Errorf("%w: participants must be > 0", ErrInvalidConfig)
	case cfg.Videos < 0:
		return fmt.Errorf("%w: videos must be >= 0", ErrInvalidConfig)
	case cfg.MinViews < 0:
		return fmt.Errorf("%w: min views must be >= 0", ErrInvalidConfig)
	case cfg.Workers <= 0:
		return fmt.Errorf("%w: workers must be > 0", ErrInvalidConfig)
	}
	return nil
}

// Run seeds one competition and verifies the leaderboard the service serves for it.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := logger.Get().Named("seeder")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting seeder",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("participants", cfg.Participants),
		logger.Int("videos", cfg.Videos),
		logger.Int64("minViews", cfg.MinViews),
		logger.Float64("rate", cfg.Rate),
		logger.Int64("seed", cfg.Seed))

	client := NewClient(cfg.BaseURL, cfg.Timeout, cfg.Rate, cfg.Workers)
	processed, err := client.Processed(ctx)
	if err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	plan := NewGenerator(cfg.Seed, stats.StartTime.Truncate(time.Second)).Generate(cfg)
	stats.CompetitionID = plan.Competition.ID
	stats.EventsGenerated = len(plan.First) + len(plan.Rescrapes) + len(plan.Replays)

	if err := client.CreateCompetition(ctx, plan.Competition); err != nil {
		return nil, fmt.Errorf("create competition: %w", err)
	}
	for _, p := range plan.Participants {
		if err := client.PutParticipant(ctx, p); err != nil {
			return nil, fmt.Errorf("register participant %s: %w", p.ID, err)
		}
	}

	// Rescrapes must land after the videos they update, so each phase drains first.
	phases := [][]model.VideoEvent{plan.First, append(append([]model.VideoEvent{}, plan.Rescrapes...), plan.Replays...)}
	for i, events := range phases {
		res := submitEvents(ctx, cfg, client, events)
		stats.EventsAccepted += int(res.accepted)
		stats.EventsDuplicate += int(res.duplicate)
		stats.EventsFailed += int(res.failed)
		log.Info(ctx, "phase submitted",
			logger.Int("phase", i+1),
			logger.Int64("accepted", res.accepted),
			logger.Int64("duplicate", res.duplicate),
			logger.Int64("failed", res.failed))

		processed += res.accepted
		if err := waitForIngestion(ctx, client, processed, cfg.WaitTimeout); err != nil {
			return nil, err
		}
	}
	if stats.EventsDuplicate < len(plan.Replays) {
		log.Warn(ctx, "some replayed events were accepted again",
			logger.Int("replays", len(plan.Replays)),
			logger.Int("duplicates", stats.EventsDuplicate))
	}

	board, err := client.Leaderboard(ctx, plan.Competition.ID)
	if err != nil {
		return nil, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	expected, err := plan.Expected()
	if err != nil {
		return nil, fmt.Errorf("local allocation failed: %w", err)
	}
	for _, t := range board.Tiers {
		stats.Winners += len(t.Winners)
	}
	if stats.EventsFailed == 0 {
		if err := Verify(board, expected); err != nil {
			return stats, fmt.Errorf("result verification failed: %w", err)
		}
	} else {
		log.Warn(ctx, "failed submissions; checking invariants only", logger.Int("failed", stats.EventsFailed))
		if err := tiers.Check(ToResults(board)); err != nil {
			return stats, fmt.Errorf("result verification failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "seeding completed",
		logger.String("competitionID", stats.CompetitionID),
		logger.Int("accepted", stats.EventsAccepted),
		logger.Int("winners", stats.Winners),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}

// waitForIngestion polls /stats until the service has processed target events.
func waitForIngestion(ctx context.Context, client *Client, target int64, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		n, err := client.Processed(ctx)
		if err == nil && n >= target {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: processed %d of %d", ErrIngestTimeout, n, target)
		case <-ticker.C:
		}
	}
}
