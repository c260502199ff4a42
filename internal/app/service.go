// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"

	eventqueue "github.com/pedrohgl18/elox/internal/adapters/mq/queue"
	workerpool "github.com/pedrohgl18/elox/internal/adapters/mq/worker"
	"github.com/pedrohgl18/elox/internal/adapters/repository"
	"github.com/pedrohgl18/elox/internal/domain/dedupe"
	"github.com/pedrohgl18/elox/internal/domain/model"
	"github.com/pedrohgl18/elox/internal/domain/tiers"
	"github.com/pedrohgl18/elox/internal/domain/types"
	"github.com/pedrohgl18/elox/pkg/logger"
	"github.com/pedrohgl18/elox/pkg/metrics"
)

// Store is everything the service reads and writes.
type Store interface {
	repository.CompetitionStore
	repository.VideoStore
	repository.ParticipantDirectory
}

// Service implements the API dependencies for the competition leaderboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      Store
	ownedStore *repository.MemoryStore
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool
	names      *expirable.LRU[string, string]

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	nameCacheSize int
	nameCacheTTL  time.Duration
	now           func() time.Time

	// State
	started bool

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   4,
		queueSize:     100_000,
		dedupeSize:    50_000,
		nameCacheSize: 10_000,
		nameCacheTTL:  time.Minute,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	if s.store == nil {
		s.ownedStore = repository.NewMemoryStore(ctx)
		s.store = s.ownedStore
		s.logger.Info(ctx, "using in-memory store")
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.names = expirable.NewLRU[string, string](s.nameCacheSize, nil, s.nameCacheTTL)

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains the ingestion queue and shuts the service down. Reads keep
// working against the store afterwards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping leaderboard service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.ownedStore != nil {
		_ = s.ownedStore.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workerPool == nil {
		return ErrNotStarted
	}
	return nil
}

// PutCompetition creates or replaces a competition. An empty id is replaced
// by a generated one. The stored competition is returned.
func (s *Service) PutCompetition(ctx context.Context, c model.Competition) (model.Competition, error) {
	if err := s.ready(); err != nil {
		return model.Competition{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := s.store.PutCompetition(ctx, c); err != nil {
		return model.Competition{}, fmt.Errorf("put competition: %w", err)
	}
	stored, err := s.store.Competition(ctx, c.ID)
	if err != nil {
		return model.Competition{}, fmt.Errorf("put competition: %w", err)
	}
	s.logger.Info(ctx, "competition saved",
		logger.String("competitionID", stored.ID),
		logger.Int64("minViews", stored.Floor()),
	)
	return stored, nil
}

// PutParticipant registers or renames a participant.
func (s *Service) PutParticipant(ctx context.Context, p model.Participant) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.store.PutParticipant(ctx, p); err != nil {
		return fmt.Errorf("put participant: %w", err)
	}
	s.names.Remove(p.ID)
	return nil
}

// SeenAndRecord atomically checks if an event id was seen and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDuplicate()
	}
	return seen
}

// Unrecord removes an event id from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a video event for asynchronous ingestion. A repeated event
// id is reported as duplicate and dropped. accepted is false on backpressure.
func (s *Service) Enqueue(ctx context.Context, e model.VideoEvent) (accepted, duplicate bool) { //nolint:gocritic // hugeParam: events are values end to end
	if s.ready() != nil {
		return false, false
	}
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}

	if s.SeenAndRecord(ctx, e.EventID) {
		s.logger.Debug(ctx, "duplicate event detected, skipping",
			logger.String("eventID", e.EventID),
			logger.String("videoID", e.VideoID),
		)
		return false, true
	}

	if !s.eventQueue.Enqueue(ctx, e) {
		s.Unrecord(ctx, e.EventID)
		s.logger.Warn(ctx, "event queue rejected event",
			logger.String("eventID", e.EventID),
			logger.Int("queueLength", s.eventQueue.Len(ctx)),
		)
		return false, false
	}
	return true, false
}

// allocation is one computed leaderboard with the inputs it came from.
type allocation struct {
	competition model.Competition
	videos      []model.Video
	results     []tiers.TierResult
}

func (s *Service) allocate(ctx context.Context, competitionID string) (allocation, error) {
	if err := s.ready(); err != nil {
		return allocation{}, err
	}
	comp, err := s.store.Competition(ctx, competitionID)
	if err != nil {
		return allocation{}, err
	}
	videos, err := s.store.Videos(ctx, competitionID)
	if err != nil {
		s.logger.Error(ctx, "loading videos failed",
			logger.String("competitionID", competitionID),
			logger.Error(err),
		)
		return allocation{}, fmt.Errorf("%w: %w", types.ErrLeaderboardUnavailable, err)
	}

	approved := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if v.Status == model.StatusApproved {
			approved = append(approved, v)
		}
	}
	// earliest submission wins ties on views
	sort.SliceStable(approved, func(i, j int) bool {
		return approved[i].SubmittedAt.Before(approved[j].SubmittedAt)
	})
	subs := make([]tiers.Submission, len(approved))
	for i, v := range approved {
		subs[i] = tiers.Submission{VideoID: v.ID, ParticipantID: v.ParticipantID, Views: v.Views}
	}

	start := time.Now()
	results, err := tiers.Allocate(tiers.DefaultTiers(comp.Floor()), subs)
	if err != nil {
		metrics.RecordAllocationError(errorKind(err))
		s.logger.Error(ctx, "tier allocation failed",
			logger.String("competitionID", competitionID),
			logger.Int("submissions", len(subs)),
			logger.Error(err),
		)
		return allocation{}, fmt.Errorf("%w: %w", types.ErrLeaderboardUnavailable, err)
	}
	metrics.RecordAllocation(float64(time.Since(start).Microseconds()) / 1000)
	for _, r := range results {
		metrics.RecordTierWinners(r.Name, len(r.Winners))
	}

	return allocation{competition: comp, videos: videos, results: results}, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, tiers.ErrDuplicateSubmission):
		return "duplicate_submission"
	case errors.Is(err, tiers.ErrInvalidSubmission):
		return "invalid_submission"
	case errors.Is(err, tiers.ErrInvalidConfiguration):
		return "invalid_configuration"
	default:
		return "unknown"
	}
}

// displayName resolves a participant through the cache. Unknown participants
// are shown by id and are not cached.
func (s *Service) displayName(ctx context.Context, participantID string) string {
	if name, ok := s.names.Get(participantID); ok {
		metrics.RecordNameCacheLookup(true)
		return name
	}
	metrics.RecordNameCacheLookup(false)

	name, err := s.store.DisplayName(ctx, participantID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn(ctx, "display name lookup failed",
				logger.String("participantID", participantID),
				logger.Error(err),
			)
		}
		return participantID
	}
	s.names.Add(participantID, name)
	return name
}

// Leaderboard computes the tier-by-tier winners of a competition.
func (s *Service) Leaderboard(ctx context.Context, competitionID string) (types.Leaderboard, error) {
	a, err := s.allocate(ctx, competitionID)
	if err != nil {
		return types.Leaderboard{}, err
	}

	board := types.Leaderboard{
		CompetitionID: a.competition.ID,
		TableVersion:  tiers.TableVersion,
		ComputedAt:    s.now().UTC(),
		Tiers:         make([]types.TierView, len(a.results)),
	}
	for i, r := range a.results {
		view := types.TierView{
			Name:        r.Name,
			Rank:        r.Rank,
			PrizeAmount: r.PrizeAmount,
			MaxWinners:  r.MaxWinners,
			MinViews:    r.MinViews,
			Winners:     make([]types.WinnerView, len(r.Winners)),
		}
		for j, w := range r.Winners {
			view.Winners[j] = types.WinnerView{
				Place:         w.Place,
				VideoID:       w.VideoID,
				ParticipantID: w.ParticipantID,
				DisplayName:   s.displayName(ctx, w.ParticipantID),
				Views:         w.Views,
			}
		}
		board.Tiers[i] = view
	}
	return board, nil
}

// Standing returns a participant's winning videos and total prize in a
// competition. A participant with no videos there and no directory entry is
// not found.
func (s *Service) Standing(ctx context.Context, competitionID, participantID string) (types.Standing, error) {
	a, err := s.allocate(ctx, competitionID)
	if err != nil {
		return types.Standing{}, err
	}

	st := types.Standing{
		CompetitionID: a.competition.ID,
		ParticipantID: participantID,
		Wins:          []types.TierWin{},
		TotalPrize:    decimal.Zero,
	}
	for _, r := range a.results {
		for _, w := range r.Winners {
			if w.ParticipantID != participantID {
				continue
			}
			st.Wins = append(st.Wins, types.TierWin{
				Tier:    r.Name,
				Rank:    r.Rank,
				Place:   w.Place,
				VideoID: w.VideoID,
				Views:   w.Views,
			})
			st.TotalPrize = st.TotalPrize.Add(r.PrizeAmount)
		}
	}

	if len(st.Wins) == 0 && !s.knownParticipant(ctx, participantID, a.videos) {
		return types.Standing{}, fmt.Errorf("participant %s in competition %s: %w", participantID, competitionID, repository.ErrNotFound)
	}
	st.DisplayName = s.displayName(ctx, participantID)
	return st, nil
}

func (s *Service) knownParticipant(ctx context.Context, participantID string, videos []model.Video) bool {
	for _, v := range videos {
		if v.ParticipantID == participantID {
			return true
		}
	}
	_, err := s.store.DisplayName(ctx, participantID)
	return err == nil
}

// Payouts returns the prize owed to every winning participant of a competition.
func (s *Service) Payouts(ctx context.Context, competitionID string) ([]types.PayoutEntry, error) {
	a, err := s.allocate(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	payouts := tiers.Payouts(a.results)
	out := make([]types.PayoutEntry, len(payouts))
	for i, p := range payouts {
		out[i] = types.PayoutEntry{
			ParticipantID: p.ParticipantID,
			DisplayName:   s.displayName(ctx, p.ParticipantID),
			Wins:          p.Wins,
			Total:         p.Total,
		}
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.workerPool != nil {
		queueLen := s.eventQueue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["videos"] = s.store.CountVideos(ctx)
		stats["processed"] = s.workerPool.Processed()
		stats["failed"] = s.workerPool.Failed()
		stats["dedupeEntries"] = s.deduper.Size()
		stats["nameCacheEntries"] = s.names.Len()

		metrics.UpdateQueueSize(queueLen)
	}
	return stats
}
