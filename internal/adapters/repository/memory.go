package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pedrohgl18/elox/internal/domain/model"
	"github.com/pedrohgl18/elox/pkg/metrics"
)

// videoRecord is a stored video plus its insertion sequence.
type videoRecord struct {
	video model.Video
	seq   uint64
}

// MemoryStore implements CompetitionStore, VideoStore and ParticipantDirectory in memory.
type MemoryStore struct {
	mu sync.RWMutex

	competitions map[string]model.Competition
	videos       map[string]*videoRecord
	byComp       map[string][]*videoRecord // insertion order per competition
	participants map[string]model.Participant
	seq          uint64

	metricsUpdateInterval time.Duration
	now                   func() time.Time

	wg       sync.WaitGroup
	stopChan chan struct{}
}

var (
	_ CompetitionStore     = (*MemoryStore)(nil)
	_ VideoStore           = (*MemoryStore)(nil)
	_ ParticipantDirectory = (*MemoryStore)(nil)
)

// NewMemoryStore constructs an empty store and starts its metrics updater.
// Call Close to stop it.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		competitions:          make(map[string]model.Competition),
		videos:                make(map[string]*videoRecord),
		byComp:                make(map[string][]*videoRecord),
		participants:          make(map[string]model.Participant),
		metricsUpdateInterval: 5 * time.Second,
		now:                   time.Now,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.updateMetrics()
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// PutCompetition inserts or replaces a competition. CreatedAt is kept from
// the first insert.
func (s *MemoryStore) PutCompetition(_ context.Context, c model.Competition) error {
	if c.ID == "" {
		return fmt.Errorf("%w: competition id is empty", ErrInvalidRecord)
	}
	if c.MinViews != nil && *c.MinViews < 0 {
		return fmt.Errorf("%w: competition %s: min views %d is negative", ErrInvalidRecord, c.ID, *c.MinViews)
	}

	s.mu.Lock()
	if prev, ok := s.competitions[c.ID]; ok {
		c.CreatedAt = prev.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	if c.MinViews != nil {
		floor := *c.MinViews
		c.MinViews = &floor
	}
	s.competitions[c.ID] = c
	n := len(s.competitions)
	s.mu.Unlock()

	metrics.UpdateRepositoryRecords("competitions", n)
	return nil
}

// Competition implements CompetitionStore.Competition.
func (s *MemoryStore) Competition(_ context.Context, id string) (model.Competition, error) {
	s.mu.RLock()
	c, ok := s.competitions[id]
	s.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Competition{}, fmt.Errorf("competition %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// Competitions returns all competitions, oldest first.
func (s *MemoryStore) Competitions(_ context.Context) ([]model.Competition, error) {
	s.mu.RLock()
	out := make([]model.Competition, 0, len(s.competitions))
	for _, c := range s.competitions {
		out = append(out, c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpsertVideo implements VideoStore.UpsertVideo.
func (s *MemoryStore) UpsertVideo(_ context.Context, v model.Video) (bool, error) {
	if err := validateVideo(v); err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_video")
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.videos[v.ID]; ok {
		if rec.video.ParticipantID != v.ParticipantID || rec.video.CompetitionID != v.CompetitionID {
			metrics.RecordErrorByComponent("repository", "conflict")
			return false, fmt.Errorf("video %s: %w", v.ID, ErrConflict)
		}
		rec.video.Views = v.Views
		rec.video.Status = v.Status
		return false, nil
	}

	if v.SubmittedAt.IsZero() {
		v.SubmittedAt = s.now()
	}
	s.seq++
	rec := &videoRecord{video: v, seq: s.seq}
	s.videos[v.ID] = rec
	s.byComp[v.CompetitionID] = append(s.byComp[v.CompetitionID], rec)
	metrics.UpdateRepositoryRecords("videos", len(s.videos))
	return true, nil
}

func validateVideo(v model.Video) error {
	switch {
	case v.ID == "":
		return fmt.Errorf("%w: video id is empty", ErrInvalidRecord)
	case v.CompetitionID == "":
		return fmt.Errorf("%w: video %s: competition id is empty", ErrInvalidRecord, v.ID)
	case v.ParticipantID == "":
		return fmt.Errorf("%w: video %s: participant id is empty", ErrInvalidRecord, v.ID)
	case v.Views < 0:
		return fmt.Errorf("%w: video %s: views %d is negative", ErrInvalidRecord, v.ID, v.Views)
	case !v.Status.Valid():
		return fmt.Errorf("%w: video %s: unknown status %q", ErrInvalidRecord, v.ID, v.Status)
	}
	return nil
}

// Videos implements VideoStore.Videos. An unknown competition yields an empty slice.
func (s *MemoryStore) Videos(_ context.Context, competitionID string) ([]model.Video, error) {
	s.mu.RLock()
	recs := s.byComp[competitionID]
	sorted := make([]*videoRecord, len(recs))
	copy(sorted, recs)
	out := make([]model.Video, len(sorted))
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].video.SubmittedAt.Before(sorted[j].video.SubmittedAt)
	})
	for i, rec := range sorted {
		out[i] = rec.video
	}
	s.mu.RUnlock()
	return out, nil
}

// CountVideos returns the number of stored videos across competitions.
func (s *MemoryStore) CountVideos(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.videos)
}

// PutParticipant inserts or renames a participant.
func (s *MemoryStore) PutParticipant(_ context.Context, p model.Participant) error {
	if p.ID == "" {
		return fmt.Errorf("%w: participant id is empty", ErrInvalidRecord)
	}
	s.mu.Lock()
	s.participants[p.ID] = p
	n := len(s.participants)
	s.mu.Unlock()

	metrics.UpdateRepositoryRecords("participants", n)
	return nil
}

// DisplayName implements ParticipantDirectory.DisplayName.
func (s *MemoryStore) DisplayName(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	p, ok := s.participants[id]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("participant %s: %w", id, ErrNotFound)
	}
	return p.DisplayName, nil
}

// startMetricsUpdater refreshes record gauges until ctx ends or Close is called.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	competitions, videos, participants := len(s.competitions), len(s.videos), len(s.participants)
	s.mu.RUnlock()

	metrics.UpdateRepositoryRecords("competitions", competitions)
	metrics.UpdateRepositoryRecords("videos", videos)
	metrics.UpdateRepositoryRecords("participants", participants)
}
