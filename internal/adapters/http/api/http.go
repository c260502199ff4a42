// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pedrohgl18/elox/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CompetitionDependencies
	ParticipantDependencies
	VideoDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	competitionHandler *CompetitionHandler
	participantHandler *ParticipantHandler
	videoHandler       *VideoHandler

	limiter *IPRateLimiter
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit limits write routes to rps requests per second per client IP.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = NewIPRateLimiter(rps, burst)
		} else {
			s.limiter = nil
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	v := newRequestValidator()
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		competitionHandler: NewCompetitionHandler(deps, v),
		participantHandler: NewParticipantHandler(deps, v),
		videoHandler:       NewVideoHandler(deps, v),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(s.limiter), BodyLimitMiddleware)
		r.Post("/competitions", s.competitionHandler.HandlePostCompetition)
		r.Post("/participants", s.participantHandler.HandlePostParticipant)
		r.Post("/videos", s.videoHandler.HandlePostVideo)
	})

	r.Route("/competitions/{competitionID}", func(r chi.Router) {
		r.Get("/leaderboard", s.competitionHandler.HandleGetLeaderboard)
		r.Get("/payouts", s.competitionHandler.HandleGetPayouts)
		r.Get("/participants/{participantID}", s.competitionHandler.HandleGetStanding)
	})
}

// NewRouter returns a chi router with the metrics middleware and every API route.
func (s *Server) NewRouter(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	s.Register(ctx, r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr classifies err and writes the matching error response.
func writeErr(w http.ResponseWriter, err error) {
	status, code, msg := classify(err)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, v *requestValidator, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return v.Struct(dst)
}

// competitionResponse is the JSON shape of a stored competition.
type competitionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MinViews  *int64 `json:"min_views,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toCompetitionResponse(c model.Competition) competitionResponse {
	return competitionResponse{
		ID:        c.ID,
		Name:      c.Name,
		MinViews:  c.MinViews,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
