package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pedrohgl18/elox/internal/domain/model"
	"github.com/pedrohgl18/elox/internal/domain/types"
)

// Submission results.
const (
	resultAccepted  = "accepted"
	resultDuplicate = "duplicate"
	resultFailed    = "failed"
)

// Client talks to the service HTTP API. Every request waits on the shared limiter.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client. A non-positive rps disables pacing.
func NewClient(baseURL string, timeout time.Duration, rps float64, burst int) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// do sends a request and decodes a JSON reply into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode %s response: %w", path, err)
		}
		return resp.StatusCode, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func expect(path string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s returned %d, want %d", ErrUnexpectedReply, path, got, want)
	}
	return nil
}

// CreateCompetition stores c.
func (c *Client) CreateCompetition(ctx context.Context, comp model.Competition) error {
	body := map[string]any{"id": comp.ID, "name": comp.Name}
	if comp.MinViews != nil {
		body["min_views"] = *comp.MinViews
	}
	status, err := c.do(ctx, http.MethodPost, "/competitions", body, nil)
	if err != nil {
		return err
	}
	return expect("/competitions", status, http.StatusCreated)
}

// PutParticipant registers p's display name.
func (c *Client) PutParticipant(ctx context.Context, p model.Participant) error {
	body := map[string]string{"id": p.ID, "display_name": p.DisplayName}
	status, err := c.do(ctx, http.MethodPost, "/participants", body, nil)
	if err != nil {
		return err
	}
	return expect("/participants", status, http.StatusCreated)
}

type videoBody struct {
	EventID       string    `json:"event_id"`
	CompetitionID string    `json:"competition_id"`
	VideoID       string    `json:"video_id"`
	ParticipantID string    `json:"participant_id"`
	Views         int64     `json:"views"`
	Status        string    `json:"status"`
	TS            time.Time `json:"ts"`
}

// SubmitVideo posts one video event and reports accepted, duplicate or failed.
func (c *Client) SubmitVideo(ctx context.Context, e model.VideoEvent) string { //nolint:gocritic // hugeParam: events are values end to end
	status, err := c.do(ctx, http.MethodPost, "/videos", videoBody{
		EventID:       e.EventID,
		CompetitionID: e.CompetitionID,
		VideoID:       e.VideoID,
		ParticipantID: e.ParticipantID,
		Views:         e.Views,
		Status:        string(e.Status),
		TS:            e.TS,
	}, nil)
	switch {
	case err != nil:
		return resultFailed
	case status == http.StatusAccepted:
		return resultAccepted
	case status == http.StatusOK:
		return resultDuplicate
	default:
		return resultFailed
	}
}

// Processed returns how many events the service workers have handled so far.
func (c *Client) Processed(ctx context.Context) (int64, error) {
	var stats map[string]any
	status, err := c.do(ctx, http.MethodGet, "/stats", nil, &stats)
	if err != nil {
		return 0, err
	}
	if err := expect("/stats", status, http.StatusOK); err != nil {
		return 0, err
	}
	n, ok := stats["processed"].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: /stats has no processed counter", ErrUnexpectedReply)
	}
	return int64(n), nil
}

// Leaderboard fetches the leaderboard of a competition.
func (c *Client) Leaderboard(ctx context.Context, competitionID string) (types.Leaderboard, error) {
	var board types.Leaderboard
	path := "/competitions/" + competitionID + "/leaderboard"
	status, err := c.do(ctx, http.MethodGet, path, nil, &board)
	if err != nil {
		return types.Leaderboard{}, err
	}
	return board, expect(path, status, http.StatusOK)
}
