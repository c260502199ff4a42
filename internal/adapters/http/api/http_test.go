package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pedrohgl18/elox/internal/adapters/http/api"
	"github.com/pedrohgl18/elox/internal/adapters/repository"
	"github.com/pedrohgl18/elox/internal/domain/model"
	"github.com/pedrohgl18/elox/internal/domain/types"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps records calls and returns canned results.
type mockDeps struct {
	mu sync.Mutex

	competitions []model.Competition
	participants []model.Participant
	events       []model.VideoEvent
	seen         map[string]bool
	queueFull    bool

	board    types.Leaderboard
	standing types.Standing
	payouts  []types.PayoutEntry
	readErr  error
	writeErr error
}

func newMockDeps() *mockDeps {
	return &mockDeps{seen: make(map[string]bool)}
}

func (m *mockDeps) PutCompetition(ctx context.Context, c model.Competition) (model.Competition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return model.Competition{}, m.writeErr
	}
	if c.ID == "" {
		c.ID = "generated"
	}
	c.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.competitions = append(m.competitions, c)
	return c, nil
}

func (m *mockDeps) PutParticipant(ctx context.Context, p model.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participants = append(m.participants, p)
	return m.writeErr
}

func (m *mockDeps) Enqueue(ctx context.Context, e model.VideoEvent) (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[e.EventID] {
		return false, true
	}
	if m.queueFull {
		return false, false
	}
	m.seen[e.EventID] = true
	m.events = append(m.events, e)
	return true, false
}

func (m *mockDeps) Leaderboard(ctx context.Context, competitionID string) (types.Leaderboard, error) {
	if m.readErr != nil {
		return types.Leaderboard{}, m.readErr
	}
	b := m.board
	b.CompetitionID = competitionID
	return b, nil
}

func (m *mockDeps) Standing(ctx context.Context, competitionID, participantID string) (types.Standing, error) {
	if m.readErr != nil {
		return types.Standing{}, m.readErr
	}
	st := m.standing
	st.CompetitionID, st.ParticipantID = competitionID, participantID
	return st, nil
}

func (m *mockDeps) Payouts(ctx context.Context, competitionID string) ([]types.PayoutEntry, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.payouts, nil
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "videos": 3}
}

func newRouter(deps *mockDeps, opts ...api.Option) http.Handler {
	return api.NewServer(deps, mockStats{}, opts...).NewRouter(context.Background())
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var out map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestCompetitionRoutes(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)

		Convey("When a competition is created", func() {
			w := do(h, http.MethodPost, "/competitions", `{"name":"Summer","min_views":1000}`)

			Convey("Then it is stored and echoed back", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var got map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got["id"], ShouldEqual, "generated")
				So(got["min_views"], ShouldEqual, float64(1000))
				So(got["created_at"], ShouldEqual, "2026-01-02T03:04:05Z")
				So(len(deps.competitions), ShouldEqual, 1)
				So(*deps.competitions[0].MinViews, ShouldEqual, int64(1000))
			})
		})

		Convey("When the body is invalid", func() {
			cases := []string{
				`{"min_views":10}`,
				`{"name":"x","min_views":-1}`,
				`{not json`,
			}
			for _, body := range cases {
				w := do(h, http.MethodPost, "/competitions", body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			}
			So(len(deps.competitions), ShouldEqual, 0)
		})

		Convey("When the store rejects the competition", func() {
			deps.writeErr = fmt.Errorf("%w: nope", repository.ErrInvalidRecord)
			w := do(h, http.MethodPost, "/competitions", `{"name":"x"}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestLeaderboardRoutes(t *testing.T) {
	Convey("Given an API router with a computed leaderboard", t, func() {
		deps := newMockDeps()
		deps.board = types.Leaderboard{
			TableVersion: "v1",
			Tiers: []types.TierView{{
				Name:        "Level 5",
				Rank:        5,
				PrizeAmount: decimal.NewFromInt(150),
				MaxWinners:  3,
				Winners:     []types.WinnerView{{Place: 1, VideoID: "v1", ParticipantID: "p1", DisplayName: "Ana", Views: 900}},
			}},
		}
		deps.standing = types.Standing{DisplayName: "Ana", Wins: []types.TierWin{}, TotalPrize: decimal.NewFromInt(150)}
		deps.payouts = []types.PayoutEntry{{ParticipantID: "p1", DisplayName: "Ana", Wins: 1, Total: decimal.NewFromInt(150)}}
		h := newRouter(deps)

		Convey("When the leaderboard is fetched", func() {
			w := do(h, http.MethodGet, "/competitions/c1/leaderboard", "")

			Convey("Then tiers and winners are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got types.Leaderboard
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.CompetitionID, ShouldEqual, "c1")
				So(got.Tiers[0].Winners[0].DisplayName, ShouldEqual, "Ana")
				So(got.Tiers[0].PrizeAmount.Equal(decimal.NewFromInt(150)), ShouldBeTrue)
			})
		})

		Convey("When a standing and the payouts are fetched", func() {
			ws := do(h, http.MethodGet, "/competitions/c1/participants/p1", "")
			wp := do(h, http.MethodGet, "/competitions/c1/payouts", "")

			Convey("Then both are returned", func() {
				So(ws.Code, ShouldEqual, http.StatusOK)
				So(ws.Body.String(), ShouldContainSubstring, `"participant_id":"p1"`)
				So(wp.Code, ShouldEqual, http.StatusOK)
				So(wp.Body.String(), ShouldContainSubstring, `"total":"150"`)
			})
		})

		Convey("When the competition does not exist", func() {
			deps.readErr = fmt.Errorf("competition c9: %w", repository.ErrNotFound)
			w := do(h, http.MethodGet, "/competitions/c9/leaderboard", "")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When allocation fails", func() {
			deps.readErr = fmt.Errorf("%w: duplicate submission: video v1", types.ErrLeaderboardUnavailable)
			paths := []string{
				"/competitions/c1/leaderboard",
				"/competitions/c1/payouts",
				"/competitions/c1/participants/p1",
			}

			Convey("Then every read answers 503 without details", func() {
				for _, p := range paths {
					w := do(h, http.MethodGet, p, "")
					So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
					So(decodeError(w)["message"], ShouldEqual, "leaderboard unavailable")
				}
			})
		})

		Convey("When an unexpected error occurs", func() {
			deps.readErr = fmt.Errorf("disk on fire")
			w := do(h, http.MethodGet, "/competitions/c1/leaderboard", "")

			Convey("Then the cause is hidden", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldNotContainSubstring, "disk")
			})
		})
	})
}

func TestVideoRoutes(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)
		body := `{"event_id":"e1","competition_id":"c1","video_id":"v1","participant_id":"p1","views":0,"status":"approved","ts":"2026-02-01T10:00:00Z"}`

		Convey("When a video event is posted", func() {
			w := do(h, http.MethodPost, "/videos", body)

			Convey("Then it is accepted with normalized fields", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(len(deps.events), ShouldEqual, 1)
				e := deps.events[0]
				So(e.Status, ShouldEqual, model.StatusApproved)
				So(e.Views, ShouldEqual, int64(0))
				So(e.TS.Equal(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)), ShouldBeTrue)
			})

			Convey("And replaying it is reported as duplicate", func() {
				w2 := do(h, http.MethodPost, "/videos", body)
				So(w2.Code, ShouldEqual, http.StatusOK)
				So(w2.Body.String(), ShouldContainSubstring, `"duplicate":true`)
			})
		})

		Convey("When the event id and ts are omitted", func() {
			w := do(h, http.MethodPost, "/videos", `{"competition_id":"c1","video_id":"v1","participant_id":"p1","views":5,"status":"PENDING"}`)

			Convey("Then both are filled in", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(deps.events[0].EventID, ShouldNotBeEmpty)
				So(deps.events[0].TS.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When the event is invalid", func() {
			cases := []string{
				`{"competition_id":"c1","video_id":"v1","participant_id":"p1","status":"APPROVED"}`,
				`{"competition_id":"c1","video_id":"v1","participant_id":"p1","views":-3,"status":"APPROVED"}`,
				`{"competition_id":"c1","video_id":"v1","participant_id":"p1","views":3,"status":"LIVE"}`,
				`{"video_id":"v1","participant_id":"p1","views":3,"status":"APPROVED"}`,
			}

			Convey("Then each is rejected", func() {
				for _, c := range cases {
					w := do(h, http.MethodPost, "/videos", c)
					So(w.Code, ShouldEqual, http.StatusBadRequest)
				}
				So(len(deps.events), ShouldEqual, 0)
			})

			Convey("And the message names the bad field", func() {
				w := do(h, http.MethodPost, "/videos", cases[2])
				So(decodeError(w)["message"], ShouldContainSubstring, "status: must be one of PENDING, APPROVED, REJECTED")
			})
		})

		Convey("When the queue is full", func() {
			deps.queueFull = true
			w := do(h, http.MethodPost, "/videos", body)

			Convey("Then the client is told to back off", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(decodeError(w)["code"], ShouldEqual, "backpressure")
			})
		})
	})
}

func TestParticipantRoutes(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)

		Convey("When a participant is registered", func() {
			w := do(h, http.MethodPost, "/participants", `{"id":"p1","display_name":"Ana"}`)

			Convey("Then it is created", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(deps.participants, ShouldResemble, []model.Participant{{ID: "p1", DisplayName: "Ana"}})
			})
		})

		Convey("When the display name is missing", func() {
			w := do(h, http.MethodPost, "/participants", `{"id":"p1"}`)

			Convey("Then it is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "display_name: is required")
			})
		})
	})
}

func TestRateLimitAndMisc(t *testing.T) {
	Convey("Given a router with a tight write limit", t, func() {
		deps := newMockDeps()
		h := newRouter(deps, api.WithRateLimit(1, 2))

		Convey("When one client posts three times in a row", func() {
			codes := make([]int, 0, 3)
			for i := 0; i < 3; i++ {
				codes = append(codes, do(h, http.MethodPost, "/participants", `{"id":"p1","display_name":"Ana"}`).Code)
			}

			Convey("Then the burst passes and the rest is throttled", func() {
				So(codes, ShouldResemble, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests})
			})

			Convey("And reads are not limited", func() {
				So(do(h, http.MethodGet, "/stats", "").Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When stats and health are requested", func() {
			stats := do(h, http.MethodGet, "/stats", "")
			health := do(h, http.MethodGet, "/healthz", "")

			Convey("Then both respond", func() {
				So(stats.Code, ShouldEqual, http.StatusOK)
				So(stats.Body.String(), ShouldContainSubstring, `"videos":3`)
				So(health.Code, ShouldEqual, http.StatusOK)
				So(health.Body.String(), ShouldContainSubstring, "elox_leaderboard")
			})
		})

		Convey("When a route does not exist or the method is wrong", func() {
			So(do(h, http.MethodGet, "/nope", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, http.MethodGet, "/videos", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestIPRateLimiter(t *testing.T) {
	Convey("Given a per-IP limiter", t, func() {
		l := api.NewIPRateLimiter(1, 1)

		Convey("Then each IP has its own bucket", func() {
			So(l.Allow("10.0.0.1"), ShouldBeTrue)
			So(l.Allow("10.0.0.1"), ShouldBeFalse)
			So(l.Allow("10.0.0.2"), ShouldBeTrue)
		})
	})
}
