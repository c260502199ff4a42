package tiers_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pedrohgl18/elox/internal/domain/tiers"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func sub(video, participant string, views int64) tiers.Submission {
	return tiers.Submission{VideoID: video, ParticipantID: participant, Views: views}
}

func videoIDs(r tiers.TierResult) []string {
	out := make([]string, 0, len(r.Winners))
	for _, w := range r.Winners {
		out = append(out, w.VideoID)
	}
	return out
}

func TestDefaultTiers(t *testing.T) {
	Convey("Given the default tier table", t, func() {
		table := tiers.DefaultTiers(1000)

		Convey("Then it has five tiers from Level 5 down to Level 1", func() {
			So(len(table), ShouldEqual, tiers.TierCount)
			names := []string{"Level 5", "Level 4", "Level 3", "Level 2", "Level 1"}
			caps := []int{3, 5, 10, 15, 20}
			prizes := []int64{150, 75, 30, 15, 5}
			for i, tier := range table {
				So(tier.Name, ShouldEqual, names[i])
				So(tier.Rank, ShouldEqual, tiers.TierCount-i)
				So(tier.MaxWinners, ShouldEqual, caps[i])
				So(tier.PrizeAmount.Equal(decimal.NewFromInt(prizes[i])), ShouldBeTrue)
			}
		})

		Convey("Then only the lowest tier carries the floor", func() {
			for _, tier := range table[:4] {
				So(tier.MinViews, ShouldEqual, 0)
			}
			So(table[4].MinViews, ShouldEqual, 1000)
		})
	})
}

func TestAllocate_Scenarios(t *testing.T) {
	Convey("Given the default tier table", t, func() {
		table := tiers.DefaultTiers(0)

		Convey("When there are no submissions", func() {
			results, err := tiers.Allocate(table, nil)

			Convey("Then all five tiers are returned empty", func() {
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, 5)
				for i, r := range results {
					So(r.Name, ShouldEqual, table[i].Name)
					So(r.Winners, ShouldNotBeNil)
					So(len(r.Winners), ShouldEqual, 0)
				}
			})
		})

		Convey("When a single participant submits 25 videos", func() {
			subs := make([]tiers.Submission, 0, 25)
			for i := 0; i < 25; i++ {
				subs = append(subs, sub(fmt.Sprintf("v%02d", i), "solo", int64(100000-i)))
			}
			results, err := tiers.Allocate(table, subs)

			Convey("Then they win twice in Level 5 and twice in Level 4 only", func() {
				So(err, ShouldBeNil)
				So(videoIDs(results[0]), ShouldResemble, []string{"v00", "v01"})
				So(videoIDs(results[1]), ShouldResemble, []string{"v02", "v03"})
				So(len(results[2].Winners), ShouldEqual, 0)
				So(len(results[3].Winners), ShouldEqual, 0)
				So(len(results[4].Winners), ShouldEqual, 0)
				So(tiers.Check(results), ShouldBeNil)
			})
		})

		Convey("When one participant dominates the top views", func() {
			subs := []tiers.Submission{
				sub("a1", "alice", 900),
				sub("a2", "alice", 800),
				sub("a3", "alice", 700),
				sub("b1", "bob", 600),
				sub("c1", "carol", 500),
			}
			results, err := tiers.Allocate(table, subs)

			Convey("Then the per-tier cap lets the next participant in", func() {
				So(err, ShouldBeNil)
				So(videoIDs(results[0]), ShouldResemble, []string{"a1", "a2", "b1"})
				So(videoIDs(results[1]), ShouldResemble, []string{"a3", "c1"})
			})

			Convey("And places are 1-based within each tier", func() {
				So(results[0].Winners[0].Place, ShouldEqual, 1)
				So(results[0].Winners[2].Place, ShouldEqual, 3)
				So(results[1].Winners[0].Place, ShouldEqual, 1)
			})
		})

		Convey("When views tie", func() {
			subs := []tiers.Submission{
				sub("late", "p1", 100),
				sub("early", "p2", 100),
				sub("top", "p3", 200),
				sub("last", "p4", 100),
			}
			results, err := tiers.Allocate(table, subs)

			Convey("Then input order breaks the tie", func() {
				So(err, ShouldBeNil)
				So(videoIDs(results[0]), ShouldResemble, []string{"top", "late", "early"})
				So(videoIDs(results[1]), ShouldResemble, []string{"last"})
			})
		})
	})
}

func TestAllocate_MinViewsFloor(t *testing.T) {
	Convey("Given a lowest-tier floor of 1000 views", t, func() {
		table := tiers.DefaultTiers(1000)

		Convey("When the only submission has 500 views", func() {
			results, err := tiers.Allocate(table, []tiers.Submission{sub("v1", "p1", 500)})

			Convey("Then it lands in the top tier, which has no floor", func() {
				So(err, ShouldBeNil)
				So(videoIDs(results[0]), ShouldResemble, []string{"v1"})
				for _, r := range results[1:] {
					So(len(r.Winners), ShouldEqual, 0)
				}
			})
		})

		Convey("When the higher tiers are full", func() {
			// Levels 5..2 hold 3+5+10+15 = 33 winners.
			subs := make([]tiers.Submission, 0, 36)
			for i := 0; i < 33; i++ {
				subs = append(subs, sub(fmt.Sprintf("hi%02d", i), fmt.Sprintf("p%02d", i), int64(50000-i)))
			}
			subs = append(subs,
				sub("low", "low-performer", 500),
				sub("ok", "steady", 1500),
				sub("edge", "edge", 1000),
			)
			results, err := tiers.Allocate(table, subs)

			Convey("Then Level 1 admits only submissions at or above the floor", func() {
				So(err, ShouldBeNil)
				So(len(results[3].Winners), ShouldEqual, 15)
				So(videoIDs(results[4]), ShouldResemble, []string{"ok", "edge"})
				So(tiers.Check(results), ShouldBeNil)
			})
		})
	})
}

func TestAllocate_Validation(t *testing.T) {
	Convey("Given invalid input", t, func() {
		Convey("When two submissions share a video id", func() {
			results, err := tiers.Allocate(tiers.DefaultTiers(0), []tiers.Submission{
				sub("v1", "p1", 10),
				sub("v1", "p2", 20),
			})

			Convey("Then the call fails without a partial result", func() {
				So(errors.Is(err, tiers.ErrDuplicateSubmission), ShouldBeTrue)
				So(results, ShouldBeNil)
			})
		})

		Convey("When a submission is malformed", func() {
			cases := map[string]tiers.Submission{
				"negative views":       sub("v1", "p1", -1),
				"empty video id":       sub("", "p1", 1),
				"empty participant id": sub("v1", "", 1),
			}
			for _, s := range cases {
				results, err := tiers.Allocate(tiers.DefaultTiers(0), []tiers.Submission{s})
				So(errors.Is(err, tiers.ErrInvalidSubmission), ShouldBeTrue)
				So(results, ShouldBeNil)
			}
		})

		Convey("When the tier configuration is malformed", func() {
			short := tiers.DefaultTiers(0)[:4]

			dupRank := tiers.DefaultTiers(0)
			dupRank[1].Rank = 5

			negWinners := tiers.DefaultTiers(0)
			negWinners[2].MaxWinners = -1

			negPrize := tiers.DefaultTiers(0)
			negPrize[0].PrizeAmount = decimal.NewFromInt(-10)

			badRank := tiers.DefaultTiers(0)
			badRank[4].Rank = 0

			negFloor := tiers.DefaultTiers(-5)

			for _, table := range [][]tiers.Tier{short, dupRank, negWinners, negPrize, badRank, negFloor} {
				results, err := tiers.Allocate(table, []tiers.Submission{sub("v1", "p1", 1)})
				So(errors.Is(err, tiers.ErrInvalidConfiguration), ShouldBeTrue)
				So(results, ShouldBeNil)
			}
		})
	})
}

func TestAllocate_TierOrder(t *testing.T) {
	Convey("Given tiers supplied lowest rank first", t, func() {
		table := tiers.DefaultTiers(0)
		reversed := make([]tiers.Tier, len(table))
		for i := range table {
			reversed[len(table)-1-i] = table[i]
		}
		subs := []tiers.Submission{sub("best", "p1", 300), sub("mid", "p2", 200)}

		Convey("When allocating", func() {
			results, err := tiers.Allocate(reversed, subs)

			Convey("Then processing is still best tier first and output mirrors input order", func() {
				So(err, ShouldBeNil)
				So(results[0].Rank, ShouldEqual, 1)
				So(results[4].Rank, ShouldEqual, 5)
				So(videoIDs(results[4]), ShouldResemble, []string{"best", "mid"})
				So(len(results[0].Winners), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a disabled tier with no capacity", t, func() {
		table := tiers.DefaultTiers(0)
		table[0].MaxWinners = 0

		Convey("Then submissions flow to the next tier", func() {
			results, err := tiers.Allocate(table, []tiers.Submission{sub("v1", "p1", 10)})
			So(err, ShouldBeNil)
			So(len(results[0].Winners), ShouldEqual, 0)
			So(videoIDs(results[1]), ShouldResemble, []string{"v1"})
		})
	})
}

func randomSubmissions(rng *rand.Rand, n, participants int) []tiers.Submission {
	subs := make([]tiers.Submission, n)
	for i := range subs {
		subs[i] = sub(
			fmt.Sprintf("v%04d", i),
			fmt.Sprintf("p%02d", rng.Intn(participants)),
			rng.Int63n(5000),
		)
	}
	return subs
}

func TestAllocate_Properties(t *testing.T) {
	Convey("Given random submission pools", t, func() {
		rng := rand.New(rand.NewSource(7))

		Convey("Then every allocation satisfies the invariants", func() {
			for round := 0; round < 200; round++ {
				floor := rng.Int63n(3000)
				subs := randomSubmissions(rng, rng.Intn(120), 1+rng.Intn(30))
				results, err := tiers.Allocate(tiers.DefaultTiers(floor), subs)
				So(err, ShouldBeNil)
				So(tiers.Check(results), ShouldBeNil)
			}
		})

		Convey("Then identical input yields identical output", func() {
			subs := randomSubmissions(rng, 80, 12)
			first, err := tiers.Allocate(tiers.DefaultTiers(100), subs)
			So(err, ShouldBeNil)
			second, err := tiers.Allocate(tiers.DefaultTiers(100), subs)
			So(err, ShouldBeNil)
			So(cmp.Diff(first, second), ShouldBeEmpty)
		})

		Convey("Then the input slices are left untouched", func() {
			subs := randomSubmissions(rng, 40, 5)
			before := make([]tiers.Submission, len(subs))
			copy(before, subs)
			_, err := tiers.Allocate(tiers.DefaultTiers(0), subs)
			So(err, ShouldBeNil)
			So(subs, ShouldResemble, before)
		})
	})
}
