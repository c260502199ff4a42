package model_test

import (
	"testing"
	"time"

	"github.com/pedrohgl18/elox/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestVideoStatus(t *testing.T) {
	convey.Convey("Given raw status strings", t, func() {
		convey.Convey("When they name a known status in any case", func() {
			st, ok := model.ParseVideoStatus(" approved ")

			convey.Convey("Then they normalize to the canonical value", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(st, convey.ShouldEqual, model.StatusApproved)
			})
		})

		convey.Convey("When they are unknown", func() {
			_, ok := model.ParseVideoStatus("published")

			convey.Convey("Then they are rejected", func() {
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(model.VideoStatus("").Valid(), convey.ShouldBeFalse)
			})
		})
	})
}

func TestCompetitionFloor(t *testing.T) {
	convey.Convey("Given competitions with and without a floor", t, func() {
		floor := int64(2500)

		convey.So(model.Competition{ID: "c1"}.Floor(), convey.ShouldEqual, 0)
		convey.So(model.Competition{ID: "c2", MinViews: &floor}.Floor(), convey.ShouldEqual, 2500)
	})
}

func TestVideoEventConversion(t *testing.T) {
	convey.Convey("Given a video event", t, func() {
		ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		ev := model.VideoEvent{
			EventID:       "evt-1",
			CompetitionID: "comp-1",
			VideoID:       "vid-1",
			ParticipantID: "clip-1",
			Views:         4200,
			Status:        model.StatusApproved,
			TS:            ts,
		}

		convey.Convey("When converting to a video", func() {
			v := ev.Video()

			convey.Convey("Then identity, views and status carry over and TS becomes SubmittedAt", func() {
				convey.So(v.ID, convey.ShouldEqual, "vid-1")
				convey.So(v.CompetitionID, convey.ShouldEqual, "comp-1")
				convey.So(v.ParticipantID, convey.ShouldEqual, "clip-1")
				convey.So(v.Views, convey.ShouldEqual, 4200)
				convey.So(v.Status, convey.ShouldEqual, model.StatusApproved)
				convey.So(v.SubmittedAt, convey.ShouldEqual, ts)
			})
		})
	})
}
