package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/bhoomi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func obs(risk int) model.Observation {
	return model.Observation{Timestamp: "10:00:00", Vibration: 0.5, SlopeAngle: 45, Weather: model.Sunny, Risk: risk}
}

func risks(in []model.Observation) []int {
	out := make([]int, len(in))
	for i, o := range in {
		out[i] = o.Risk
	}
	return out
}

func TestRingStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a window of capacity 3", t, func() {
		s, err := NewRingStore(WithCapacity(3))
		So(err, ShouldBeNil)
		So(s.Cap(), ShouldEqual, 3)

		Convey("When it is empty", func() {
			So(s.Len(ctx), ShouldEqual, 0)
			So(s.Snapshot(ctx), ShouldBeEmpty)
		})

		Convey("When fewer than capacity observations are appended", func() {
			So(s.Append(ctx, obs(1)), ShouldBeNil)
			So(s.Append(ctx, obs(2)), ShouldBeNil)

			Convey("Then they are kept in arrival order", func() {
				So(risks(s.Snapshot(ctx)), ShouldResemble, []int{1, 2})
			})
		})

		Convey("When more than capacity observations are appended", func() {
			for i := 1; i <= 5; i++ {
				So(s.Append(ctx, obs(i)), ShouldBeNil)
			}

			Convey("Then the oldest are evicted first", func() {
				So(s.Len(ctx), ShouldEqual, 3)
				So(risks(s.Snapshot(ctx)), ShouldResemble, []int{3, 4, 5})
			})
		})

		Convey("When an invalid observation is appended", func() {
			err := s.Append(ctx, obs(101))

			Convey("Then it is rejected and the window is unchanged", func() {
				So(errors.Is(err, model.ErrInvalidObservation), ShouldBeTrue)
				So(s.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the window is replaced with a longer series", func() {
			So(s.Append(ctx, obs(99)), ShouldBeNil)
			So(s.Replace(ctx, []model.Observation{obs(10), obs(20), obs(30), obs(40)}), ShouldBeNil)

			Convey("Then only the newest observations remain", func() {
				So(risks(s.Snapshot(ctx)), ShouldResemble, []int{20, 30, 40})
			})

			Convey("Then appends continue from the replaced contents", func() {
				So(s.Append(ctx, obs(50)), ShouldBeNil)
				So(risks(s.Snapshot(ctx)), ShouldResemble, []int{30, 40, 50})
			})
		})

		Convey("When a replacement contains an invalid observation", func() {
			So(s.Append(ctx, obs(7)), ShouldBeNil)
			err := s.Replace(ctx, []model.Observation{obs(1), obs(-1)})

			Convey("Then the previous window survives", func() {
				So(errors.Is(err, model.ErrInvalidObservation), ShouldBeTrue)
				So(risks(s.Snapshot(ctx)), ShouldResemble, []int{7})
			})
		})

		Convey("When the window is replaced with nothing", func() {
			So(s.Append(ctx, obs(7)), ShouldBeNil)
			So(s.Replace(ctx, nil), ShouldBeNil)
			So(s.Len(ctx), ShouldEqual, 0)
		})

		Convey("Then snapshots are copies", func() {
			So(s.Append(ctx, obs(1)), ShouldBeNil)
			snap := s.Snapshot(ctx)
			snap[0].Risk = 77
			So(risks(s.Snapshot(ctx)), ShouldResemble, []int{1})
		})
	})

	Convey("Given the default options", t, func() {
		s, err := NewRingStore()
		So(err, ShouldBeNil)
		So(s.Cap(), ShouldEqual, DefaultCapacity)
	})

	Convey("Given a non-positive capacity", t, func() {
		_, err := NewRingStore(WithCapacity(0))
		So(errors.Is(err, ErrInvalidCapacity), ShouldBeTrue)
	})

	Convey("Given concurrent writers and readers", t, func() {
		s, err := NewRingStore(WithCapacity(16))
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					_ = s.Append(ctx, obs(i%100))
				}
			}()
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					_ = s.Snapshot(ctx)
				}
			}()
		}
		wg.Wait()

		So(s.Len(ctx), ShouldEqual, 16)
	})
}
