package hub

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHub(t *testing.T) {
	ctx := context.Background()

	Convey("Given a hub with two subscribers", t, func() {
		h := New[int](WithBufferSize(2))
		a, cancelA, err := h.Subscribe()
		So(err, ShouldBeNil)
		b, cancelB, err := h.Subscribe()
		So(err, ShouldBeNil)
		So(h.Len(), ShouldEqual, 2)

		Convey("When a value is published", func() {
			n := h.Publish(ctx, 7)

			Convey("Then both subscribers receive it", func() {
				So(n, ShouldEqual, 2)
				So(<-a, ShouldEqual, 7)
				So(<-b, ShouldEqual, 7)
			})
		})

		Convey("When a subscriber falls behind", func() {
			So(h.Publish(ctx, 1), ShouldEqual, 2)
			So(h.Publish(ctx, 2), ShouldEqual, 2)
			<-a
			<-a
			n := h.Publish(ctx, 3)

			Convey("Then only the lagging subscriber misses the value", func() {
				So(n, ShouldEqual, 1)
				So(<-a, ShouldEqual, 3)
				So(<-b, ShouldEqual, 1)
				So(<-b, ShouldEqual, 2)
			})
		})

		Convey("When a subscriber cancels", func() {
			cancelA()
			cancelA()

			Convey("Then its channel is closed and it no longer counts", func() {
				_, open := <-a
				So(open, ShouldBeFalse)
				So(h.Len(), ShouldEqual, 1)
				So(h.Publish(ctx, 5), ShouldEqual, 1)
			})
		})

		Convey("When the hub is closed", func() {
			So(h.Close(), ShouldBeNil)
			So(h.Close(), ShouldBeNil)

			Convey("Then every channel is closed and new subscriptions fail", func() {
				_, openA := <-a
				_, openB := <-b
				So(openA, ShouldBeFalse)
				So(openB, ShouldBeFalse)
				So(h.Publish(ctx, 1), ShouldEqual, 0)

				_, _, err := h.Subscribe()
				So(errors.Is(err, ErrClosed), ShouldBeTrue)
				cancelB()
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		h := New[string]()
		_, cancel, err := h.Subscribe()
		So(err, ShouldBeNil)
		defer cancel()

		cctx, stop := context.WithCancel(ctx)
		stop()
		So(h.Publish(cctx, "x"), ShouldEqual, 0)
	})

	Convey("Given concurrent publishers and subscribers", t, func() {
		h := New[int](WithBufferSize(1))
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				ch, cancel, err := h.Subscribe()
				if err != nil {
					return
				}
				select {
				case <-ch:
				default:
				}
				cancel()
			}()
			go func(v int) {
				defer wg.Done()
				h.Publish(ctx, v)
			}(i)
		}
		wg.Wait()
		So(h.Len(), ShouldEqual, 0)
		So(h.Close(), ShouldBeNil)
	})
}
