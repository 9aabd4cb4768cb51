package feed_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/okian/bhoomi/internal/domain/feed"
	"github.com/okian/bhoomi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC)
}

func seeded(seed int64) *feed.Generator {
	return feed.New(feed.WithRand(rand.New(rand.NewSource(seed))), feed.WithClock(fixedClock))
}

func TestGeneratorNext(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a, b := seeded(42), seeded(42)

		Convey("Then they produce identical sequences", func() {
			for i := 0; i < 50; i++ {
				So(a.Next(), ShouldResemble, b.Next())
			}
		})
	})

	Convey("Given a seeded generator", t, func() {
		g := seeded(1)
		const n = 2000
		var vib, slope float64
		weathers := map[model.Weather]int{}
		minRisk, maxRisk := math.MaxInt, math.MinInt

		for i := 0; i < n; i++ {
			o := g.Next()
			So(o.Validate(), ShouldBeNil)
			So(o.Timestamp, ShouldEqual, "14:05:09")
			So(o.Vibration, ShouldEqual, math.Round(o.Vibration*1000)/1000)
			So(o.SlopeAngle, ShouldEqual, math.Round(o.SlopeAngle*100)/100)
			vib += o.Vibration
			slope += o.SlopeAngle
			weathers[o.Weather]++
			minRisk = min(minRisk, o.Risk)
			maxRisk = max(maxRisk, o.Risk)
		}

		Convey("Then sample means track the configured distributions", func() {
			So(vib/n, ShouldAlmostEqual, feed.VibrationMean, 0.02)
			So(slope/n, ShouldAlmostEqual, feed.SlopeMean, 0.3)
		})

		Convey("Then every weather category appears", func() {
			So(weathers, ShouldHaveLength, len(model.WeatherKinds))
		})

		Convey("Then risk stays inside [0,100)", func() {
			So(minRisk, ShouldBeGreaterThanOrEqualTo, 0)
			So(maxRisk, ShouldBeLessThan, feed.RiskUpperBound)
		})
	})

	Convey("Given the default constructor", t, func() {
		g := feed.New(feed.WithSeed(0))

		Convey("Then it still produces valid observations", func() {
			So(g.Next().Validate(), ShouldBeNil)
		})
	})

	Convey("Given WithSeed", t, func() {
		a := feed.New(feed.WithSeed(9), feed.WithClock(fixedClock))
		b := feed.New(feed.WithSeed(9), feed.WithClock(fixedClock))
		So(a.Next(), ShouldResemble, b.Next())
	})
}

func TestGeneratorTracks(t *testing.T) {
	Convey("Given a seeded generator and a zone center", t, func() {
		g := seeded(3)
		center := model.GeoPosition{Latitude: 20.5987, Longitude: 78.9579}

		tracks := g.Tracks(center, 8, 0.005)

		Convey("Then n tracks with stable ids are produced", func() {
			So(tracks, ShouldHaveLength, 8)
			So(tracks[0].EntityID, ShouldEqual, "W1")
			So(tracks[7].EntityID, ShouldEqual, "W8")
			for _, tr := range tracks {
				So(tr.Previous.EntityID, ShouldEqual, tr.EntityID)
				So(tr.Current.EntityID, ShouldEqual, tr.EntityID)
				So(math.Abs(tr.Previous.Latitude-center.Latitude), ShouldBeLessThan, 0.05)
				So(math.Abs(tr.Current.Longitude-center.Longitude), ShouldBeLessThan, 0.05)
			}
		})

		Convey("Then non-positive counts give no tracks", func() {
			So(g.Tracks(center, 0, 0.005), ShouldBeEmpty)
			So(g.Tracks(center, -2, 0.005), ShouldBeEmpty)
		})
	})
}

func TestGeneratorHeatmapAndForecast(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		g := seeded(5)

		Convey("When drawing a 20x20 heatmap scaled by risk 80", func() {
			hm := g.Heatmap(20, 80)

			Convey("Then every cell lies in [0, 80) and six sensors are placed", func() {
				So(hm.Cells, ShouldHaveLength, 20)
				for _, row := range hm.Cells {
					So(row, ShouldHaveLength, 20)
					for _, v := range row {
						So(v, ShouldBeGreaterThanOrEqualTo, 0)
						So(v, ShouldBeLessThan, 80)
					}
				}
				So(hm.Hotspots, ShouldHaveLength, feed.DefaultHotspots)
				So(hm.Hotspots[0].Label, ShouldEqual, "Sensor 1")
				for _, h := range hm.Hotspots {
					So(h.X, ShouldBeBetweenOrEqual, 0, 19)
					So(h.Y, ShouldBeBetweenOrEqual, 0, 19)
				}
			})
		})

		Convey("When the heatmap size is zero", func() {
			hm := g.Heatmap(0, 50)
			So(hm.Cells, ShouldBeEmpty)
			So(hm.Hotspots, ShouldBeEmpty)
		})

		Convey("When drawing a six hour forecast", func() {
			fc := g.Forecast(6)

			Convey("Then hours are labelled and values lie in [20,95)", func() {
				So(fc, ShouldHaveLength, 6)
				So(fc[0].Hour, ShouldEqual, "1h")
				So(fc[5].Hour, ShouldEqual, "6h")
				for _, p := range fc {
					So(p.Risk, ShouldBeGreaterThanOrEqualTo, feed.ForecastMin)
					So(p.Risk, ShouldBeLessThan, feed.ForecastMax)
				}
			})
		})
	})
}
