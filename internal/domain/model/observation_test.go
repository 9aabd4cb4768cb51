package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/okian/bhoomi/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestObservationValidate(t *testing.T) {
	convey.Convey("Given observations", t, func() {
		ok := model.Observation{Timestamp: "10:00:00", Vibration: 0.5, SlopeAngle: 45, Weather: model.Sunny, Risk: 40}

		convey.Convey("Then a well-formed observation is valid", func() {
			convey.So(ok.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then both risk bounds are accepted", func() {
			lo, hi := ok, ok
			lo.Risk, hi.Risk = 0, 100
			convey.So(lo.Validate(), convey.ShouldBeNil)
			convey.So(hi.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then out-of-range risk is rejected", func() {
			bad := ok
			bad.Risk = 101
			err := bad.Validate()
			convey.So(errors.Is(err, model.ErrInvalidObservation), convey.ShouldBeTrue)
			bad.Risk = -1
			convey.So(bad.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("Then non-finite readings are rejected", func() {
			bad := ok
			bad.Vibration = math.NaN()
			convey.So(bad.Validate(), convey.ShouldNotBeNil)
			bad = ok
			bad.SlopeAngle = math.Inf(1)
			convey.So(bad.Validate(), convey.ShouldNotBeNil)
		})
	})
}

func TestParseWeather(t *testing.T) {
	convey.Convey("Given weather names", t, func() {
		for _, name := range []string{"Sunny", "rainy", " CLOUDY ", "Windy"} {
			w, err := model.ParseWeather(name)
			convey.So(err, convey.ShouldBeNil)
			convey.So(model.WeatherKinds, convey.ShouldContain, w)
		}

		_, err := model.ParseWeather("Snowy")
		convey.So(errors.Is(err, model.ErrInvalidObservation), convey.ShouldBeTrue)
	})
}

func TestSeriesExtraction(t *testing.T) {
	convey.Convey("Given a buffer of observations", t, func() {
		obs := []model.Observation{
			{Vibration: 0.1, SlopeAngle: 44, Risk: 10},
			{Vibration: 0.2, SlopeAngle: 45, Risk: 20},
		}

		convey.So(model.Risks(obs), convey.ShouldResemble, []float64{10, 20})
		convey.So(model.Vibrations(obs), convey.ShouldResemble, []float64{0.1, 0.2})
		convey.So(model.Slopes(obs), convey.ShouldResemble, []float64{44, 45})
		convey.So(model.Risks(nil), convey.ShouldBeEmpty)
	})
}
