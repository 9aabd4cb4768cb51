package types_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/okian/bhoomi/internal/domain/risk"
	types "github.com/okian/bhoomi/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSourceMode(t *testing.T) {
	Convey("Given source mode names", t, func() {
		for in, want := range map[string]types.SourceMode{
			"simulated":  types.SourceSimulated,
			" PRELOADED": types.SourcePreloaded,
			"Upload":     types.SourceUpload,
		} {
			got, err := types.ParseSourceMode(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		Convey("Then unknown names are rejected", func() {
			_, err := types.ParseSourceMode("csv")
			So(errors.Is(err, types.ErrInvalidSource), ShouldBeTrue)
		})
	})
}

func TestAlertRowJSON(t *testing.T) {
	Convey("Given an alerts log row", t, func() {
		row := types.AlertRow{
			Observation: model.Observation{Timestamp: "10:00:00", Vibration: 0.5, SlopeAngle: 45, Weather: model.Rainy, Risk: 82},
			Level:       risk.High,
			Action:      risk.Evacuation,
		}

		raw, err := json.Marshal(row)
		So(err, ShouldBeNil)

		Convey("Then the observation fields are inlined next to the action", func() {
			var got map[string]any
			So(json.Unmarshal(raw, &got), ShouldBeNil)
			So(got["timestamp"], ShouldEqual, "10:00:00")
			So(got["risk"], ShouldEqual, float64(82))
			So(got["weather"], ShouldEqual, "Rainy")
			So(got["level"], ShouldEqual, "HIGH")
			So(got["action"], ShouldEqual, "Evacuation")
		})
	})
}

func TestZoneInfoJSON(t *testing.T) {
	Convey("Given a circular zone description", t, func() {
		raw, err := json.Marshal(types.ZoneInfo{Shape: "circle", RadiusKM: 0.7})
		So(err, ShouldBeNil)

		Convey("Then grid ranges are omitted", func() {
			So(string(raw), ShouldNotContainSubstring, "x_min")
			So(string(raw), ShouldContainSubstring, `"radius_km":0.7`)
		})
	})
}
