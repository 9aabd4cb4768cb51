package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/bhoomi/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.RefreshInterval(), convey.ShouldEqual, time.Minute)
			convey.So(cfg.BufferCapacity, convey.ShouldEqual, 50)
			convey.So(cfg.SourceMode, convey.ShouldEqual, config.SourceSimulated)
			convey.So(cfg.DataFile, convey.ShouldEqual, "mine_sensor_data.csv")
			convey.So(cfg.RiskMode, convey.ShouldEqual, "fixed")
			convey.So(cfg.FixedLow, convey.ShouldEqual, 40)
			convey.So(cfg.FixedHigh, convey.ShouldEqual, 70)
			convey.So(cfg.ZoneShape, convey.ShouldEqual, "circle")
			convey.So(cfg.ZoneRadiusKM, convey.ShouldEqual, 0.7)
			convey.So(cfg.ForecastHours, convey.ShouldEqual, 6)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := map[string]func(c *config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = " " },
			"zero interval":       func(c *config.Config) { c.RefreshIntervalMS = 0 },
			"zero capacity":       func(c *config.Config) { c.BufferCapacity = 0 },
			"unknown source":      func(c *config.Config) { c.SourceMode = "kafka" },
			"unknown risk mode":   func(c *config.Config) { c.RiskMode = "adaptive" },
			"fixed trend mode":    func(c *config.Config) { c.TrendMode = "fixed" },
			"inverted fixed band": func(c *config.Config) { c.FixedLow, c.FixedHigh = 80, 20 },
			"inverted fractions":  func(c *config.Config) { c.LowFraction, c.HighFraction = 0.9, 0.1 },
			"unknown shape":       func(c *config.Config) { c.ZoneShape = "hexagon" },
			"negative radius":     func(c *config.Config) { c.ZoneRadiusKM = -1 },
			"negative workers":    func(c *config.Config) { c.WorkerCount = -1 },
			"zero upload limit":   func(c *config.Config) { c.MaxUploadBytes = 0 },
		}
		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+name+" is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given alternative valid modes", t, func() {
		cfg := config.New()
		cfg.SourceMode = "Preloaded"
		cfg.RiskMode = "percentile"
		cfg.TrendMode = "relative"
		cfg.ZoneShape = "grid"
		convey.So(cfg.Validate(), convey.ShouldBeNil)
	})
}
