package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/bhoomi/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"BHOOMI_CONFIG",
	"BHOOMI_ADDR",
	"BHOOMI_BUFFER_CAPACITY",
	"BHOOMI_RISK_MODE",
	"BHOOMI_ZONE_RADIUS_KM",
	"BHOOMI_SEED",
	"BHOOMI_REFRESH_INTERVAL_MS",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bhoomi.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BHOOMI_ADDR", ":8080")
			_ = os.Setenv("BHOOMI_BUFFER_CAPACITY", "25")
			_ = os.Setenv("BHOOMI_RISK_MODE", "relative")
			_ = os.Setenv("BHOOMI_ZONE_RADIUS_KM", "1.25")
			_ = os.Setenv("BHOOMI_SEED", "42")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BufferCapacity, convey.ShouldEqual, 25)
				convey.So(cfg.RiskMode, convey.ShouldEqual, "relative")
				convey.So(cfg.ZoneRadiusKM, convey.ShouldEqual, 1.25)
				convey.So(cfg.Seed, convey.ShouldEqual, 42)
				convey.So(cfg.FixedLow, convey.ShouldEqual, 40)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := createTempConfigFile(t, `
addr: ":9090"
buffer_capacity: 100
zone_shape: grid
zone_x_min: 0
zone_x_max: 4
refresh_interval_ms: 5000
`)
			_ = os.Setenv("BHOOMI_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.BufferCapacity, convey.ShouldEqual, 100)
				convey.So(cfg.ZoneShape, convey.ShouldEqual, "grid")
				convey.So(cfg.ZoneXMin, convey.ShouldEqual, 0)
				convey.So(cfg.ZoneXMax, convey.ShouldEqual, 4)
				convey.So(cfg.ZoneYMax, convey.ShouldEqual, 10)
				convey.So(cfg.RefreshIntervalMS, convey.ShouldEqual, 5000)
			})

			convey.Convey("Then environment variables override the file", func() {
				_ = os.Setenv("BHOOMI_ADDR", ":7070")
				_ = os.Setenv("BHOOMI_REFRESH_INTERVAL_MS", "250")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.RefreshIntervalMS, convey.ShouldEqual, 250)
				convey.So(cfg.BufferCapacity, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("BHOOMI_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the result fails validation", func() {
			_ = os.Setenv("BHOOMI_BUFFER_CAPACITY", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then an invalid config error is returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
