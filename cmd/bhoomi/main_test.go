package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/bhoomi/internal/config"
	"github.com/okian/bhoomi/internal/domain/proximity"
	"github.com/okian/bhoomi/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestBuildService(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		cfg := config.New()

		convey.Convey("Then a service can be built", func() {
			svc, err := buildService(cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc, convey.ShouldNotBeNil)
		})

		convey.Convey("When the grid zone is selected", func() {
			cfg.ZoneShape = "grid"
			zone, err := buildZone(cfg)

			convey.Convey("Then the configured ranges are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(zone.Shape(), convey.ShouldEqual, proximity.ShapeGrid)
			})
		})

		convey.Convey("When the zone is invalid", func() {
			cfg.ZoneRadiusKM = -1
			_, err := buildService(cfg, logger.Get())

			convey.Convey("Then building fails", func() {
				convey.So(errors.Is(err, proximity.ErrInvalidZone), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the risk band is inverted", func() {
			cfg.FixedLow, cfg.FixedHigh = 80, 20
			_, err := buildService(cfg, logger.Get())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestApplicationIntegration(t *testing.T) {
	convey.Convey("Given configuration from the environment", t, func() {
		t.Setenv("BHOOMI_ADDR", ":0")
		t.Setenv("BHOOMI_SEED", "42")
		t.Setenv("BHOOMI_REFRESH_INTERVAL_MS", "3600000")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Seed, convey.ShouldEqual, 42)
		convey.So(logger.Init(), convey.ShouldBeNil)

		svc, err := buildService(cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, svc, cfg, logger.Get())
		do := func(method, path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, path, nil))
			return w
		}

		convey.Convey("Then every surface is served from one mux", func() {
			convey.So(do(http.MethodPost, "/api/tick").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(do(http.MethodGet, "/api/snapshot").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(do(http.MethodGet, "/api/observations").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(do(http.MethodGet, "/stats").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(do(http.MethodGet, "/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(do(http.MethodGet, "/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(do(http.MethodGet, "/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(do(http.MethodGet, "/").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then unknown paths are not found", func() {
			convey.So(do(http.MethodGet, "/leaderboard").Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop stops with its context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
