package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/bhoomi/internal/adapters/http/api"
	"github.com/okian/bhoomi/internal/adapters/http/site"
	"github.com/okian/bhoomi/internal/adapters/http/swagger"
	app "github.com/okian/bhoomi/internal/app"
	"github.com/okian/bhoomi/internal/config"
	"github.com/okian/bhoomi/internal/domain/feed"
	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/okian/bhoomi/internal/domain/proximity"
	"github.com/okian/bhoomi/internal/domain/risk"
	"github.com/okian/bhoomi/pkg/logger"
)

// buildService turns a validated configuration into a ready-to-start service.
func buildService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	riskMode, err := risk.ParseMode(cfg.RiskMode)
	if err != nil {
		return nil, fmt.Errorf("risk classifier: %w", err)
	}
	riskClassifier, err := risk.NewClassifier(
		risk.WithMode(riskMode),
		risk.WithFixedBand(cfg.FixedLow, cfg.FixedHigh),
		risk.WithFractions(cfg.LowFraction, cfg.HighFraction),
	)
	if err != nil {
		return nil, fmt.Errorf("risk classifier: %w", err)
	}

	trendMode, err := risk.ParseMode(cfg.TrendMode)
	if err != nil {
		return nil, fmt.Errorf("trend classifier: %w", err)
	}
	trendClassifier, err := risk.NewClassifier(
		risk.WithMode(trendMode),
		risk.WithFractions(cfg.LowFraction, cfg.HighFraction),
	)
	if err != nil {
		return nil, fmt.Errorf("trend classifier: %w", err)
	}

	zone, err := buildZone(cfg)
	if err != nil {
		return nil, err
	}

	source, err := app.ParseSourceMode(cfg.SourceMode)
	if err != nil {
		return nil, err
	}

	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithRiskClassifier(riskClassifier),
		app.WithTrendClassifier(trendClassifier),
		app.WithZone(zone),
		app.WithGenerator(feed.New(feed.WithSeed(cfg.Seed))),
		app.WithBufferCapacity(cfg.BufferCapacity),
		app.WithSourceMode(source),
		app.WithDataFile(cfg.DataFile),
		app.WithWorkers(cfg.WorkerCount, cfg.PositionSpread),
		app.WithHeatmapSize(cfg.HeatmapSize),
		app.WithForecastHours(cfg.ForecastHours),
		app.WithDedupeSize(cfg.AlertDedupeSize),
		app.WithSubscriberBuffer(cfg.SubscriberBuffer),
		app.WithRefreshInterval(cfg.RefreshInterval()),
	), nil
}

func buildZone(cfg *config.Config) (proximity.Zone, error) {
	shape, err := proximity.ParseShape(cfg.ZoneShape)
	if err != nil {
		return nil, err
	}
	if shape == proximity.ShapeGrid {
		grid, err := proximity.NewGridZone(cfg.ZoneXMin, cfg.ZoneXMax, cfg.ZoneYMin, cfg.ZoneYMax)
		if err != nil {
			return nil, fmt.Errorf("grid zone: %w", err)
		}
		return grid, nil
	}
	center := model.GeoPosition{EntityID: "zone", Latitude: cfg.ZoneCenterLat, Longitude: cfg.ZoneCenterLon}
	circle, err := proximity.NewCircularZone(center, cfg.ZoneRadiusKM)
	if err != nil {
		return nil, fmt.Errorf("circular zone: %w", err)
	}
	return circle, nil
}

// newMux registers the API, the API docs and the dashboard.
func newMux(ctx context.Context, svc *app.Service, cfg *config.Config, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc,
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithLogger(log.Named("api")),
	)
	apiServer.Register(ctx, mux)

	site.Register(ctx, mux)
	return mux
}
