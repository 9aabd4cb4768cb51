// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/bhoomi/internal/adapters/mq/hub"
	"github.com/okian/bhoomi/internal/adapters/mq/ticker"
	"github.com/okian/bhoomi/internal/adapters/repository"
	"github.com/okian/bhoomi/internal/domain/dedupe"
	"github.com/okian/bhoomi/internal/domain/feed"
	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/okian/bhoomi/internal/domain/proximity"
	"github.com/okian/bhoomi/internal/domain/risk"
	"github.com/okian/bhoomi/internal/domain/types"
	"github.com/okian/bhoomi/pkg/logger"
)

const stopTimeout = 5 * time.Second

// SourceMode names where observations come from.
type SourceMode = types.SourceMode

// Data sources.
const (
	SourceSimulated = types.SourceSimulated
	SourcePreloaded = types.SourcePreloaded
	SourceUpload    = types.SourceUpload
)

// ParseSourceMode maps a case-insensitive name onto a SourceMode.
func ParseSourceMode(s string) (SourceMode, error) { return types.ParseSourceMode(s) }

// Service owns the observation windows, the data-source switch and the tick
// pipeline.
type Service struct {
	mu sync.RWMutex
	// tickMu serialises ticks so they never overlap.
	tickMu sync.Mutex

	// Core components
	live            repository.Store // simulated observations
	loaded          repository.Store // preloaded or uploaded observations
	deduper         dedupe.Deduper
	snapshots       *hub.Hub[Snapshot]
	refresher       *ticker.Ticker
	riskClassifier  *risk.Classifier
	trendClassifier *risk.Classifier
	zone            proximity.Zone
	evaluator       *proximity.Evaluator
	generator       *feed.Generator

	// Configuration
	bufferCapacity   int
	dataFile         string
	workerCount      int
	positionSpread   float64
	heatmapSize      int
	forecastHours    int
	dedupeSize       int
	subscriberBuffer int
	refreshInterval  time.Duration
	autoRefresh      bool
	now              func() time.Time

	// State
	started   bool
	source    SourceMode
	last      *Snapshot
	ticks     int64
	failures  int64
	lastError string

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		bufferCapacity:   repository.DefaultCapacity,
		dataFile:         "mine_sensor_data.csv",
		workerCount:      8,
		positionSpread:   0.005,
		heatmapSize:      20,
		forecastHours:    6,
		dedupeSize:       10_000,
		subscriberBuffer: 4,
		refreshInterval:  ticker.DefaultInterval,
		autoRefresh:      true,
		now:              time.Now,
		source:           SourceSimulated,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and, unless disabled, the
// background refresh loop. The first refresh runs immediately.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting safety service...")

	var err error
	if s.riskClassifier == nil {
		if s.riskClassifier, err = risk.NewClassifier(); err != nil {
			return err
		}
	}
	if s.trendClassifier == nil {
		if s.trendClassifier, err = risk.NewClassifier(risk.WithMode(risk.ModePercentile)); err != nil {
			return err
		}
	}
	if s.zone == nil {
		center := model.GeoPosition{EntityID: "zone", Latitude: 20.5987, Longitude: 78.9579}
		if s.zone, err = proximity.NewCircularZone(center, 0.7); err != nil {
			return err
		}
	}
	if s.generator == nil {
		s.generator = feed.New()
	}
	s.evaluator = proximity.NewEvaluator(s.zone)

	if s.live, err = repository.NewRingStore(repository.WithCapacity(s.bufferCapacity)); err != nil {
		return fmt.Errorf("create live window: %w", err)
	}
	if s.loaded, err = repository.NewRingStore(repository.WithCapacity(s.bufferCapacity)); err != nil {
		return fmt.Errorf("create file window: %w", err)
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.snapshots = hub.New[Snapshot](hub.WithBufferSize(s.subscriberBuffer))

	s.started = true
	s.logger.Info(ctx, "safety service started",
		logger.String("source", string(s.source)),
		logger.String("riskMode", s.riskClassifier.Mode().String()),
		logger.String("trendMode", s.trendClassifier.Mode().String()),
		logger.String("zone", string(s.zone.Shape())),
		logger.Int("bufferCapacity", s.bufferCapacity),
	)

	if s.autoRefresh {
		s.refresher = ticker.New(s,
			ticker.WithInterval(s.refreshInterval),
			ticker.WithName("refresh"),
			ticker.WithLogger(s.logger.Named("refresh")),
		)
		go s.refresher.Run(ctx)
	}

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	refresher, snapshots := s.refresher, s.snapshots
	s.refresher = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping safety service...")
	if refresher != nil {
		if err := refresher.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "refresh loop did not stop cleanly", logger.Error(err))
		}
	}
	_ = snapshots.Close()
	s.logger.Info(ctx, "safety service stopped")
}

// Refresh implements ticker.Target.
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.Tick(ctx)
	return err
}

// Source returns the active data source.
func (s *Service) Source() SourceMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// window returns the store backing the given source.
func (s *Service) window(mode SourceMode) repository.Store {
	if mode == SourceSimulated {
		return s.live
	}
	return s.loaded
}

// Observations returns the active window, oldest first.
func (s *Service) Observations(ctx context.Context) ([]model.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.window(s.source).Snapshot(ctx), nil
}

// LastSnapshot returns the most recent successful snapshot.
func (s *Service) LastSnapshot() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return *s.last, nil
}

// Subscribe registers for every future snapshot. Call cancel when done.
func (s *Service) Subscribe() (<-chan Snapshot, func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshots == nil {
		return nil, func() {}, ErrNotStarted
	}
	return s.snapshots.Subscribe()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":         s.started,
		"source":          string(s.source),
		"bufferCapacity":  s.bufferCapacity,
		"refreshInterval": s.refreshInterval.String(),
		"autoRefresh":     s.autoRefresh,
		"ticks":           s.ticks,
		"tickFailures":    s.failures,
	}
	if s.lastError != "" {
		stats["lastError"] = s.lastError
	}
	if s.last != nil {
		stats["lastTickID"] = s.last.TickID
		stats["lastTickAt"] = s.last.GeneratedAt
		stats["currentLevel"] = s.last.Level.String()
	}

	if s.started {
		stats["riskMode"] = s.riskClassifier.Mode().String()
		stats["trendMode"] = s.trendClassifier.Mode().String()
		stats["zoneShape"] = string(s.zone.Shape())
		stats["windowSize"] = s.window(s.source).Len(ctx)
		stats["liveSize"] = s.live.Len(ctx)
		stats["fileSize"] = s.loaded.Len(ctx)
		stats["subscribers"] = s.snapshots.Len()
		stats["alertsRecorded"] = s.deduper.Size()
	}
	if s.refresher != nil {
		stats["refreshInterval"] = s.refresher.Interval().String()
		stats["refreshRuns"] = s.refresher.Runs()
		stats["refreshFailures"] = s.refresher.Failures()
	}

	return stats
}
