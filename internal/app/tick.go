package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/bhoomi/internal/adapters/ingest"
	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/okian/bhoomi/internal/domain/risk"
	"github.com/okian/bhoomi/pkg/logger"
	"github.com/okian/bhoomi/pkg/metrics"
)

// Tick runs the whole pipeline once: acquire data from the active source,
// classify, evaluate worker positions and assemble a snapshot. Ticks never
// overlap. On failure the previous snapshot keeps being served.
func (s *Service) Tick(ctx context.Context) (Snapshot, error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	start := time.Now()

	s.mu.RLock()
	started, mode := s.started, s.source
	s.mu.RUnlock()
	if !started {
		return Snapshot{}, ErrNotStarted
	}

	snap, err := s.tick(ctx, mode)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.ticks++
	if err != nil {
		s.failures++
		s.lastError = err.Error()
	} else {
		s.lastError = ""
		prev := s.last
		s.last = &snap
		if prev != nil && prev.Level != snap.Level {
			s.logger.Info(ctx, "risk level changed",
				logger.String("from", prev.Level.String()),
				logger.String("to", snap.Level.String()),
				logger.Int("risk", snap.Current.Risk),
			)
		}
	}
	s.mu.Unlock()

	if err != nil {
		metrics.RecordTickError(tickErrorReason(err))
		s.logger.Warn(ctx, "tick failed",
			logger.String("source", string(mode)),
			logger.Duration("took", elapsed),
			logger.Error(err),
		)
		return Snapshot{}, err
	}

	metrics.RecordTick(float64(elapsed.Milliseconds()))
	metrics.UpdateRisk(float64(snap.Current.Risk), int(snap.Level), snap.Band.Low, snap.Band.High)
	metrics.UpdateBuffer(snap.WindowSize, s.bufferCapacity)
	metrics.UpdateProximity(len(snap.Workers), len(snap.InZone), len(snap.Approaching))

	s.snapshots.Publish(ctx, snap)

	s.logger.Debug(ctx, "tick complete",
		logger.String("tick", snap.TickID),
		logger.String("source", string(mode)),
		logger.Int("risk", snap.Current.Risk),
		logger.String("level", snap.Level.String()),
		logger.Strings("inZone", snap.InZone),
		logger.Strings("approaching", snap.Approaching),
		logger.Duration("took", elapsed),
	)
	if snap.Level == risk.High {
		s.logger.Warn(ctx, "high rockfall risk",
			logger.Int("risk", snap.Current.Risk),
			logger.String("action", string(snap.Action)),
		)
	}
	return snap, nil
}

// acquire brings the window of mode up to date and returns its contents.
func (s *Service) acquire(ctx context.Context, mode SourceMode) ([]model.Observation, error) {
	switch mode {
	case SourceSimulated:
		if err := s.live.Append(ctx, s.generator.Next()); err != nil {
			return nil, err
		}
		metrics.RecordObservationsIngested(string(mode), 1)
	case SourcePreloaded:
		obs, err := ingest.LoadFile(s.dataFile)
		if err != nil {
			metrics.RecordIngestError(tickErrorReason(err))
			return nil, err
		}
		if err := s.loaded.Replace(ctx, obs); err != nil {
			return nil, err
		}
		metrics.RecordObservationsIngested(string(mode), len(obs))
	}
	return s.window(mode).Snapshot(ctx), nil
}

func (s *Service) tick(ctx context.Context, mode SourceMode) (Snapshot, error) {
	window, err := s.acquire(ctx, mode)
	if err != nil {
		return Snapshot{}, err
	}

	risks := model.Risks(window)
	if len(risks) == 0 {
		return Snapshot{}, fmt.Errorf("%s window: %w", mode, risk.ErrInsufficientData)
	}
	current := window[len(window)-1]

	level, band, err := s.riskClassifier.Assess(risks, float64(current.Risk))
	if err != nil {
		return Snapshot{}, fmt.Errorf("classify risk: %w", err)
	}
	vibration, err := trend(window, model.Vibrations(window), s.trendClassifier)
	if err != nil {
		return Snapshot{}, fmt.Errorf("vibration trend: %w", err)
	}
	slope, err := trend(window, model.Slopes(window), s.trendClassifier)
	if err != nil {
		return Snapshot{}, fmt.Errorf("slope trend: %w", err)
	}

	tracks := s.generator.Tracks(s.zone.Center(), s.workerCount, s.positionSpread)
	report := s.evaluator.Evaluate(tracks)
	heatmap := s.generator.Heatmap(s.heatmapSize, float64(current.Risk))

	return Snapshot{
		TickID:      uuid.NewString(),
		GeneratedAt: s.now(),
		Source:      mode,
		WindowSize:  len(window),
		Current:     current,
		Level:       level,
		Action:      risk.ActionFor(level),
		Color:       level.Color(),
		Mode:        s.riskClassifier.Mode().String(),
		Band:        band,
		Gauge:       risk.GaugeSteps(band, risk.DefaultGaugeScaleMax),
		Vibration:   vibration,
		Slope:       slope,
		Heatmap:     heatmap,
		Zone:        describeZone(s.zone),
		Workers:     report.Assessments,
		InZone:      report.InZone,
		Approaching: report.Approaching,
		Alerts:      alertLog(window, band),
		Forecast:    s.generator.Forecast(s.forecastHours),
		Sensors: SensorSummary{
			Cameras:     activeCameras,
			Microphones: activeMicrophones,
			Hotspots:    len(heatmap.Hotspots),
		},
	}, nil
}

func tickErrorReason(err error) string {
	switch {
	case errors.Is(err, risk.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, risk.ErrInvalidReading), errors.Is(err, model.ErrInvalidObservation):
		return "invalid_reading"
	case errors.Is(err, ingest.ErrSourceNotFound):
		return "not_found"
	case errors.Is(err, ingest.ErrMalformed):
		return "malformed"
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
