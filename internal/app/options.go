package service

import (
	"time"

	"github.com/okian/bhoomi/internal/domain/feed"
	"github.com/okian/bhoomi/internal/domain/proximity"
	"github.com/okian/bhoomi/internal/domain/risk"
	"github.com/okian/bhoomi/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRiskClassifier sets the classifier applied to the risk series.
func WithRiskClassifier(c *risk.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.riskClassifier = c
		}
	}
}

// WithTrendClassifier sets the classifier applied to the vibration and slope
// series.
func WithTrendClassifier(c *risk.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.trendClassifier = c
		}
	}
}

// WithZone sets the restricted zone workers are evaluated against.
func WithZone(z proximity.Zone) Option {
	return func(s *Service) {
		if z != nil {
			s.zone = z
		}
	}
}

// WithGenerator sets the synthetic feed.
func WithGenerator(g *feed.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithBufferCapacity sets the observation window size.
func WithBufferCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.bufferCapacity = n
		}
	}
}

// WithSourceMode sets the data source used from start-up.
func WithSourceMode(m SourceMode) Option {
	return func(s *Service) {
		if m != "" {
			s.source = m
		}
	}
}

// WithDataFile sets the preloaded observation file.
func WithDataFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataFile = path
		}
	}
}

// WithWorkers sets how many synthetic workers are tracked and how far they
// stray from the zone center.
func WithWorkers(count int, spread float64) Option {
	return func(s *Service) {
		if count >= 0 {
			s.workerCount = count
		}
		if spread > 0 {
			s.positionSpread = spread
		}
	}
}

// WithHeatmapSize sets the side of the square heatmap.
func WithHeatmapSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.heatmapSize = n
		}
	}
}

// WithForecastHours sets how many hourly forecast points are produced.
func WithForecastHours(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.forecastHours = n
		}
	}
}

// WithDedupeSize sets how many manual alert ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithSubscriberBuffer sets the per-subscriber snapshot backlog.
func WithSubscriberBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.subscriberBuffer = n
		}
	}
}

// WithRefreshInterval sets the automatic refresh period.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithAutoRefresh enables or disables the background refresh loop started
// by Start. Enabled by default.
func WithAutoRefresh(enabled bool) Option {
	return func(s *Service) {
		s.autoRefresh = enabled
	}
}

// WithClock overrides the clock used to stamp snapshots and alerts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
