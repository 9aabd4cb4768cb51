package service

import (
	"context"
	"fmt"

	"github.com/okian/bhoomi/internal/adapters/ingest"
	"github.com/okian/bhoomi/pkg/logger"
	"github.com/okian/bhoomi/pkg/metrics"
)

// SetSource switches between the simulated feed and the preloaded file.
// Switching to the preloaded file reads it once; when that fails the active
// source is left unchanged. Uploads switch the source through Upload.
func (s *Service) SetSource(ctx context.Context, mode SourceMode) error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	switch mode {
	case SourceSimulated:
	case SourcePreloaded:
		obs, err := ingest.LoadFile(s.dataFile)
		if err != nil {
			metrics.RecordIngestError(tickErrorReason(err))
			s.logger.Warn(ctx, "preloaded file unavailable",
				logger.String("file", s.dataFile),
				logger.Error(err),
			)
			return err
		}
		if err := s.loaded.Replace(ctx, obs); err != nil {
			return err
		}
		metrics.RecordObservationsIngested(string(mode), len(obs))
	default:
		return fmt.Errorf("%w: %q cannot be selected directly", ErrInvalidSource, mode)
	}

	s.switchTo(ctx, mode)
	return nil
}

// Upload parses an uploaded CSV or XLSX body, replaces the file window with
// its newest observations and makes it the active source. It returns how many
// observations were kept.
func (s *Service) Upload(ctx context.Context, name string, data []byte) (int, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return 0, ErrNotStarted
	}
	if len(data) == 0 {
		return 0, ErrEmptyUpload
	}

	obs, err := ingest.Decode(name, data)
	if err != nil {
		metrics.RecordIngestError(tickErrorReason(err))
		s.logger.Warn(ctx, "upload rejected", logger.String("file", name), logger.Error(err))
		return 0, err
	}
	if err := s.loaded.Replace(ctx, obs); err != nil {
		return 0, err
	}
	metrics.RecordObservationsIngested(string(SourceUpload), len(obs))

	s.switchTo(ctx, SourceUpload)
	kept := s.loaded.Len(ctx)
	s.logger.Info(ctx, "upload loaded",
		logger.String("file", name),
		logger.Int("rows", len(obs)),
		logger.Int("kept", kept),
	)
	return kept, nil
}

func (s *Service) switchTo(ctx context.Context, mode SourceMode) {
	s.mu.Lock()
	prev := s.source
	s.source = mode
	s.mu.Unlock()

	if prev != mode {
		metrics.RecordSourceSwitch(string(mode))
		s.logger.Info(ctx, "data source switched",
			logger.String("from", string(prev)),
			logger.String("to", string(mode)),
		)
	}
}
