package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/okian/bhoomi/internal/domain/risk"
	"github.com/okian/bhoomi/internal/domain/types"
	"github.com/okian/bhoomi/pkg/logger"
	"github.com/okian/bhoomi/pkg/metrics"
)

// DefaultAlertMessage is broadcast when a manual alert carries no text.
const DefaultAlertMessage = "Manual rockfall alert triggered from the safety interface"

// Manual alert outcomes.
const (
	AlertSent      = types.AlertSent
	AlertDuplicate = types.AlertDuplicate
)

// Alert and classification shapes are shared with the transports.
type (
	AlertRequest   = types.AlertRequest
	AlertReceipt   = types.AlertReceipt
	Classification = types.Classification
)

// SubmitAlert acknowledges a manual alert once per id.
func (s *Service) SubmitAlert(ctx context.Context, req AlertRequest) (AlertReceipt, error) {
	s.mu.RLock()
	started, last := s.started, s.last
	s.mu.RUnlock()
	if !started {
		return AlertReceipt{}, ErrNotStarted
	}

	id := strings.TrimSpace(req.AlertID)
	if id == "" {
		id = uuid.NewString()
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		msg = DefaultAlertMessage
	}

	receipt := AlertReceipt{
		AlertID:   id,
		Status:    AlertSent,
		Message:   msg,
		Simulated: true,
		SentAt:    s.now().UTC(),
	}
	if last != nil {
		receipt.Level = last.Level.String()
	}

	if s.deduper.SeenAndRecord(ctx, id) {
		receipt.Status = AlertDuplicate
		metrics.RecordManualAlert(AlertDuplicate)
		s.logger.Debug(ctx, "duplicate manual alert", logger.String("alertID", id))
		return receipt, nil
	}

	metrics.RecordManualAlert(AlertSent)
	s.logger.Info(ctx, "manual alert sent to all registered numbers (simulated)",
		logger.String("alertID", id),
		logger.String("message", msg),
		logger.String("level", receipt.Level),
	)
	return receipt, nil
}

// Classify buckets value against the band derived from the active window.
func (s *Service) Classify(ctx context.Context, value float64) (Classification, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Classification{}, fmt.Errorf("%w: value is not finite", risk.ErrInvalidReading)
	}
	window, err := s.Observations(ctx)
	if err != nil {
		return Classification{}, err
	}
	band, err := s.riskClassifier.Band(model.Risks(window))
	if err != nil {
		return Classification{}, err
	}
	level := risk.Classify(value, band)
	return Classification{
		Value:  value,
		Level:  level,
		Action: risk.ActionFor(level),
		Band:   band,
		Mode:   s.riskClassifier.Mode().String(),
	}, nil
}
