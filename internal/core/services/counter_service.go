package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	portssvc "github.com/hspware/hospital_billing_app/internal/core/ports/services"
	"github.com/hspware/hospital_billing_app/internal/middleware"
)

// counterService provides the named sequence counters behind every
// human-readable number in the system. Uniqueness of the returned values rests
// entirely on the repository's atomic upsert-increment; this layer adds only
// validation and logging.
type counterService struct {
	counterRepo portsrepo.CounterRepositoryFacade
}

// NewCounterService creates a new counter service.
func NewCounterService(counterRepo portsrepo.CounterRepositoryFacade) portssvc.CounterSvcFacade {
	return &counterService{counterRepo: counterRepo}
}

var _ portssvc.CounterSvcFacade = (*counterService)(nil)

func (s *counterService) NextSequenceValue(ctx context.Context, name string) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("counter name is required: %w", apperrors.ErrValidation)
	}

	value, err := s.counterRepo.NextSequenceValue(ctx, name)
	if err != nil {
		logger.Error("Failed to increment sequence counter", slog.String("counter", name), slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}

	logger.Debug("Sequence counter incremented", slog.String("counter", name), slog.Int64("value", value))
	return value, nil
}

func (s *counterService) CurrentSequenceValue(ctx context.Context, name string) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("counter name is required: %w", apperrors.ErrValidation)
	}

	value, err := s.counterRepo.CurrentSequenceValue(ctx, name)
	if err != nil {
		logger.Error("Failed to read sequence counter", slog.String("counter", name), slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}
	return value, nil
}

func (s *counterService) ResetCounter(ctx context.Context, name string, newValue int64) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("counter name is required: %w", apperrors.ErrValidation)
	}
	if newValue < 0 {
		return fmt.Errorf("counter value must not be negative: %w", apperrors.ErrValidation)
	}

	if err := s.counterRepo.ResetCounter(ctx, name, newValue); err != nil {
		logger.Error("Failed to reset sequence counter", slog.String("counter", name), slog.String("error", err.Error()))
		return fmt.Errorf("failed to reset counter %s: %w", name, err)
	}

	logger.Warn("Sequence counter reset", slog.String("counter", name), slog.Int64("value", newValue))
	return nil
}
