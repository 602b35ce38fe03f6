package app

import (
	"context"
	"fmt"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/memory"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

// telemetryService implements the TelemetryService interface over the
// repository and the in-memory analysis window
type telemetryService struct {
	repo   device.TelemetryRepository
	buffer *memory.Buffer
	logger logger.Logger
}

// NewTelemetryService creates a new telemetryService instance
func NewTelemetryService(repo device.TelemetryRepository, buffer *memory.Buffer, logger logger.Logger) (device.TelemetryService, error) {
	return &telemetryService{
		repo:   repo,
		buffer: buffer,
		logger: logger,
	}, nil
}

// History lists recorded samples matching the query.
func (s *telemetryService) History(ctx context.Context, query *device.TelemetryQuery) ([]*device.TelemetrySample, error) {
	samples, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list telemetry: %w", err)
	}
	return samples, nil
}

// ClearChannel deletes the recorded samples of one channel.
func (s *telemetryService) ClearChannel(ctx context.Context, channel int) error {
	if channel < 0 {
		return fmt.Errorf("channel must not be negative")
	}
	if err := s.repo.DeleteByChannel(ctx, channel); err != nil {
		return err
	}
	s.buffer.Clear(channel)
	return nil
}

// ClearAll deletes every recorded sample.
func (s *telemetryService) ClearAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.buffer.ClearAll()
	return nil
}
