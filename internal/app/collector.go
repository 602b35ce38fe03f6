package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/memory"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

// Collector polls the connected device on a fixed interval and records each
// snapshot into the repository and the in-memory analysis window. Polls
// while disconnected are skipped silently.
type Collector struct {
	control  device.ControlService
	repo     device.TelemetryRepository
	buffer   *memory.Buffer
	interval time.Duration
	logger   logger.Logger
}

// NewCollector creates a new Collector instance
func NewCollector(
	control device.ControlService,
	repo device.TelemetryRepository,
	buffer *memory.Buffer,
	interval time.Duration,
	logger logger.Logger,
) (*Collector, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	return &Collector{
		control:  control,
		repo:     repo,
		buffer:   buffer,
		interval: interval,
		logger:   logger,
	}, nil
}

// Run polls until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info(fmt.Sprintf("Telemetry collector started with %s interval", c.interval))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Telemetry collector stopped")
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

func (c *Collector) collect(ctx context.Context) {
	if !c.control.Connected() {
		return
	}

	status, err := c.control.Status(ctx)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("Telemetry poll failed: %v", err))
		return
	}

	samples := device.SamplesFromStatus(status)
	if len(samples) == 0 {
		return
	}

	c.buffer.Append(samples...)
	if err := c.repo.Record(ctx, samples); err != nil {
		c.logger.Error(fmt.Sprintf("Failed to record telemetry: %v", err))
	}
}
