package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/domain/tuning"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/memory"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

// analysisService implements the AnalysisService interface on top of the
// in-memory telemetry window
type analysisService struct {
	buffer  *memory.Buffer
	advisor tuning.Advisor
	logger  logger.Logger
}

// NewAnalysisService creates a new analysisService instance
func NewAnalysisService(buffer *memory.Buffer, advisor tuning.Advisor, logger logger.Logger) (tuning.AnalysisService, error) {
	return &analysisService{
		buffer:  buffer,
		advisor: advisor,
		logger:  logger,
	}, nil
}

// Metrics returns step response metrics over the trailing window.
func (s *analysisService) Metrics(_ context.Context, channel int, hours float64) (*tuning.ResponseMetrics, error) {
	if channel < 0 {
		return nil, fmt.Errorf("channel must not be negative")
	}
	samples := s.buffer.Window(channel, hours)
	return tuning.ComputeResponseMetrics(samples), nil
}

// CoolingCurve analyzes the cooling segment after heating last stopped.
func (s *analysisService) CoolingCurve(_ context.Context, channel int, startTime *time.Time) (*tuning.CoolingAnalysis, error) {
	if channel < 0 {
		return nil, fmt.Errorf("channel must not be negative")
	}
	samples := s.buffer.Window(channel, 0)
	return tuning.AnalyzeCooling(samples, startTime), nil
}

// Assessment gives a coarse fast/stable/accurate verdict.
func (s *analysisService) Assessment(_ context.Context, channel int, hours float64) (*tuning.Assessment, error) {
	if channel < 0 {
		return nil, fmt.Errorf("channel must not be negative")
	}
	samples := s.buffer.Window(channel, hours)
	assessment := tuning.Assess(samples)
	if assessment == nil {
		return nil, fmt.Errorf("no telemetry recorded for channel %d", channel)
	}
	return assessment, nil
}

// Optimize asks the advisor for new gains based on recent history.
func (s *analysisService) Optimize(ctx context.Context, channel int, hours float64) (*tuning.Suggestion, error) {
	if channel < 0 {
		return nil, fmt.Errorf("channel must not be negative")
	}

	samples := s.buffer.Window(channel, hours)
	if len(samples) == 0 {
		return &tuning.Suggestion{
			Kp:          1.0,
			Ki:          0.1,
			Kd:          0.05,
			Explanation: "Not enough data for optimization",
		}, nil
	}

	last := samples[len(samples)-1]
	req := tuning.SuggestionRequest{
		Channel: channel,
		Current: device.PIDParams{
			Kp:              last.Kp,
			Ki:              last.Ki,
			Kd:              last.Kd,
			TargetTemp:      last.TargetTemp,
			ControlPeriodMs: last.ControlPeriodMs,
			MaxDutyPct:      last.MaxDutyPct,
		},
		CurrentTemp: last.Temperature,
		Metrics:     tuning.ComputeResponseMetrics(samples),
	}

	suggestion, err := s.advisor.Suggest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("optimization failed: %w", err)
	}

	s.logger.Info(fmt.Sprintf("Suggested gains for channel %d: kp=%.3f ki=%.3f kd=%.3f", channel, suggestion.Kp, suggestion.Ki, suggestion.Kd))
	return suggestion, nil
}
