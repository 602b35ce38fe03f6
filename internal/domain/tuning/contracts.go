package tuning

import (
	"context"
	"time"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
)

// SuggestionRequest carries everything an advisor needs to judge a channel.
type SuggestionRequest struct {
	Channel     int
	Current     device.PIDParams
	CurrentTemp float64
	Metrics     *ResponseMetrics
}

// Advisor proposes new gains for a channel.
type Advisor interface {
	Suggest(ctx context.Context, req SuggestionRequest) (*Suggestion, error)
}

// AnalysisService computes performance metrics over the recorded history and
// drives the advisor.
type AnalysisService interface {
	// Metrics returns step response metrics over the trailing window.
	Metrics(ctx context.Context, channel int, hours float64) (*ResponseMetrics, error)

	// CoolingCurve analyzes the cooling segment after heating last stopped,
	// or after startTime when given.
	CoolingCurve(ctx context.Context, channel int, startTime *time.Time) (*CoolingAnalysis, error)

	// Assessment gives a coarse fast/stable/accurate verdict.
	Assessment(ctx context.Context, channel int, hours float64) (*Assessment, error)

	// Optimize asks the advisor for new gains based on recent history. When
	// the advisor fails or returns garbage, the current gains come back with
	// an explanation saying so.
	Optimize(ctx context.Context, channel int, hours float64) (*Suggestion, error)
}
