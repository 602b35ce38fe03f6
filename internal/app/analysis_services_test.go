//go:build unit
// +build unit

package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/domain/tuning"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/memory"
	pkgTesting "github.com/mcp2everything/PID-agent/internal/pkg/testing"
)

// fakeAdvisor records the request and returns a canned suggestion.
type fakeAdvisor struct {
	lastReq    tuning.SuggestionRequest
	suggestion *tuning.Suggestion
	err        error
}

func (a *fakeAdvisor) Suggest(_ context.Context, req tuning.SuggestionRequest) (*tuning.Suggestion, error) {
	a.lastReq = req
	if a.err != nil {
		return nil, a.err
	}
	return a.suggestion, nil
}

func seedBuffer(channel int, temps []float64) *memory.Buffer {
	buffer := memory.NewBuffer(0)
	now := time.Now()
	for i, temp := range temps {
		buffer.Append(&device.TelemetrySample{
			ChannelID:   channel,
			Timestamp:   now.Add(time.Duration(i-len(temps)) * time.Second),
			Temperature: temp,
			TargetTemp:  50,
			Kp:          1.5,
			Ki:          0.2,
			Kd:          0.08,
		})
	}
	return buffer
}

func TestAnalysisServiceMetrics(t *testing.T) {
	buffer := seedBuffer(0, []float64{25, 35, 45, 49.5, 50, 50.2})
	svc, err := NewAnalysisService(buffer, &fakeAdvisor{}, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	metrics, err := svc.Metrics(context.Background(), 0, 1)
	require.NoError(t, err)
	require.NotNil(t, metrics.TemperatureStd)
	assert.Greater(t, *metrics.TemperatureStd, 0.0)

	// Unknown channel yields empty metrics, not an error.
	metrics, err = svc.Metrics(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Nil(t, metrics.TemperatureStd)

	_, err = svc.Metrics(context.Background(), -1, 1)
	assert.Error(t, err)
}

func TestAnalysisServiceAssessment(t *testing.T) {
	buffer := seedBuffer(0, []float64{49.9, 50, 50.1, 50, 49.9})
	svc, err := NewAnalysisService(buffer, &fakeAdvisor{}, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	a, err := svc.Assessment(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "stable", a.Stability)

	_, err = svc.Assessment(context.Background(), 7, 1)
	assert.Error(t, err)
}

func TestAnalysisServiceOptimize(t *testing.T) {
	buffer := seedBuffer(0, []float64{25, 35, 45, 49.5, 50})
	advisor := &fakeAdvisor{suggestion: &tuning.Suggestion{Kp: 2, Ki: 0.3, Kd: 0.1, Explanation: "better"}}
	svc, err := NewAnalysisService(buffer, advisor, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	s, err := svc.Optimize(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.Kp)

	// The advisor saw the latest recorded gains and temperature.
	assert.Equal(t, 1.5, advisor.lastReq.Current.Kp)
	assert.Equal(t, 50.0, advisor.lastReq.CurrentTemp)
	require.NotNil(t, advisor.lastReq.Metrics)
}

func TestAnalysisServiceOptimize_NoData(t *testing.T) {
	svc, err := NewAnalysisService(memory.NewBuffer(0), &fakeAdvisor{}, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	s, err := svc.Optimize(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Kp)
	assert.Contains(t, s.Explanation, "Not enough data")
}

func TestAnalysisServiceOptimize_AdvisorError(t *testing.T) {
	buffer := seedBuffer(0, []float64{25, 30})
	svc, err := NewAnalysisService(buffer, &fakeAdvisor{err: fmt.Errorf("no provider")}, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	_, err = svc.Optimize(context.Background(), 0, 1)
	assert.Error(t, err)
}

func TestAnalysisServiceCoolingCurve(t *testing.T) {
	buffer := memory.NewBuffer(0)
	now := time.Now()
	temps := []float64{50, 45, 40, 35}
	for i, temp := range temps {
		buffer.Append(&device.TelemetrySample{
			ChannelID:   0,
			Timestamp:   now.Add(time.Duration(i) * time.Second),
			Temperature: temp,
			Heating:     i == 0,
		})
	}
	svc, err := NewAnalysisService(buffer, &fakeAdvisor{}, pkgTesting.SetupTestLogger(t))
	require.NoError(t, err)

	analysis, err := svc.CoolingCurve(context.Background(), 0, nil)
	require.NoError(t, err)
	require.NotNil(t, analysis.FinalTemp)
	assert.Equal(t, 35.0, *analysis.FinalTemp)
}
