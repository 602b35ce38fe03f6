//go:build unit
// +build unit

package tuning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
)

func makeSamples(start time.Time, target float64, temps []float64, heating []bool) []*device.TelemetrySample {
	samples := make([]*device.TelemetrySample, len(temps))
	for i, temp := range temps {
		h := false
		if heating != nil {
			h = heating[i]
		}
		samples[i] = &device.TelemetrySample{
			ChannelID:   0,
			Timestamp:   start.Add(time.Duration(i) * time.Second),
			Temperature: temp,
			TargetTemp:  target,
			Heating:     h,
		}
	}
	return samples
}

func TestComputeResponseMetrics_Empty(t *testing.T) {
	m := ComputeResponseMetrics(nil)
	assert.Nil(t, m.RiseTimeSec)
	assert.Nil(t, m.SettlingTimeSec)
	assert.Nil(t, m.OvershootPct)
	assert.Nil(t, m.SteadyStateError)
	assert.Nil(t, m.TemperatureStd)
}

func TestComputeResponseMetrics_StepResponse(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	// Range 25..55: 10% at 28, 90% at 52. First >=28 at index 1, first
	// >=52 at index 5, so rise time is 4 seconds.
	temps := []float64{25, 30, 38, 45, 50, 52, 51, 50.2, 50.1, 50, 55}
	samples := makeSamples(start, 50, temps, nil)

	m := ComputeResponseMetrics(samples)

	require.NotNil(t, m.RiseTimeSec)
	assert.Equal(t, 4.0, *m.RiseTimeSec)

	require.NotNil(t, m.OvershootPct)
	assert.InDelta(t, 10.0, *m.OvershootPct, 1e-9)

	// ±2% of 50 is ±1; first sample inside [49, 51] is index 4.
	require.NotNil(t, m.SettlingTimeSec)
	assert.Equal(t, 4.0, *m.SettlingTimeSec)

	require.NotNil(t, m.SteadyStateError)
	require.NotNil(t, m.TemperatureStd)
	assert.Greater(t, *m.TemperatureStd, 0.0)
}

func TestComputeResponseMetrics_ZeroTarget(t *testing.T) {
	start := time.Now()
	m := ComputeResponseMetrics(makeSamples(start, 0, []float64{1, 2, 3}, nil))
	assert.Nil(t, m.OvershootPct)
}

func TestAnalyzeCooling(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	temps := []float64{50, 51, 52, 50, 45, 40, 36, 33, 31, 30}
	heating := []bool{true, true, true, false, false, false, false, false, false, false}
	samples := makeSamples(start, 50, temps, heating)

	a := AnalyzeCooling(samples, nil)

	require.NotNil(t, a.FinalTemp)
	assert.Equal(t, 30.0, *a.FinalTemp)

	// Cooling segment starts at index 3 (50°C). 63.2% of the 20°C drop
	// puts the threshold at 37.36; first sample at or below it is 36°C,
	// three seconds in.
	require.NotNil(t, a.TimeConstantSec)
	assert.Equal(t, 3.0, *a.TimeConstantSec)

	require.NotNil(t, a.CoolingRateDegPerSec)
	assert.Less(t, *a.CoolingRateDegPerSec, 0.0)
}

func TestAnalyzeCooling_NoHeatingTransition(t *testing.T) {
	start := time.Now()
	samples := makeSamples(start, 50, []float64{40, 41, 42}, []bool{true, true, true})

	a := AnalyzeCooling(samples, nil)
	assert.Nil(t, a.TimeConstantSec)
	assert.Nil(t, a.FinalTemp)
}

func TestAnalyzeCooling_ExplicitStart(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	temps := []float64{50, 45, 40, 35, 30}
	samples := makeSamples(start, 50, temps, nil)

	from := start.Add(1 * time.Second)
	a := AnalyzeCooling(samples, &from)

	require.NotNil(t, a.FinalTemp)
	assert.Equal(t, 30.0, *a.FinalTemp)
}

func TestAssess(t *testing.T) {
	start := time.Now()

	good := Assess(makeSamples(start, 50, []float64{49.9, 50.0, 50.1, 50.0, 49.9, 50.0}, nil))
	require.NotNil(t, good)
	assert.Equal(t, "fast", good.ResponseSpeed)
	assert.Equal(t, "stable", good.Stability)
	assert.Equal(t, "good", good.Accuracy)
	assert.Equal(t, 50.0, good.CurrentTemp)
	assert.Equal(t, 50.1, good.MaxTemp)
	assert.Equal(t, 49.9, good.MinTemp)
	assert.InDelta(t, 49.983, good.AvgTemp, 1e-3)

	poor := Assess(makeSamples(start, 50, []float64{25, 30, 28, 33, 26, 31}, nil))
	require.NotNil(t, poor)
	assert.Equal(t, "slow", poor.ResponseSpeed)
	assert.Equal(t, "unstable", poor.Stability)
	assert.Equal(t, "poor", poor.Accuracy)

	assert.Nil(t, Assess(nil))
}

func TestSuggestionClamp(t *testing.T) {
	s := Suggestion{Kp: 500, Ki: -1, Kd: 20, Explanation: "x"}.Clamp()
	assert.Equal(t, MaxKp, s.Kp)
	assert.Equal(t, MinKi, s.Ki)
	assert.Equal(t, MaxKd, s.Kd)

	unchanged := Suggestion{Kp: 2, Ki: 0.5, Kd: 0.1}.Clamp()
	assert.Equal(t, 2.0, unchanged.Kp)
	assert.Equal(t, 0.5, unchanged.Ki)
	assert.Equal(t, 0.1, unchanged.Kd)
}
