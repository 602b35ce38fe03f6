package tuning

import (
	"math"
	"time"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
)

// ResponseMetrics summarizes the step response of one channel. Metrics that
// cannot be derived from the available samples are nil.
type ResponseMetrics struct {
	// RiseTimeSec is the time from 10% to 90% of the observed range.
	RiseTimeSec *float64 `json:"rise_time"`

	// SettlingTimeSec is the time until the temperature first enters the
	// ±2% band around the target.
	SettlingTimeSec *float64 `json:"settling_time"`

	// OvershootPct is the peak excursion above target, in percent of target.
	OvershootPct *float64 `json:"overshoot"`

	// SteadyStateError is target minus the mean of the trailing 10 samples.
	SteadyStateError *float64 `json:"steady_state_error"`

	// TemperatureStd is the standard deviation over the whole window.
	TemperatureStd *float64 `json:"temperature_std"`
}

// CoolingAnalysis describes the free-cooling segment after heating stops.
type CoolingAnalysis struct {
	// CoolingRateDegPerSec is the mean slope over the first 10 samples.
	CoolingRateDegPerSec *float64 `json:"cooling_rate"`

	// TimeConstantSec is the time to drop 63.2% of the way from the
	// initial to the final temperature.
	TimeConstantSec *float64 `json:"time_constant"`

	// FinalTemp is the last recorded temperature of the segment.
	FinalTemp *float64 `json:"final_temp"`
}

// Assessment is a coarse verdict on the current parameters, together with a
// temperature summary of the analysis window.
type Assessment struct {
	ResponseSpeed  string  `json:"response_speed"` // fast or slow
	Stability      string  `json:"stability"`      // stable or unstable
	Accuracy       string  `json:"accuracy"`       // good or poor
	CurrentTemp    float64 `json:"current_temp"`
	MaxTemp        float64 `json:"max_temp"`
	MinTemp        float64 `json:"min_temp"`
	AvgTemp        float64 `json:"avg_temp"`
	SteadyError    float64 `json:"steady_error"`
	TemperatureStd float64 `json:"temperature_std"`
	DataPoints     int     `json:"data_points"`
}

const (
	stableStdThreshold   = 0.5
	accurateErrThreshold = 0.5
	fastResponseFraction = 0.9
	settlingBandFraction = 0.02
	steadyStateWindow    = 10
	coolingSlopeWindow   = 10
	coolingDropFraction  = 0.632
)

// ComputeResponseMetrics derives step response metrics from samples ordered
// oldest first. An empty slice yields all-nil metrics.
func ComputeResponseMetrics(samples []*device.TelemetrySample) *ResponseMetrics {
	metrics := &ResponseMetrics{}
	if len(samples) == 0 {
		return metrics
	}

	target := samples[len(samples)-1].TargetTemp
	temps := make([]float64, len(samples))
	for i, s := range samples {
		temps[i] = s.Temperature
	}

	minTemp, maxTemp := minMax(temps)

	// Rise time across 10% to 90% of the observed range.
	t10 := minTemp + 0.1*(maxTemp-minTemp)
	t90 := minTemp + 0.9*(maxTemp-minTemp)
	i10 := firstAtOrAbove(temps, t10)
	i90 := firstAtOrAbove(temps, t90)
	if i10 >= 0 && i90 >= 0 {
		metrics.RiseTimeSec = ptr(samples[i90].Timestamp.Sub(samples[i10].Timestamp).Seconds())
	}

	if target != 0 {
		metrics.OvershootPct = ptr((maxTemp - target) / target * 100)
	}

	// First entry into the ±2% band around target.
	tolerance := settlingBandFraction * math.Abs(target)
	for i, temp := range temps {
		if temp >= target-tolerance && temp <= target+tolerance {
			metrics.SettlingTimeSec = ptr(samples[i].Timestamp.Sub(samples[0].Timestamp).Seconds())
			break
		}
	}

	tail := temps
	if len(tail) > steadyStateWindow {
		tail = tail[len(tail)-steadyStateWindow:]
	}
	metrics.SteadyStateError = ptr(target - mean(tail))
	metrics.TemperatureStd = ptr(stddev(temps))

	return metrics
}

// AnalyzeCooling inspects the segment after the last heating-off transition,
// or after startTime when given. Samples must be ordered oldest first.
func AnalyzeCooling(samples []*device.TelemetrySample, startTime *time.Time) *CoolingAnalysis {
	analysis := &CoolingAnalysis{}
	if len(samples) == 0 {
		return analysis
	}

	start := -1
	if startTime != nil {
		for i, s := range samples {
			if !s.Timestamp.Before(*startTime) {
				start = i
				break
			}
		}
	} else {
		for i := len(samples) - 1; i > 0; i-- {
			if samples[i-1].Heating && !samples[i].Heating {
				start = i
				break
			}
		}
	}
	if start < 0 {
		return analysis
	}

	cooling := samples[start:]
	if len(cooling) < 2 {
		return analysis
	}

	head := cooling
	if len(head) > coolingSlopeWindow {
		head = head[:coolingSlopeWindow]
	}
	dt := head[len(head)-1].Timestamp.Sub(head[0].Timestamp).Seconds()
	if dt > 0 {
		analysis.CoolingRateDegPerSec = ptr((head[len(head)-1].Temperature - head[0].Temperature) / dt)
	}

	initial := cooling[0].Temperature
	final := cooling[len(cooling)-1].Temperature
	analysis.FinalTemp = ptr(final)

	tauTemp := initial - coolingDropFraction*(initial-final)
	for _, s := range cooling {
		if s.Temperature <= tauTemp {
			analysis.TimeConstantSec = ptr(s.Timestamp.Sub(cooling[0].Timestamp).Seconds())
			break
		}
	}

	return analysis
}

// Assess gives a coarse verdict on the current parameters from samples
// ordered oldest first. It returns nil when there is nothing to judge.
func Assess(samples []*device.TelemetrySample) *Assessment {
	if len(samples) == 0 {
		return nil
	}

	last := samples[len(samples)-1]
	target := last.TargetTemp

	temps := make([]float64, len(samples))
	for i, s := range samples {
		temps[i] = s.Temperature
	}

	tail := temps
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	steadyErr := target - mean(tail)
	std := stddev(temps)
	minTemp, maxTemp := minMax(temps)

	a := &Assessment{
		CurrentTemp:    last.Temperature,
		MaxTemp:        maxTemp,
		MinTemp:        minTemp,
		AvgTemp:        mean(temps),
		SteadyError:    steadyErr,
		TemperatureStd: std,
		DataPoints:     len(samples),
		ResponseSpeed:  "slow",
		Stability:      "unstable",
		Accuracy:       "poor",
	}
	if last.Temperature >= target*fastResponseFraction {
		a.ResponseSpeed = "fast"
	}
	if std < stableStdThreshold {
		a.Stability = "stable"
	}
	if math.Abs(steadyErr) < accurateErrThreshold {
		a.Accuracy = "good"
	}
	return a
}

func minMax(values []float64) (min, max float64) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func firstAtOrAbove(values []float64, threshold float64) int {
	for i, v := range values {
		if v >= threshold {
			return i
		}
	}
	return -1
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func ptr(v float64) *float64 { return &v }
