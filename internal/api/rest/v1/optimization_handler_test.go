//go:build unit
// +build unit

package v1

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mcp2everything/PID-agent/internal/domain/tuning"
)

func floatPtr(v float64) *float64 { return &v }

func TestOptimizationHandler_AnalyzeChannel_Success(t *testing.T) {
	mockAnalysis := new(MockAnalysisService)
	mockControl := new(MockControlService)
	handler := NewOptimizationHandler(mockAnalysis, mockControl)

	mockAnalysis.On("Metrics", mock.Anything, 2, 1.0).Return(&tuning.ResponseMetrics{
		RiseTimeSec:      floatPtr(4.0),
		SettlingTimeSec:  floatPtr(4.0),
		OvershootPct:     floatPtr(10.0),
		SteadyStateError: floatPtr(0.2),
	}, nil)
	mockAnalysis.On("Assessment", mock.Anything, 2, 1.0).Return(&tuning.Assessment{
		ResponseSpeed: "fast",
		Stability:     "stable",
		Accuracy:      "good",
		CurrentTemp:   50.1,
		MaxTemp:       55.0,
		MinTemp:       25.0,
		AvgTemp:       47.3,
		DataPoints:    120,
	}, nil)
	mockAnalysis.On("CoolingCurve", mock.Anything, 2, (*time.Time)(nil)).Return(&tuning.CoolingAnalysis{}, nil)
	mockAnalysis.On("Optimize", mock.Anything, 2, 1.0).Return(&tuning.Suggestion{
		Kp: 2.5, Ki: 0.15, Kd: 0.05, Explanation: "Slight overshoot, reduce integral gain",
	}, nil)

	w := httptest.NewRecorder()
	c := testContext(w, "POST", "/optimization/channels/2/analyze", "")
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	handler.AnalyzeChannel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2.5")
	assert.Contains(t, w.Body.String(), "reduce integral gain")
	assert.Contains(t, w.Body.String(), `"current_temp":50.1`)
	assert.Contains(t, w.Body.String(), `"max_temp":55`)
	assert.Contains(t, w.Body.String(), `"min_temp":25`)
	assert.Contains(t, w.Body.String(), `"avg_temp":47.3`)
	// An empty cooling analysis stays out of the payload.
	assert.NotContains(t, w.Body.String(), `"cooling"`)
	mockAnalysis.AssertExpectations(t)
}

func TestOptimizationHandler_AnalyzeChannel_WithCoolingSegment(t *testing.T) {
	mockAnalysis := new(MockAnalysisService)
	mockControl := new(MockControlService)
	handler := NewOptimizationHandler(mockAnalysis, mockControl)

	mockAnalysis.On("Metrics", mock.Anything, 0, 1.0).Return(&tuning.ResponseMetrics{}, nil)
	mockAnalysis.On("Assessment", mock.Anything, 0, 1.0).Return(&tuning.Assessment{DataPoints: 30}, nil)
	mockAnalysis.On("CoolingCurve", mock.Anything, 0, (*time.Time)(nil)).Return(&tuning.CoolingAnalysis{
		CoolingRateDegPerSec: floatPtr(-1.5),
		TimeConstantSec:      floatPtr(3.0),
		FinalTemp:            floatPtr(30.0),
	}, nil)
	mockAnalysis.On("Optimize", mock.Anything, 0, 1.0).Return(&tuning.Suggestion{
		Kp: 1.5, Ki: 0.1, Kd: 0.05, Explanation: "ok",
	}, nil)

	w := httptest.NewRecorder()
	c := testContext(w, "POST", "/optimization/channels/0/analyze", "")
	c.Params = gin.Params{{Key: "id", Value: "0"}}

	handler.AnalyzeChannel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cooling"`)
	assert.Contains(t, w.Body.String(), `"cooling_rate":-1.5`)
	assert.Contains(t, w.Body.String(), `"final_temp":30`)
	mockAnalysis.AssertExpectations(t)
}

func TestOptimizationHandler_AnalyzeChannel_CustomHours(t *testing.T) {
	mockAnalysis := new(MockAnalysisService)
	mockControl := new(MockControlService)
	handler := NewOptimizationHandler(mockAnalysis, mockControl)

	mockAnalysis.On("Metrics", mock.Anything, 0, 0.5).Return(&tuning.ResponseMetrics{}, nil)
	mockAnalysis.On("Assessment", mock.Anything, 0, 0.5).Return(nil, errors.New("no data"))
	mockAnalysis.On("CoolingCurve", mock.Anything, 0, (*time.Time)(nil)).Return(nil, errors.New("no data"))
	mockAnalysis.On("Optimize", mock.Anything, 0, 0.5).Return(&tuning.Suggestion{
		Kp: 1.0, Ki: 0.1, Kd: 0.05, Explanation: "Not enough data for optimization",
	}, nil)

	w := httptest.NewRecorder()
	c := testContext(w, "POST", "/optimization/channels/0/analyze?hours=0.5", "")
	c.Params = gin.Params{{Key: "id", Value: "0"}}

	handler.AnalyzeChannel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Not enough data")
	mockAnalysis.AssertExpectations(t)
}

func TestOptimizationHandler_AnalyzeChannel_MetricsError(t *testing.T) {
	mockAnalysis := new(MockAnalysisService)
	mockControl := new(MockControlService)
	handler := NewOptimizationHandler(mockAnalysis, mockControl)

	mockAnalysis.On("Metrics", mock.Anything, 1, 1.0).Return(nil, errors.New("repository unavailable"))

	w := httptest.NewRecorder()
	c := testContext(w, "POST", "/optimization/channels/1/analyze", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	handler.AnalyzeChannel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "repository unavailable")
}

func TestOptimizationHandler_AnalyzeChannel_InvalidChannel(t *testing.T) {
	mockAnalysis := new(MockAnalysisService)
	mockControl := new(MockControlService)
	handler := NewOptimizationHandler(mockAnalysis, mockControl)

	w := httptest.NewRecorder()
	c := testContext(w, "POST", "/optimization/channels/x/analyze", "")
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	handler.AnalyzeChannel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid channel id")
}

func TestOptimizationHandler_AnalyzeAll_Success(t *testing.T) {
	mockAnalysis := new(MockAnalysisService)
	mockControl := new(MockControlService)
	handler := NewOptimizationHandler(mockAnalysis, mockControl)

	mockControl.On("NumChannels").Return(2)
	for channel := 0; channel < 2; channel++ {
		mockAnalysis.On("Metrics", mock.Anything, channel, 1.0).Return(&tuning.ResponseMetrics{}, nil)
		mockAnalysis.On("Assessment", mock.Anything, channel, 1.0).Return(&tuning.Assessment{DataPoints: 10}, nil)
		mockAnalysis.On("CoolingCurve", mock.Anything, channel, (*time.Time)(nil)).Return(&tuning.CoolingAnalysis{}, nil)
		mockAnalysis.On("Optimize", mock.Anything, channel, 1.0).Return(&tuning.Suggestion{
			Kp: 1.5, Ki: 0.1, Kd: 0.05, Explanation: "ok",
		}, nil)
	}

	w := httptest.NewRecorder()
	c := testContext(w, "POST", "/optimization/channels/analyze", "")

	handler.AnalyzeAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"channel":0`)
	assert.Contains(t, w.Body.String(), `"channel":1`)
	mockControl.AssertExpectations(t)
	mockAnalysis.AssertExpectations(t)
}

func TestOptimizationHandler_AnalyzeAll_NotConnected(t *testing.T) {
	mockAnalysis := new(MockAnalysisService)
	mockControl := new(MockControlService)
	handler := NewOptimizationHandler(mockAnalysis, mockControl)

	mockControl.On("NumChannels").Return(0)

	w := httptest.NewRecorder()
	c := testContext(w, "POST", "/optimization/channels/analyze", "")

	handler.AnalyzeAll(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "device not connected")
	mockControl.AssertExpectations(t)
}
