package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/domain/tuning"
	"github.com/mcp2everything/PID-agent/internal/pkg/strutil"
)

const defaultAnalysisHours = 1.0

// OptimizationHandler defines the interface for handling analysis operations
type OptimizationHandler interface {
	AnalyzeChannel(ctx *gin.Context)
	AnalyzeAll(ctx *gin.Context)
}

// optimizationHandler struct holds the services
type optimizationHandler struct {
	analysisService tuning.AnalysisService
	controlService  device.ControlService
}

// NewOptimizationHandler creates a new OptimizationHandler
func NewOptimizationHandler(analysisService tuning.AnalysisService, controlService device.ControlService) OptimizationHandler {
	return &optimizationHandler{
		analysisService: analysisService,
		controlService:  controlService,
	}
}

// AnalyzeChannel handles the POST request to analyze and optimize one channel
// @Summary Analyze a channel and suggest PID parameters
// @Description Compute step response metrics and a parameter assessment over the recent window, then ask the configured LLM for improved gains.
// @Tags Optimization
// @Produce json
// @Param id path int true "Channel ID"
// @Param hours query number false "Trailing window in hours"
// @Success 200 {object} AnalysisResponse
// @Failure 400 {object} ErrorResponse
// @Router /optimization/channels/{id}/analyze [post]
func (handler *optimizationHandler) AnalyzeChannel(ctx *gin.Context) {
	channel, ok := channelParam(ctx)
	if !ok {
		return
	}

	response, err := handler.analyze(ctx, channel)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error analyzing channel %d: %v", channel, err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// AnalyzeAll handles the POST request to analyze every channel
// @Summary Analyze all channels
// @Tags Optimization
// @Produce json
// @Param hours query number false "Trailing window in hours"
// @Success 200 {array} AnalysisResponse
// @Failure 400 {object} ErrorResponse
// @Router /optimization/channels/analyze [post]
func (handler *optimizationHandler) AnalyzeAll(ctx *gin.Context) {
	numChannels := handler.controlService.NumChannels()
	if numChannels == 0 {
		var errorResponse ErrorResponse
		errorResponse.Message = "device not connected"
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	responses := make([]*AnalysisResponse, 0, numChannels)
	for channel := 0; channel < numChannels; channel++ {
		response, err := handler.analyze(ctx, channel)
		if err != nil {
			var errorResponse ErrorResponse
			errorResponse.Message = fmt.Sprintf("error analyzing channel %d: %v", channel, err.Error())
			ctx.JSON(http.StatusBadRequest, errorResponse)
			return
		}
		responses = append(responses, response)
	}
	ctx.JSON(http.StatusOK, responses)
}

func (handler *optimizationHandler) analyze(ctx *gin.Context, channel int) (*AnalysisResponse, error) {
	hours := defaultAnalysisHours
	if h := ctx.Query("hours"); len(h) > 0 {
		hours = strutil.ConvertToFloat64(h)
	}

	metrics, err := handler.analysisService.Metrics(ctx, channel, hours)
	if err != nil {
		return nil, err
	}

	// A channel without data has no assessment; that is not an error here.
	assessment, _ := handler.analysisService.Assessment(ctx, channel, hours)

	// The cooling curve only exists after a heating-off transition; an empty
	// analysis is left out of the response.
	cooling, _ := handler.analysisService.CoolingCurve(ctx, channel, nil)
	if cooling != nil && cooling.FinalTemp == nil {
		cooling = nil
	}

	suggestion, err := handler.analysisService.Optimize(ctx, channel, hours)
	if err != nil {
		return nil, err
	}

	return &AnalysisResponse{
		Channel:    channel,
		Metrics:    metrics,
		Assessment: assessment,
		Cooling:    cooling,
		Suggestion: suggestion,
	}, nil
}
