package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/pkg/strutil"
)

// DeviceHandler defines the interface for handling device-related operations
type DeviceHandler interface {
	ListPorts(ctx *gin.Context)
	Connect(ctx *gin.Context)
	Disconnect(ctx *gin.Context)
	GetStatus(ctx *gin.Context)
	SetPID(ctx *gin.Context)
	SetControl(ctx *gin.Context)
	ChannelHistory(ctx *gin.Context)
	History(ctx *gin.Context)
	DeleteChannelTelemetry(ctx *gin.Context)
	DeleteTelemetry(ctx *gin.Context)
}

// deviceHandler struct holds the services
type deviceHandler struct {
	controlService   device.ControlService
	telemetryService device.TelemetryService
	portLister       device.PortLister
}

// NewDeviceHandler creates a new DeviceHandler
func NewDeviceHandler(controlService device.ControlService, telemetryService device.TelemetryService, portLister device.PortLister) DeviceHandler {
	return &deviceHandler{
		controlService:   controlService,
		telemetryService: telemetryService,
		portLister:       portLister,
	}
}

// ListPorts handles the GET request to enumerate selectable serial ports
// @Summary List serial ports
// @Description List the serial ports available on the host, including the virtual device, plus the supported baud rates.
// @Tags Device
// @Produce json
// @Success 200 {object} PortsResponse
// @Failure 500 {object} ErrorResponse
// @Router /device/ports [get]
func (handler *deviceHandler) ListPorts(ctx *gin.Context) {
	ports, err := handler.portLister.List()
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error listing ports: %v", err.Error())
		ctx.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	response := PortsResponse{BaudRates: device.CommonBaudRates}
	for _, p := range ports {
		response.Ports = append(response.Ports, PortInfoResponse{Port: p.Port, Description: p.Description})
	}
	ctx.JSON(http.StatusOK, response)
}

// Connect handles the POST request to open a device link
// @Summary Connect to the temperature controller
// @Description Open a serial or virtual link to the controller, replacing any existing connection.
// @Tags Device
// @Accept json
// @Produce json
// @Param requestBody body ConnectRequest true "Connection parameters"
// @Success 200 {object} ConnectionResponse
// @Failure 400 {object} ErrorResponse
// @Router /device/connect [post]
func (handler *deviceHandler) Connect(ctx *gin.Context) {
	var request ConnectRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid connection data: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	info, err := handler.controlService.Connect(ctx, request.ToOptions())
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error connecting: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	ctx.JSON(http.StatusOK, ConnectionResponse{
		Port:        info.Port,
		BaudRate:    info.BaudRate,
		NumChannels: info.NumChannels,
		UseMock:     info.UseMock,
	})
}

// Disconnect handles the POST request to close the device link
// @Summary Disconnect from the temperature controller
// @Tags Device
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Router /device/disconnect [post]
func (handler *deviceHandler) Disconnect(ctx *gin.Context) {
	if err := handler.controlService.Disconnect(ctx); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error disconnecting: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"disconnected": true})
}

// GetStatus handles the GET request for the live controller snapshot
// @Summary Get device status
// @Description Fetch the most recent status frame with per-channel temperatures, gains and heating flags.
// @Tags Device
// @Produce json
// @Success 200 {object} device.Status
// @Failure 400 {object} ErrorResponse
// @Router /device/status [get]
func (handler *deviceHandler) GetStatus(ctx *gin.Context) {
	status, err := handler.controlService.Status(ctx)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error reading status: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, status)
}

// SetPID handles the POST request to update a channel's PID parameters
// @Summary Set PID parameters
// @Tags Device
// @Accept json
// @Produce json
// @Param id path int true "Channel ID"
// @Param requestBody body SetPIDRequest true "PID parameters"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Router /device/channels/{id}/pid [post]
func (handler *deviceHandler) SetPID(ctx *gin.Context) {
	channel, ok := channelParam(ctx)
	if !ok {
		return
	}

	var request SetPIDRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid PID data: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if err := handler.controlService.SetPID(ctx, channel, request.ToParams()); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error setting PID parameters: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"updated": true})
}

// SetControl handles the POST request to switch heating on or off
// @Summary Switch channel heating
// @Tags Device
// @Accept json
// @Produce json
// @Param id path int true "Channel ID"
// @Param requestBody body ControlRequest true "Heating flag"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Router /device/channels/{id}/control [post]
func (handler *deviceHandler) SetControl(ctx *gin.Context) {
	channel, ok := channelParam(ctx)
	if !ok {
		return
	}

	var request ControlRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid control data: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	if err := request.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if err := handler.controlService.SetHeating(ctx, channel, *request.Heating); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error switching heating: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"updated": true})
}

// ChannelHistory handles the GET request for one channel's recorded history
// @Summary Get channel history
// @Tags Device
// @Produce json
// @Param id path int true "Channel ID"
// @Param hours query number false "Trailing window in hours"
// @Success 200 {array} TelemetrySampleResponse
// @Failure 400 {object} ErrorResponse
// @Router /device/channels/{id}/history [get]
func (handler *deviceHandler) ChannelHistory(ctx *gin.Context) {
	channel, ok := channelParam(ctx)
	if !ok {
		return
	}

	query := device.NewTelemetryQuery()
	query.ChannelID = &channel
	applyHistoryQuery(ctx, query)

	samples, err := handler.telemetryService.History(ctx, query)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error fetching history: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, telemetryResponse(samples))
}

// History handles the GET request for the full recorded history
// @Summary List recorded history
// @Description Fetch recorded telemetry across channels with window, pagination and sorting options.
// @Tags Device
// @Produce json
// @Param hours query number false "Trailing window in hours"
// @Param limit query int false "Limit the number of results"
// @Param offset query int false "Offset the results"
// @Param sortBy query string false "Sort by a specific field"
// @Param sortOrder query string false "Sort order (asc/desc)"
// @Success 200 {array} TelemetrySampleResponse
// @Failure 400 {object} ErrorResponse
// @Router /device/history [get]
func (handler *deviceHandler) History(ctx *gin.Context) {
	query := device.NewTelemetryQuery()
	applyHistoryQuery(ctx, query)

	samples, err := handler.telemetryService.History(ctx, query)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error fetching history: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, telemetryResponse(samples))
}

// DeleteChannelTelemetry handles the DELETE request for one channel's history
// @Summary Delete channel history
// @Tags Device
// @Produce json
// @Param id path int true "Channel ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Router /device/channels/{id}/telemetry [delete]
func (handler *deviceHandler) DeleteChannelTelemetry(ctx *gin.Context) {
	channel, ok := channelParam(ctx)
	if !ok {
		return
	}

	if err := handler.telemetryService.ClearChannel(ctx, channel); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error deleting history: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}

// DeleteTelemetry handles the DELETE request for the whole history
// @Summary Delete all history
// @Tags Device
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 500 {object} ErrorResponse
// @Router /device/telemetry [delete]
func (handler *deviceHandler) DeleteTelemetry(ctx *gin.Context) {
	if err := handler.telemetryService.ClearAll(ctx); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error deleting history: %v", err.Error())
		ctx.JSON(http.StatusInternalServerError, errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}

// channelParam parses the :id path parameter, writing the error response
// itself when the value is unusable.
func channelParam(ctx *gin.Context) (int, bool) {
	channel, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || channel < 0 {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid channel id: %s", ctx.Param("id"))
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return 0, false
	}
	return channel, true
}

func applyHistoryQuery(ctx *gin.Context, query *device.TelemetryQuery) {
	if hours := ctx.Query("hours"); len(hours) > 0 {
		query.Hours = strutil.ConvertToFloat64(hours)
	}
	if limit := ctx.Query("limit"); len(limit) > 0 {
		query.Limit = strutil.ConvertToInt(limit)
	}
	if offset := ctx.Query("offset"); len(offset) > 0 {
		query.Offset = strutil.ConvertToInt(offset)
	}
	if sortBy := ctx.Query("sortBy"); len(sortBy) > 0 {
		query.SortBy = sortBy
	}
	if sortOrder := ctx.Query("sortOrder"); len(sortOrder) > 0 {
		query.SortOrder = sortOrder
	}
}
