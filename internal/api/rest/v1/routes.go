package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/domain/providers"
	"github.com/mcp2everything/PID-agent/internal/domain/tuning"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	controlService device.ControlService,
	telemetryService device.TelemetryService,
	analysisService tuning.AnalysisService,
	registry providers.Registry,
	portLister device.PortLister,
	jwtSecret string) {

	v1 := r.Group(BasePath) // lookup in version file
	v1.Use(BearerAuth(jwtSecret))

	// Device Routes
	deviceHandler := NewDeviceHandler(controlService, telemetryService, portLister)
	v1.GET("/device/ports", deviceHandler.ListPorts)
	v1.POST("/device/connect", deviceHandler.Connect)
	v1.POST("/device/disconnect", deviceHandler.Disconnect)
	v1.GET("/device/status", deviceHandler.GetStatus)
	v1.POST("/device/channels/:id/pid", deviceHandler.SetPID)
	v1.POST("/device/channels/:id/control", deviceHandler.SetControl)
	v1.GET("/device/channels/:id/history", deviceHandler.ChannelHistory)
	v1.GET("/device/history", deviceHandler.History)
	v1.DELETE("/device/channels/:id/telemetry", deviceHandler.DeleteChannelTelemetry)
	v1.DELETE("/device/telemetry", deviceHandler.DeleteTelemetry)

	// Optimization Routes
	optimizationHandler := NewOptimizationHandler(analysisService, controlService)
	v1.POST("/optimization/channels/:id/analyze", optimizationHandler.AnalyzeChannel)
	v1.POST("/optimization/channels/analyze", optimizationHandler.AnalyzeAll)

	// Provider Routes
	providerHandler := NewProviderHandler(registry)
	v1.GET("/providers", providerHandler.ListProviders)
	v1.PUT("/providers", providerHandler.UpdateProvider)
	v1.GET("/providers/:name/models", providerHandler.ListModels)
	v1.GET("/providers/current", providerHandler.GetCurrent)
	v1.PUT("/providers/current", providerHandler.SetCurrent)

	// Health endpoint stays outside the auth group so probes work unauthenticated.
	r.GET(BasePath+"/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, HealthResponse{
			Status:    "ok",
			Connected: controlService.Connected(),
		})
	})
}
