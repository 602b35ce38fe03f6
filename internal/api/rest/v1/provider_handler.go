package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mcp2everything/PID-agent/internal/domain/providers"
)

// ProviderHandler defines the interface for handling LLM provider operations
type ProviderHandler interface {
	ListProviders(ctx *gin.Context)
	UpdateProvider(ctx *gin.Context)
	ListModels(ctx *gin.Context)
	GetCurrent(ctx *gin.Context)
	SetCurrent(ctx *gin.Context)
}

// providerHandler struct holds the registry
type providerHandler struct {
	registry providers.Registry
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(registry providers.Registry) ProviderHandler {
	return &providerHandler{registry: registry}
}

// ListProviders handles the GET request to list configured LLM backends
// @Summary List LLM providers
// @Tags Provider
// @Produce json
// @Success 200 {array} ProviderResponse
// @Failure 500 {object} ErrorResponse
// @Router /providers [get]
func (handler *providerHandler) ListProviders(ctx *gin.Context) {
	var listResponse = []ProviderResponse{}
	for _, name := range handler.registry.ListProviders() {
		p, err := handler.registry.Provider(name)
		if err != nil {
			var errorResponse ErrorResponse
			errorResponse.Message = fmt.Sprintf("error fetching provider %s: %v", name, err.Error())
			ctx.JSON(http.StatusInternalServerError, errorResponse)
			return
		}

		models := make([]string, len(p.Models))
		for i, m := range p.Models {
			models[i] = m.Name
		}
		listResponse = append(listResponse, ProviderResponse{
			Name:        p.Name,
			Description: p.Description,
			HasAPIKey:   p.APIKey != "",
			BaseURL:     p.BaseURL,
			Models:      models,
		})
	}
	ctx.JSON(http.StatusOK, listResponse)
}

// UpdateProvider handles the PUT request to update provider credentials
// @Summary Update provider credentials
// @Tags Provider
// @Accept json
// @Produce json
// @Param requestBody body UpdateProviderRequest true "Provider credentials"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /providers [put]
func (handler *providerHandler) UpdateProvider(ctx *gin.Context) {
	var request UpdateProviderRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid provider data: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	if err := request.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if err := handler.registry.UpdateCredentials(request.Name, request.APIKey, request.BaseURL); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error updating provider: %v", err.Error())
		ctx.JSON(statusForRegistryError(err), errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"updated": true})
}

// ListModels handles the GET request to list one provider's models
// @Summary List provider models
// @Tags Provider
// @Produce json
// @Param name path string true "Provider name"
// @Success 200 {array} string
// @Failure 404 {object} ErrorResponse
// @Router /providers/{name}/models [get]
func (handler *providerHandler) ListModels(ctx *gin.Context) {
	models, err := handler.registry.ListModels(ctx.Param("name"))
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error listing models: %v", err.Error())
		ctx.JSON(http.StatusNotFound, errorResponse)
		return
	}
	ctx.JSON(http.StatusOK, models)
}

// GetCurrent handles the GET request for the active provider/model selection
// @Summary Get current LLM selection
// @Tags Provider
// @Produce json
// @Success 200 {object} SelectionResponse
// @Router /providers/current [get]
func (handler *providerHandler) GetCurrent(ctx *gin.Context) {
	selection := handler.registry.Current()
	ctx.JSON(http.StatusOK, SelectionResponse{
		Provider: selection.Provider,
		Model:    selection.Model,
	})
}

// SetCurrent handles the PUT request to switch the active provider/model
// @Summary Set current LLM selection
// @Tags Provider
// @Accept json
// @Produce json
// @Param requestBody body SelectionRequest true "Provider and model"
// @Success 200 {object} SelectionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /providers/current [put]
func (handler *providerHandler) SetCurrent(ctx *gin.Context) {
	var request SelectionRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid selection data: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}
	if err := request.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if err := handler.registry.SetCurrent(request.Provider, request.Model); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error setting selection: %v", err.Error())
		ctx.JSON(statusForRegistryError(err), errorResponse)
		return
	}

	selection := handler.registry.Current()
	ctx.JSON(http.StatusOK, SelectionResponse{
		Provider: selection.Provider,
		Model:    selection.Model,
	})
}

func statusForRegistryError(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
