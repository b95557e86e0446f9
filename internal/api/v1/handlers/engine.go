package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"audio-scribe/internal/api/middleware"
	"audio-scribe/internal/api/v1/services"
)

// EngineHandler handles engine inventory endpoints
type EngineHandler struct {
	service services.EngineService
}

// NewEngineHandler creates a new engine handler
func NewEngineHandler(service services.EngineService) *EngineHandler {
	return &EngineHandler{
		service: service,
	}
}

// List handles GET /v1/engines
//
// @Summary List registered engines
// @Description Lists every transcription engine this worker can run, default engine first.
// @Tags engines
// @Produce json
// @Success 200 {array} dto.EngineResponse "Engine inventory"
// @Router /engines [get]
func (h *EngineHandler) List(c *gin.Context) {
	engines, err := h.service.ListEngines(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, engines)
}

// Get handles GET /v1/engines/:id
//
// @Summary Get one engine
// @Description Answers a single engine's inventory entry.
// @Tags engines
// @Produce json
// @Param id path string true "Engine name"
// @Success 200 {object} dto.EngineResponse "Engine entry"
// @Failure 404 {object} errors.APIError "Unknown engine"
// @Router /engines/{id} [get]
func (h *EngineHandler) Get(c *gin.Context) {
	eng, err := h.service.GetEngine(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, eng)
}

// Health handles GET /v1/engines/:id/health
//
// @Summary Probe one engine
// @Description Runs the engine's health check and reports the outcome.
// @Tags engines
// @Produce json
// @Param id path string true "Engine name"
// @Success 200 {object} dto.EngineHealthResponse "Probe outcome"
// @Failure 404 {object} errors.APIError "Unknown engine"
// @Router /engines/{id}/health [get]
func (h *EngineHandler) Health(c *gin.Context) {
	health, err := h.service.CheckEngineHealth(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, health)
}
