package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"audio-scribe/internal/api/middleware"
	"audio-scribe/internal/api/v1/dto"
	"audio-scribe/internal/api/v1/services"
)

// LedgerHandler handles job history endpoints
type LedgerHandler struct {
	service services.LedgerService
	export  services.ExportService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(service services.LedgerService, export services.ExportService) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		export:  export,
	}
}

// List handles GET /v1/jobs
//
// @Summary List ledger rows
// @Description Pages through finished and in-flight jobs, newest first, with optional status and engine filters.
// @Tags ledger
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Items per page" default(20) minimum(1) maximum(100)
// @Param status query string false "Filter by status" Enums(IN_QUEUE,IN_PROGRESS,COMPLETED,FAILED,CANCELLED)
// @Param engine query string false "Filter by engine"
// @Success 200 {object} dto.PaginatedJobsResponse "Ledger page"
// @Failure 422 {object} errors.APIError "Invalid query parameters"
// @Header 200 {string} X-Total-Count "Total number of ledger rows"
// @Router /jobs [get]
func (h *LedgerHandler) List(c *gin.Context) {
	var query dto.ListJobsQuery

	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.ListJobs(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(resp.Pagination.Total))
	c.JSON(http.StatusOK, resp)
}

// Stats handles GET /v1/jobs/stats
//
// @Summary Ledger aggregates
// @Description Tallies ledger rows by status and by engine.
// @Tags ledger
// @Produce json
// @Success 200 {object} dto.LedgerStatsResponse "Per-status and per-engine counts"
// @Router /jobs/stats [get]
func (h *LedgerHandler) Stats(c *gin.Context) {
	resp, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Export handles GET /v1/export
//
// @Summary Export the ledger
// @Description Streams the ledger as an xlsx workbook download.
// @Tags ledger
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param engine query string false "Filter by engine"
// @Param limit query int false "Row cap" default(1000) minimum(1) maximum(10000)
// @Success 200 {file} binary "Workbook"
// @Failure 422 {object} errors.APIError "Invalid query parameters"
// @Router /export [get]
func (h *LedgerHandler) Export(c *gin.Context) {
	var query dto.ExportQuery

	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="jobs.xlsx"`)

	if err := h.export.ExportJobs(c.Request.Context(), query, c.Writer); err != nil {
		// Headers are already written, the status code cannot change now
		c.Writer.WriteString(fmt.Sprintf("\nError: %v", err))
	}
}
