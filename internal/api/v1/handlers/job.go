package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"audio-scribe/internal/api/middleware"
	"audio-scribe/internal/api/v1/dto"
	"audio-scribe/internal/api/v1/services"
)

// JobHandler handles the platform job endpoints
type JobHandler struct {
	service services.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(service services.JobService) *JobHandler {
	return &JobHandler{
		service: service,
	}
}

// RunSync handles POST /v1/runsync
// Executes a transcription job in the request path
//
// @Summary Run a transcription job synchronously
// @Description Decodes the audio input, runs the selected engine and answers the finished job envelope. Job failures come back as status FAILED with a structured error, still HTTP 200.
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body dto.JobRequest true "Job input envelope"
// @Success 200 {object} dto.JobResponse "Finished job envelope"
// @Failure 400 {object} errors.APIError "Malformed request body"
// @Failure 422 {object} errors.APIError "Validation error"
// @Router /runsync [post]
func (h *JobHandler) RunSync(c *gin.Context) {
	var req dto.JobRequest

	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp := h.service.RunSync(c.Request.Context(), &req)
	c.JSON(http.StatusOK, resp)
}

// Run handles POST /v1/run
// Enqueues a transcription job for async execution
//
// @Summary Submit a transcription job
// @Description Queues the job and answers its id with status IN_QUEUE. Poll /status/{id} for the outcome.
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body dto.JobRequest true "Job input envelope"
// @Success 200 {object} dto.JobResponse "Queued job envelope"
// @Failure 400 {object} errors.APIError "Malformed request body"
// @Failure 422 {object} errors.APIError "Validation error"
// @Failure 503 {object} errors.APIError "Queue not configured or unreachable"
// @Router /run [post]
func (h *JobHandler) Run(c *gin.Context) {
	var req dto.JobRequest

	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.Enqueue(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Status handles GET /v1/status/:id
//
// @Summary Get a job's status
// @Description Answers the job envelope: status, the verbatim output for completed jobs, the structured error for failed ones.
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse "Job envelope"
// @Failure 404 {object} errors.APIError "Unknown job id"
// @Router /status/{id} [get]
func (h *JobHandler) Status(c *gin.Context) {
	resp, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Cancel handles POST /v1/cancel/:id
//
// @Summary Cancel a queued job
// @Description Withdraws a job still waiting in the queue. Jobs already running or finished answer conflict.
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse "Cancelled job envelope"
// @Failure 404 {object} errors.APIError "Unknown job id"
// @Failure 409 {object} errors.APIError "Job is no longer cancellable"
// @Router /cancel/{id} [post]
func (h *JobHandler) Cancel(c *gin.Context) {
	resp, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Purge handles POST /v1/queue/purge
//
// @Summary Purge the job queue
// @Description Drops every job still waiting in the queue and reports how many went.
// @Tags jobs
// @Produce json
// @Success 200 {object} dto.PurgeResponse "Purge outcome"
// @Failure 503 {object} errors.APIError "Queue not configured or unreachable"
// @Router /queue/purge [post]
func (h *JobHandler) Purge(c *gin.Context) {
	resp, err := h.service.PurgeQueue(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
