package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"audio-scribe/internal/api/errors"
)

// ErrorHandler middleware handles errors consistently across the API
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString("request_id")

		var apiErr *errors.APIError

		switch err := recovered.(type) {
		case *errors.APIError:
			apiErr = err
			apiErr.RequestID = requestID
		case error:
			logger.Error("internal server error",
				"error", err.Error(),
				"request_id", requestID,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)

			// Return a generic internal error to the client
			apiErr = &errors.APIError{
				Kind:      errors.KindInternalError,
				Message:   "internal server error",
				RequestID: requestID,
			}
		default:
			logger.Error("unknown panic occurred",
				"recovered", recovered,
				"request_id", requestID,
			)

			apiErr = &errors.APIError{
				Kind:      errors.KindInternalError,
				Message:   "internal server error",
				RequestID: requestID,
			}
		}

		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError is a helper function for handlers to return errors
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	if apiErr, ok := err.(*errors.APIError); ok {
		apiErr.RequestID = c.GetString("request_id")
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
		return
	}

	// If it's not an APIError, panic so the error middleware can handle it
	panic(err)
}
