package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/choraleia/collectly/pkg/ai"
	"github.com/choraleia/collectly/pkg/models"
	"github.com/choraleia/collectly/pkg/service"
)

// statusFor maps service and router errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, ai.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBudgetExceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, ai.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, logger *slog.Logger, msg string, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error(msg, "path", c.FullPath(), "error", err)
		message = msg
	} else {
		logger.Warn(msg, "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, models.Response{Code: status, Message: message})
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.Response{Code: 200, Message: "OK", Data: data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.Response{Code: 400, Message: msg})
}
