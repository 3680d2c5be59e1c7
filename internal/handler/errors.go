package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postpilot/backend/internal/client"
	"github.com/postpilot/backend/internal/db"
	"github.com/postpilot/backend/internal/model"
	"github.com/postpilot/backend/internal/service"
)

// writeError maps the service error taxonomy to HTTP responses. Upstream
// failures surface the upstream status code with the body attached for
// diagnostics; infrastructure failures stay generic.
func writeError(c *gin.Context, err error) {
	var exchangeErr *client.TokenExchangeError
	var publishErr *client.PublishError

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid input"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "not authenticated"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, model.ErrorResponse{Error: "email already registered"})
	case errors.Is(err, service.ErrCredentialsMissing):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "X API credentials not found for this user"})
	case errors.Is(err, service.ErrCredentialsCorrupted):
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{Error: "stored X API credentials are unreadable, reconnect your account"})
	case errors.As(err, &exchangeErr):
		c.JSON(upstreamStatus(exchangeErr.StatusCode), model.ErrorResponse{
			Error:   "failed to obtain X access token",
			Details: exchangeErr.Body,
		})
	case errors.As(err, &publishErr):
		c.JSON(upstreamStatus(publishErr.StatusCode), model.ErrorResponse{
			Error:   "failed to publish post",
			Details: publishErr.Body,
		})
	case errors.Is(err, db.ErrStoreUnavailable):
		slog.ErrorContext(c.Request.Context(), "credential store unavailable", "error", err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
	}
}

// upstreamStatus passes a usable upstream status through and falls back to
// 502 when the upstream never answered.
func upstreamStatus(status int) int {
	if status >= 400 && status <= 599 {
		return status
	}
	return http.StatusBadGateway
}
