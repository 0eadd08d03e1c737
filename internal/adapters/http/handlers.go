package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dayflow/core/internal/domain/entities"
	"github.com/dayflow/core/internal/infrastructure/logger"
)

// Shared helpers and response types for the HTTP handlers.

// MessageResponse is a plain message body
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body produced by the HTTP error handler
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// RefreshTokenRequest carries the refresh token on renewal
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// domainHTTPError maps domain errors onto HTTP status codes. Anything not
// recognized is reported as a generic internal error so details never leak.
func domainHTTPError(err error) error {
	switch {
	case errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrFolderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrInvalidDayOfWeek):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrTaskAlreadyToday),
		errors.Is(err, entities.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrFolderProtected):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

// expectedDomainError reports whether err maps to a client-facing status
// rather than an internal failure.
func expectedDomainError(err error) bool {
	return errors.Is(err, entities.ErrUserNotFound) ||
		errors.Is(err, entities.ErrTaskNotFound) ||
		errors.Is(err, entities.ErrFolderNotFound) ||
		errors.Is(err, entities.ErrInvalidDayOfWeek) ||
		errors.Is(err, entities.ErrTaskAlreadyToday) ||
		errors.Is(err, entities.ErrEmailTaken) ||
		errors.Is(err, entities.ErrFolderProtected)
}

// logFailure logs expected domain conditions at Warn; Error is reserved for
// failures the client cannot have caused.
func logFailure(log *logger.Logger, msg string, err error, fields ...interface{}) {
	args := append([]interface{}{"error", err}, fields...)
	if expectedDomainError(err) {
		log.Warnw(msg, args...)
		return
	}
	log.Errorw(msg, args...)
}

// getUserIDFromContext extracts the authenticated user id set by the auth
// middleware
func getUserIDFromContext(c echo.Context) uuid.UUID {
	userStr, ok := c.Get("user").(string)
	if !ok {
		return uuid.Nil
	}

	userID, err := uuid.Parse(userStr)
	if err != nil {
		return uuid.Nil
	}

	return userID
}

// pathUUID parses a path parameter as a UUID
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}
