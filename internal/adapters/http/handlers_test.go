package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dayflow/core/internal/domain/entities"
	"github.com/dayflow/core/internal/infrastructure/logger"
)

func TestDomainHTTPError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{entities.ErrUserNotFound, http.StatusNotFound},
		{entities.ErrTaskNotFound, http.StatusNotFound},
		{entities.ErrFolderNotFound, http.StatusNotFound},
		{entities.ErrInvalidDayOfWeek, http.StatusBadRequest},
		{entities.ErrTaskAlreadyToday, http.StatusConflict},
		{entities.ErrEmailTaken, http.StatusConflict},
		{entities.ErrFolderProtected, http.StatusForbidden},
		{fmt.Errorf("driver blew up"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		httpErr, ok := domainHTTPError(tc.err).(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, tc.code, httpErr.Code, "error %v", tc.err)
	}
}

func TestDomainHTTPError_WrappedErrorStillMapped(t *testing.T) {
	err := fmt.Errorf("load aggregate: %w", entities.ErrTaskNotFound)

	httpErr, ok := domainHTTPError(err).(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestDomainHTTPError_UnknownErrorHidesDetails(t *testing.T) {
	httpErr, ok := domainHTTPError(fmt.Errorf("pq: connection reset")).(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, "Internal server error", httpErr.Message)
}

func TestExpectedDomainError(t *testing.T) {
	expected := []error{
		entities.ErrUserNotFound,
		entities.ErrTaskNotFound,
		entities.ErrFolderNotFound,
		entities.ErrInvalidDayOfWeek,
		entities.ErrTaskAlreadyToday,
		entities.ErrEmailTaken,
		entities.ErrFolderProtected,
	}
	for _, err := range expected {
		assert.True(t, expectedDomainError(err), "error %v", err)
	}

	assert.True(t, expectedDomainError(fmt.Errorf("load aggregate: %w", entities.ErrTaskNotFound)))
	assert.False(t, expectedDomainError(fmt.Errorf("pq: connection reset")))
}

func TestLogFailure_LevelsByErrorKind(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	logFailure(log, "Get task failed", entities.ErrTaskNotFound, "user_id", "u1")
	logFailure(log, "Get task failed", fmt.Errorf("pq: connection reset"), "user_id", "u1")

	entries := logs.All()
	require.Len(t, entries, 2)

	// A missing task is the client's problem, not ours.
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)

	assert.Equal(t, entities.ErrTaskNotFound.Error(), entries[0].ContextMap()["error"])
	assert.Equal(t, "u1", entries[0].ContextMap()["user_id"])
}

func TestPathUUID(t *testing.T) {
	e := echo.New()

	newCtx := func(value string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("taskId")
		c.SetParamValues(value)
		return c
	}

	id := uuid.New()
	got, err := pathUUID(newCtx(id.String()), "taskId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = pathUUID(newCtx("not-a-uuid"), "taskId")
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetUserIDFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, uuid.Nil, getUserIDFromContext(c))

	id := uuid.New()
	c.Set("user", id.String())
	assert.Equal(t, id, getUserIDFromContext(c))

	c.Set("user", "garbage")
	assert.Equal(t, uuid.Nil, getUserIDFromContext(c))
}
