package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dayflow/core/internal/application/services"
	"github.com/dayflow/core/internal/infrastructure/logger"
	"github.com/dayflow/core/internal/ports"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService *services.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTodayTask godoc
// @Summary Create a task due today
// @Description Create a task placed in the default folder, the today list and the current weekday bucket
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/today [post]
func (h *TaskHandler) CreateTodayTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateTodayTask(c.Request().Context(), userID, c.RealIP(), req)
	if err != nil {
		logFailure(h.logger, "Create today task failed", err, "user_id", userID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// CreateTask godoc
// @Summary Create a task in the flat list
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreatePlainTask(c.Request().Context(), userID, c.RealIP(), req)
	if err != nil {
		logFailure(h.logger, "Create task failed", err, "user_id", userID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// CreateWeekTask godoc
// @Summary Create a task for the next occurrence of a weekday
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateWeekTaskRequest true "Task data with dayOfWeek 0..6"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/week [post]
func (h *TaskHandler) CreateWeekTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateWeekTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateWeekdayTask(c.Request().Context(), userID, c.RealIP(), req)
	if err != nil {
		logFailure(h.logger, "Create week task failed", err, "user_id", userID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// CreateFolderTask godoc
// @Summary Create a task inside a folder
// @Tags tasks
// @Accept json
// @Produce json
// @Param folderId path string true "Folder ID"
// @Param request body ports.CreateFolderTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /folders/{folderId}/tasks [post]
func (h *TaskHandler) CreateFolderTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	folderID, err := pathUUID(c, "folderId")
	if err != nil {
		return err
	}

	var req ports.CreateFolderTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateFolderTask(c.Request().Context(), userID, folderID, c.RealIP(), req)
	if err != nil {
		logFailure(h.logger, "Create folder task failed", err, "user_id", userID, "folder_id", folderID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// AddToToday godoc
// @Summary Add an existing task to the today list
// @Description Link a folder task into the today list and stamp its due date to now
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.AddTodayRequest true "Task reference"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/today/add [post]
func (h *TaskHandler) AddToToday(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.AddTodayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.AddTaskToToday(c.Request().Context(), userID, req.TaskID, c.RealIP())
	if err != nil {
		logFailure(h.logger, "Add task to today failed", err, "user_id", userID, "task_id", req.TaskID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// RemoveFromToday godoc
// @Summary Remove a task from the today list
// @Description Remove the today copy only, other copies stay
// @Tags tasks
// @Param taskId path string true "Task ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/today/remove/{taskId} [delete]
func (h *TaskHandler) RemoveFromToday(c echo.Context) error {
	userID := getUserIDFromContext(c)

	taskID, err := pathUUID(c, "taskId")
	if err != nil {
		return err
	}

	if err := h.taskService.RemoveFromToday(c.Request().Context(), userID, taskID); err != nil {
		logFailure(h.logger, "Remove from today failed", err, "user_id", userID, "task_id", taskID)
		return domainHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListToday godoc
// @Summary List the tasks due today
// @Description Entries whose due date is no longer today are trimmed before the list is returned
// @Tags tasks
// @Produce json
// @Success 200 {array} entities.Task
// @Security BearerAuth
// @Router /tasks/today/all [get]
func (h *TaskHandler) ListToday(c echo.Context) error {
	userID := getUserIDFromContext(c)

	tasks, err := h.taskService.ListToday(c.Request().Context(), userID, c.RealIP())
	if err != nil {
		logFailure(h.logger, "List today failed", err, "user_id", userID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// ListWeek godoc
// @Summary List the 7-day window starting today
// @Tags tasks
// @Produce json
// @Success 200 {array} entities.WeekDay
// @Security BearerAuth
// @Router /weekdays [get]
func (h *TaskHandler) ListWeek(c echo.Context) error {
	userID := getUserIDFromContext(c)

	days, err := h.taskService.ListWeek(c.Request().Context(), userID, c.RealIP())
	if err != nil {
		logFailure(h.logger, "List week failed", err, "user_id", userID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, days)
}

// GetTask godoc
// @Summary Get a task by ID
// @Description Looks through the flat list, folders and today list, decorating the result with folder and today membership
// @Tags tasks
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {object} entities.TaskView
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{taskId} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	taskID, err := pathUUID(c, "taskId")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), userID, taskID)
	if err != nil {
		logFailure(h.logger, "Get task failed", err, "user_id", userID, "task_id", taskID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// UpdateTask godoc
// @Summary Update a task
// @Description Apply a partial update to every copy of the task
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param request body ports.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{taskId} [patch]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	taskID, err := pathUUID(c, "taskId")
	if err != nil {
		return err
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), userID, taskID, req)
	if err != nil {
		logFailure(h.logger, "Update task failed", err, "user_id", userID, "task_id", taskID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Remove every copy of the task from every collection
// @Tags tasks
// @Param taskId path string true "Task ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{taskId} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	taskID, err := pathUUID(c, "taskId")
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), userID, taskID); err != nil {
		logFailure(h.logger, "Delete task failed", err, "user_id", userID, "task_id", taskID)
		return domainHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SearchTasks godoc
// @Summary Search tasks by title
// @Description Case-insensitive substring search across all collections, duplicates removed
// @Tags tasks
// @Produce json
// @Param query query string true "Search text"
// @Success 200 {array} entities.Task
// @Security BearerAuth
// @Router /alltasks/search [get]
func (h *TaskHandler) SearchTasks(c echo.Context) error {
	userID := getUserIDFromContext(c)

	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	tasks, err := h.taskService.SearchTasks(c.Request().Context(), userID, query)
	if err != nil {
		logFailure(h.logger, "Search tasks failed", err, "user_id", userID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}
