package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dayflow/core/internal/application/services"
	"github.com/dayflow/core/internal/infrastructure/logger"
	"github.com/dayflow/core/internal/ports"
)

// FolderHandler handles folder-related requests
type FolderHandler struct {
	folderService *services.FolderService
	logger        *logger.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService *services.FolderService, logger *logger.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// CreateFolder godoc
// @Summary Create a folder
// @Tags folders
// @Accept json
// @Produce json
// @Param request body ports.CreateFolderRequest true "Folder data"
// @Success 201 {object} entities.Folder
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /folders [post]
func (h *FolderHandler) CreateFolder(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateFolderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	folder, err := h.folderService.CreateFolder(c.Request().Context(), userID, req)
	if err != nil {
		logFailure(h.logger, "Create folder failed", err, "user_id", userID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusCreated, folder)
}

// GetFolder godoc
// @Summary Get a folder by ID
// @Description Returns the folder with its tasks decorated with folder information
// @Tags folders
// @Produce json
// @Param folderId path string true "Folder ID"
// @Success 200 {object} entities.Folder
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /folders/{folderId} [get]
func (h *FolderHandler) GetFolder(c echo.Context) error {
	userID := getUserIDFromContext(c)

	folderID, err := pathUUID(c, "folderId")
	if err != nil {
		return err
	}

	folder, err := h.folderService.GetFolder(c.Request().Context(), userID, folderID)
	if err != nil {
		logFailure(h.logger, "Get folder failed", err, "user_id", userID, "folder_id", folderID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, folder)
}

// ListFolders godoc
// @Summary List every folder
// @Tags folders
// @Produce json
// @Success 200 {array} entities.Folder
// @Security BearerAuth
// @Router /allFolders [get]
func (h *FolderHandler) ListFolders(c echo.Context) error {
	userID := getUserIDFromContext(c)

	folders, err := h.folderService.ListFolders(c.Request().Context(), userID)
	if err != nil {
		logFailure(h.logger, "List folders failed", err, "user_id", userID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, folders)
}

// AllTasks godoc
// @Summary List every folder task
// @Description Flattens every folder's tasks into one list, decorated with folder information
// @Tags folders
// @Produce json
// @Success 200 {array} entities.Task
// @Security BearerAuth
// @Router /tasks [get]
func (h *FolderHandler) AllTasks(c echo.Context) error {
	userID := getUserIDFromContext(c)

	tasks, err := h.folderService.AllTasks(c.Request().Context(), userID)
	if err != nil {
		logFailure(h.logger, "List all tasks failed", err, "user_id", userID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// RenameFolder godoc
// @Summary Rename a folder
// @Description Renames the folder and rewrites the folder name on every task copy
// @Tags folders
// @Accept json
// @Produce json
// @Param folderId path string true "Folder ID"
// @Param request body ports.RenameFolderRequest true "New name"
// @Success 200 {object} entities.Folder
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /folders/{folderId} [patch]
func (h *FolderHandler) RenameFolder(c echo.Context) error {
	userID := getUserIDFromContext(c)

	folderID, err := pathUUID(c, "folderId")
	if err != nil {
		return err
	}

	var req ports.RenameFolderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	folder, err := h.folderService.RenameFolder(c.Request().Context(), userID, folderID, req)
	if err != nil {
		logFailure(h.logger, "Rename folder failed", err, "user_id", userID, "folder_id", folderID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, folder)
}

// DeleteFolder godoc
// @Summary Delete a folder
// @Description Deletes the folder and every copy of its tasks. Protected folders cannot be deleted
// @Tags folders
// @Param folderId path string true "Folder ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /folders/{folderId} [delete]
func (h *FolderHandler) DeleteFolder(c echo.Context) error {
	userID := getUserIDFromContext(c)

	folderID, err := pathUUID(c, "folderId")
	if err != nil {
		return err
	}

	if err := h.folderService.DeleteFolder(c.Request().Context(), userID, folderID); err != nil {
		logFailure(h.logger, "Delete folder failed", err, "user_id", userID, "folder_id", folderID)
		return domainHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
