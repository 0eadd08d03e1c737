package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dayflow/core/internal/domain/entities"
	"github.com/dayflow/core/internal/infrastructure/logger"
	"github.com/dayflow/core/internal/ports"
)

// FolderService handles folder operations over the per-user aggregate
type FolderService struct {
	dataRepo ports.TaskDataRepository
	logger   *logger.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(dataRepo ports.TaskDataRepository, logger *logger.Logger) *FolderService {
	return &FolderService{
		dataRepo: dataRepo,
		logger:   logger,
	}
}

func (s *FolderService) mutate(ctx context.Context, userID uuid.UUID, fn func(*entities.TaskData) (bool, error)) error {
	return mutateData(ctx, s.dataRepo, s.logger, userID, fn)
}

// CreateFolder appends a new folder
func (s *FolderService) CreateFolder(ctx context.Context, userID uuid.UUID, req ports.CreateFolderRequest) (*entities.Folder, error) {
	var folder entities.Folder
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		folder = d.CreateFolder(req.Name)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Folder created", "user_id", userID, "folder_id", folder.ID, "name", folder.Name)
	return &folder, nil
}

// GetFolder returns a folder with its tasks decorated
func (s *FolderService) GetFolder(ctx context.Context, userID, folderID uuid.UUID) (*entities.Folder, error) {
	data, err := s.dataRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	folder := data.FolderByID(folderID)
	if folder == nil {
		return nil, entities.ErrFolderNotFound
	}

	decorated := *folder
	decorated.Tasks = folder.DecoratedFolderTasks()
	return &decorated, nil
}

// ListFolders returns every folder with decorated tasks
func (s *FolderService) ListFolders(ctx context.Context, userID uuid.UUID) ([]entities.Folder, error) {
	data, err := s.dataRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	folders := make([]entities.Folder, len(data.Folders))
	for i := range data.Folders {
		folders[i] = data.Folders[i]
		folders[i].Tasks = data.Folders[i].DecoratedFolderTasks()
	}
	return folders, nil
}

// AllTasks flattens every folder's tasks, decorated with folder information
func (s *FolderService) AllTasks(ctx context.Context, userID uuid.UUID) ([]entities.Task, error) {
	data, err := s.dataRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return data.AllFolderTasks(), nil
}

// RenameFolder renames the folder and cascades the new name onto every task
// copy carrying the folder's id
func (s *FolderService) RenameFolder(ctx context.Context, userID, folderID uuid.UUID, req ports.RenameFolderRequest) (*entities.Folder, error) {
	var folder entities.Folder
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		renamed, err := d.RenameFolder(folderID, req.Name)
		if err != nil {
			return false, err
		}
		folder = *renamed
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Folder renamed", "user_id", userID, "folder_id", folderID, "name", req.Name)
	return &folder, nil
}

// DeleteFolder deletes the folder and every copy of its tasks
func (s *FolderService) DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error {
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		if err := d.DeleteFolder(folderID); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Folder deleted", "user_id", userID, "folder_id", folderID)
	return nil
}
