package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dayflow/core/internal/domain/entities"
	"github.com/dayflow/core/internal/infrastructure/logger"
	"github.com/dayflow/core/internal/ports"
)

// saveAttempts bounds the load-mutate-save retries on a version conflict.
const saveAttempts = 3

// TaskService handles task operations over the per-user aggregate
type TaskService struct {
	dataRepo ports.TaskDataRepository
	tz       TimezoneResolver
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(dataRepo ports.TaskDataRepository, tz TimezoneResolver, logger *logger.Logger) *TaskService {
	return &TaskService{
		dataRepo: dataRepo,
		tz:       tz,
		logger:   logger,
	}
}

// now returns the current time in the reporting timezone for the client.
func (s *TaskService) now(ctx context.Context, clientIP string) time.Time {
	loc, err := s.tz.Resolve(ctx, clientIP)
	if err != nil {
		s.logger.Warn("Timezone resolution failed, falling back to UTC", "error", err, "ip", clientIP)
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// mutate runs fn against the freshly loaded aggregate and persists it when
// fn reports a change.
func (s *TaskService) mutate(ctx context.Context, userID uuid.UUID, fn func(*entities.TaskData) (bool, error)) error {
	return mutateData(ctx, s.dataRepo, s.logger, userID, fn)
}

// mutateData is the shared load-mutate-save loop. On a version conflict the
// whole loop is retried so a concurrent writer cannot be overwritten.
func mutateData(ctx context.Context, repo ports.TaskDataRepository, log *logger.Logger, userID uuid.UUID, fn func(*entities.TaskData) (bool, error)) error {
	for attempt := 1; ; attempt++ {
		data, err := repo.Get(ctx, userID)
		if err != nil {
			return err
		}

		dirty, err := fn(data)
		if err != nil {
			return err
		}
		if !dirty {
			return nil
		}

		err = repo.Save(ctx, data)
		if err == nil {
			return nil
		}
		if !errors.Is(err, entities.ErrVersionConflict) || attempt >= saveAttempts {
			return err
		}

		log.Warn("Task data version conflict, retrying", "user_id", userID, "attempt", attempt)
	}
}

// CreateTodayTask creates a task due today
func (s *TaskService) CreateTodayTask(ctx context.Context, userID uuid.UUID, clientIP string, req ports.CreateTaskRequest) (*entities.Task, error) {
	now := s.now(ctx, clientIP)

	var task entities.Task
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		task = d.CreateTodayTask(req.Title, now)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Today task created", "user_id", userID, "task_id", task.ID)
	return &task, nil
}

// CreatePlainTask creates a task in the flat list
func (s *TaskService) CreatePlainTask(ctx context.Context, userID uuid.UUID, clientIP string, req ports.CreateTaskRequest) (*entities.Task, error) {
	now := s.now(ctx, clientIP)

	var task entities.Task
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		task = d.CreatePlainTask(req.Title, now)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task created", "user_id", userID, "task_id", task.ID)
	return &task, nil
}

// CreateWeekdayTask creates a task for the next occurrence of a weekday
func (s *TaskService) CreateWeekdayTask(ctx context.Context, userID uuid.UUID, clientIP string, req ports.CreateWeekTaskRequest) (*entities.Task, error) {
	if req.DayOfWeek == nil {
		return nil, entities.ErrInvalidDayOfWeek
	}
	now := s.now(ctx, clientIP)

	var task entities.Task
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		created, err := d.CreateWeekdayTask(req.Title, *req.DayOfWeek, now)
		if err != nil {
			return false, err
		}
		task = created
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Weekday task created", "user_id", userID, "task_id", task.ID, "day_of_week", *req.DayOfWeek)
	return &task, nil
}

// CreateFolderTask creates a task inside a folder
func (s *TaskService) CreateFolderTask(ctx context.Context, userID, folderID uuid.UUID, clientIP string, req ports.CreateFolderTaskRequest) (*entities.Task, error) {
	now := s.now(ctx, clientIP)

	var task entities.Task
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		created, err := d.CreateFolderTask(req.Title, folderID, req.DueDate, now)
		if err != nil {
			return false, err
		}
		task = created
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Folder task created", "user_id", userID, "task_id", task.ID, "folder_id", folderID)
	return &task, nil
}

// AddTaskToToday links an existing folder task into the today list
func (s *TaskService) AddTaskToToday(ctx context.Context, userID, taskID uuid.UUID, clientIP string) (*entities.Task, error) {
	now := s.now(ctx, clientIP)

	var task entities.Task
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		added, err := d.AddTaskToToday(taskID, now)
		if err != nil {
			return false, err
		}
		task = added
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task added to today", "user_id", userID, "task_id", taskID)
	return &task, nil
}

// RemoveFromToday removes a task from the today list
func (s *TaskService) RemoveFromToday(ctx context.Context, userID, taskID uuid.UUID) error {
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		if err := d.RemoveFromToday(taskID); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Task removed from today", "user_id", userID, "task_id", taskID)
	return nil
}

// ListToday returns the tasks due today. Stale entries are trimmed from the
// aggregate and the trim is persisted.
func (s *TaskService) ListToday(ctx context.Context, userID uuid.UUID, clientIP string) ([]entities.Task, error) {
	now := s.now(ctx, clientIP)

	var tasks []entities.Task
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		var trimmed bool
		tasks, trimmed = d.TasksForToday(now)
		return trimmed, nil
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListWeek returns the 7-day window starting today
func (s *TaskService) ListWeek(ctx context.Context, userID uuid.UUID, clientIP string) ([]entities.WeekDay, error) {
	now := s.now(ctx, clientIP)

	data, err := s.dataRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return data.WeekView(now), nil
}

// GetTask returns a single task decorated with folder and today information
func (s *TaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.TaskView, error) {
	data, err := s.dataRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	view, err := data.FindTask(taskID)
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// UpdateTask applies a partial update to every copy of the task
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	patch := req.Patch()

	var task *entities.Task
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		updated, err := d.UpdateTask(taskID, patch)
		if err != nil {
			return false, err
		}
		task = updated
		return !patch.IsEmpty(), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task updated", "user_id", userID, "task_id", taskID)
	return task, nil
}

// DeleteTask removes every copy of the task
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	err := s.mutate(ctx, userID, func(d *entities.TaskData) (bool, error) {
		if err := d.DeleteTask(taskID); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Task deleted", "user_id", userID, "task_id", taskID)
	return nil
}

// SearchTasks searches task titles across all collections
func (s *TaskService) SearchTasks(ctx context.Context, userID uuid.UUID, query string) ([]entities.Task, error) {
	data, err := s.dataRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task data: %w", err)
	}

	return data.SearchTasks(query), nil
}
