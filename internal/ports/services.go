package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dayflow/core/internal/domain/entities"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(tokenString string) (*Claims, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// TaskService interface for task operations. The clientIP parameter feeds
// the timezone resolver for every operation that depends on "today".
type TaskService interface {
	CreateTodayTask(ctx context.Context, userID uuid.UUID, clientIP string, req CreateTaskRequest) (*entities.Task, error)
	CreatePlainTask(ctx context.Context, userID uuid.UUID, clientIP string, req CreateTaskRequest) (*entities.Task, error)
	CreateWeekdayTask(ctx context.Context, userID uuid.UUID, clientIP string, req CreateWeekTaskRequest) (*entities.Task, error)
	CreateFolderTask(ctx context.Context, userID, folderID uuid.UUID, clientIP string, req CreateFolderTaskRequest) (*entities.Task, error)
	AddTaskToToday(ctx context.Context, userID, taskID uuid.UUID, clientIP string) (*entities.Task, error)
	RemoveFromToday(ctx context.Context, userID, taskID uuid.UUID) error
	ListToday(ctx context.Context, userID uuid.UUID, clientIP string) ([]entities.Task, error)
	ListWeek(ctx context.Context, userID uuid.UUID, clientIP string) ([]entities.WeekDay, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.TaskView, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	SearchTasks(ctx context.Context, userID uuid.UUID, query string) ([]entities.Task, error)
}

// FolderService interface for folder operations
type FolderService interface {
	CreateFolder(ctx context.Context, userID uuid.UUID, req CreateFolderRequest) (*entities.Folder, error)
	GetFolder(ctx context.Context, userID, folderID uuid.UUID) (*entities.Folder, error)
	ListFolders(ctx context.Context, userID uuid.UUID) ([]entities.Folder, error)
	AllTasks(ctx context.Context, userID uuid.UUID) ([]entities.Task, error)
	RenameFolder(ctx context.Context, userID, folderID uuid.UUID, req RenameFolderRequest) (*entities.Folder, error)
	DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	TokenType    string         `json:"tokenType"`
	ExpiresIn    int64          `json:"expiresIn"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Task related types
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required,max=500"`
}

type CreateWeekTaskRequest struct {
	Title     string `json:"title" validate:"required,max=500"`
	DayOfWeek *int   `json:"dayOfWeek" validate:"required"`
}

type CreateFolderTaskRequest struct {
	Title   string     `json:"title" validate:"required,max=500"`
	DueDate *time.Time `json:"dueDate"`
}

type AddTodayRequest struct {
	TaskID uuid.UUID `json:"taskId" validate:"required"`
}

type UpdateTaskRequest struct {
	Title   *string    `json:"title" validate:"omitempty,max=500"`
	DueDate *time.Time `json:"dueDate"`
	Done    *bool      `json:"done"`
	Pin     *bool      `json:"pin"`
}

// Patch converts the request into a domain patch.
func (r UpdateTaskRequest) Patch() entities.TaskPatch {
	return entities.TaskPatch{
		Title:   r.Title,
		DueDate: r.DueDate,
		Done:    r.Done,
		Pin:     r.Pin,
	}
}

// Folder related types
type CreateFolderRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type RenameFolderRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
