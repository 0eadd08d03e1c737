package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrFolderNotFound   = errors.New("folder not found")
	ErrTaskAlreadyToday = errors.New("task already in today list")
	ErrFolderProtected  = errors.New("default folder cannot be deleted")
	ErrInvalidDayOfWeek = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrVersionConflict  = errors.New("aggregate version conflict")
	ErrEmailTaken       = errors.New("email already registered")
)

// DefaultFolderName is the name of the protected folder every new account
// starts with.
const DefaultFolderName = "Personal"

// User represents an account in the system. Task state lives in a separate
// per-user aggregate (TaskData).
type User struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	FullName        string     `json:"fullName" db:"full_name"`
	Email           string     `json:"email" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	AvatarURL       string     `json:"avatarUrl" db:"avatar_url"`
	BackgroundImage string     `json:"backgroundImage" db:"background_image"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
	LastLoginAt     *time.Time `json:"lastLoginAt" db:"last_login_at"`
}

// Task is a single to-do item. A logical task is stored as independent
// copies in up to four collections of the aggregate; all copies share the
// same ID. Folder and FolderID are denormalized from the owning folder so
// lists render without a join.
type Task struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	Done     bool       `json:"done"`
	Pin      bool       `json:"pin"`
	Folder   string     `json:"folder"`
	FolderID uuid.UUID  `json:"folderId"`
	DueDate  *time.Time `json:"dueDate"`
}

// TaskView is a task decorated for single-task responses.
type TaskView struct {
	Task
	IsTodayTask bool `json:"isTodayTask,omitempty"`
}

// Folder groups tasks. The folder at index 0 of the aggregate is the
// protected default folder.
type Folder struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Protected bool      `json:"protected"`
	Tasks     []Task    `json:"tasks"`
}

// DayBucket holds the tasks scheduled for one weekday (0=Sunday..6=Saturday).
type DayBucket struct {
	DayOfWeek int    `json:"dayOfWeek"`
	Tasks     []Task `json:"tasks"`
}

// WeekDay is one entry of the 7-day week view built by WeekView.
type WeekDay struct {
	DayOfWeek string `json:"dayOfWeek"`
	DayIndex  int    `json:"dayIndex"`
	Tasks     []Task `json:"tasks"`
}

// TaskPatch is a partial update over the mutable task fields. Nil fields are
// left untouched.
type TaskPatch struct {
	Title   *string
	DueDate *time.Time
	Done    *bool
	Pin     *bool
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.DueDate == nil && p.Done == nil && p.Pin == nil
}

// TaskData is the aggregate root holding all task state for one user. It is
// loaded and saved whole; Version backs the optimistic-concurrency check in
// the repository.
type TaskData struct {
	UserID     uuid.UUID   `json:"-"`
	Folders    []Folder    `json:"folders"`
	Tasks      []Task      `json:"tasks"`
	TodayTasks []Task      `json:"todayTasks"`
	WeekTasks  []DayBucket `json:"weekTasks"`
	Version    int64       `json:"-"`
}

// NewTaskData returns the aggregate a fresh account starts with: the
// protected default folder and seven empty weekday buckets.
func NewTaskData(userID uuid.UUID) *TaskData {
	buckets := make([]DayBucket, 7)
	for i := range buckets {
		buckets[i] = DayBucket{DayOfWeek: i, Tasks: []Task{}}
	}

	return &TaskData{
		UserID: userID,
		Folders: []Folder{{
			ID:        uuid.New(),
			Name:      DefaultFolderName,
			Protected: true,
			Tasks:     []Task{},
		}},
		Tasks:      []Task{},
		TodayTasks: []Task{},
		WeekTasks:  buckets,
	}
}
