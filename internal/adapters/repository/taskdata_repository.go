package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayflow/core/internal/domain/entities"
	"github.com/dayflow/core/internal/ports"
)

// TaskDataRepositoryImpl stores each user's task aggregate as a single JSONB
// document. The whole document is read and written per operation; the
// version column detects concurrent writers.
type TaskDataRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskDataRepository creates a new task data repository
func NewTaskDataRepository(db *sqlx.DB) ports.TaskDataRepository {
	return &TaskDataRepositoryImpl{db: db}
}

func (r *TaskDataRepositoryImpl) Create(ctx context.Context, data *entities.TaskData) error {
	return insertTaskData(ctx, r.db, data)
}

// insertTaskData runs against either the pool or a transaction.
func insertTaskData(ctx context.Context, ext sqlx.ExtContext, data *entities.TaskData) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal task data: %w", err)
	}

	query := `
		INSERT INTO task_data (user_id, doc, version)
		VALUES ($1, $2, 1)`

	if _, err := ext.ExecContext(ctx, query, data.UserID, doc); err != nil {
		return fmt.Errorf("create task data: %w", err)
	}

	data.Version = 1
	return nil
}

func (r *TaskDataRepositoryImpl) Get(ctx context.Context, userID uuid.UUID) (*entities.TaskData, error) {
	query := `SELECT doc, version FROM task_data WHERE user_id = $1`

	var row struct {
		Doc     []byte `db:"doc"`
		Version int64  `db:"version"`
	}
	err := r.db.GetContext(ctx, &row, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get task data: %w", err)
	}

	var data entities.TaskData
	if err := json.Unmarshal(row.Doc, &data); err != nil {
		return nil, fmt.Errorf("unmarshal task data: %w", err)
	}
	data.UserID = userID
	data.Version = row.Version

	return &data, nil
}

func (r *TaskDataRepositoryImpl) Save(ctx context.Context, data *entities.TaskData) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal task data: %w", err)
	}

	query := `
		UPDATE task_data
		SET doc = $2, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND version = $3`

	result, err := r.db.ExecContext(ctx, query, data.UserID, doc, data.Version)
	if err != nil {
		return fmt.Errorf("save task data: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Either the row is gone or another writer bumped the version.
		var exists bool
		check := `SELECT EXISTS (SELECT 1 FROM task_data WHERE user_id = $1)`
		if err := r.db.GetContext(ctx, &exists, check, data.UserID); err != nil {
			return fmt.Errorf("check task data existence: %w", err)
		}
		if !exists {
			return entities.ErrUserNotFound
		}
		return entities.ErrVersionConflict
	}

	data.Version++
	return nil
}
