package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dayflow/core/internal/domain/entities"
	"github.com/dayflow/core/internal/infrastructure/database"
	"github.com/dayflow/core/internal/ports"
)

// RegistrationStoreImpl creates the account row and its task aggregate in
// one transaction. Either both rows exist afterwards or neither does.
type RegistrationStoreImpl struct {
	db *database.DB
}

// NewRegistrationStore creates a new registration store
func NewRegistrationStore(db *database.DB) ports.RegistrationStore {
	return &RegistrationStoreImpl{db: db}
}

func (s *RegistrationStoreImpl) Register(ctx context.Context, user *entities.User, data *entities.TaskData) error {
	return s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		return insertTaskData(ctx, tx, data)
	})
}
