package persons

import (
	"context"

	"filesafe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, person *models.Person) error
	GetByID(ctx context.Context, id string) (*models.Person, error)
	GetByEmail(ctx context.Context, email string) (*models.Person, error)
	GetIDByEmail(ctx context.Context, email string) (string, error)
	List(ctx context.Context) ([]*models.Person, error)
	Update(ctx context.Context, id string, upd models.PersonUpdate) (int64, error)
	TouchLastLogin(ctx context.Context, id string) error
}
