package files

import (
	"context"

	"filesafe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) error
	ListByFolder(ctx context.Context, ownerID, folderID string) ([]*models.File, error)
}
