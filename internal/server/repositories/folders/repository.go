package folders

import (
	"context"

	"filesafe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, folder *models.Folder) error
	Resolve(ctx context.Context, ownerID, path, name string) (string, error)
	GetPath(ctx context.Context, ownerID, folderID string) (string, error)
	GetByID(ctx context.Context, ownerID, folderID string) (*models.Folder, error)
}
