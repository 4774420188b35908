// Package files owns the files table.
package files

import (
	"context"
	"database/sql"
	"fmt"

	"filesafe/internal/dbx"
	"filesafe/internal/server/models"
)

const table = "files"

const selectColumns = "id, person_id, folder_id, name, path, size, content_type, created_on"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanFile(rows *sql.Rows) (*models.File, error) {
	f := &models.File{}
	err := rows.Scan(&f.ID, &f.PersonID, &f.FolderID, &f.Name, &f.Path, &f.Size, &f.ContentType, &f.CreatedOn)
	return f, err
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	return dbx.Insert(ctx, r.db, table, map[string]any{
		"id":           file.ID,
		"person_id":    file.PersonID,
		"folder_id":    file.FolderID,
		"name":         file.Name,
		"path":         file.Path,
		"size":         file.Size,
		"content_type": file.ContentType,
		"created_on":   file.CreatedOn,
	})
}

func (r *PostgresRepository) ListByFolder(ctx context.Context, ownerID, folderID string) ([]*models.File, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE person_id = $1 AND folder_id = $2 ORDER BY name", selectColumns, table)
	return dbx.QueryMany(ctx, r.db, query, scanFile, ownerID, folderID)
}
