// Package folders owns the folders table. It carries the relational half of
// parent resolution: mapping a physical directory path plus owner back to a
// folder row.
package folders

import (
	"context"
	"database/sql"
	"fmt"

	"filesafe/internal/dbx"
	"filesafe/internal/server/models"
)

const table = "folders"

const selectColumns = "id, person_id, name, path, parent_id, created_on"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanFolder(rows *sql.Rows) (*models.Folder, error) {
	f := &models.Folder{}
	var parentID sql.NullString
	err := rows.Scan(&f.ID, &f.PersonID, &f.Name, &f.Path, &parentID, &f.CreatedOn)
	if parentID.Valid {
		f.ParentID = &parentID.String
	}
	return f, err
}

func (r *PostgresRepository) Create(ctx context.Context, folder *models.Folder) error {
	var parentID any
	if folder.ParentID != nil {
		parentID = *folder.ParentID
	}
	return dbx.Insert(ctx, r.db, table, map[string]any{
		"id":         folder.ID,
		"person_id":  folder.PersonID,
		"name":       folder.Name,
		"path":       folder.Path,
		"parent_id":  parentID,
		"created_on": folder.CreatedOn,
	})
}

// Resolve returns the identifier of the folder matching (owner, name, path).
// Absence surfaces as common.ErrNotFound.
func (r *PostgresRepository) Resolve(ctx context.Context, ownerID, path, name string) (string, error) {
	query := fmt.Sprintf("SELECT id FROM %s WHERE name = $1 AND path = $2 AND person_id = $3", table)
	return dbx.QueryOne(ctx, r.db, query, func(rows *sql.Rows) (string, error) {
		var id string
		err := rows.Scan(&id)
		return id, err
	}, name, path, ownerID)
}

// GetPath returns the physical path of the folder owned by ownerID.
func (r *PostgresRepository) GetPath(ctx context.Context, ownerID, folderID string) (string, error) {
	query := fmt.Sprintf("SELECT path FROM %s WHERE person_id = $1 AND id = $2", table)
	return dbx.QueryOne(ctx, r.db, query, func(rows *sql.Rows) (string, error) {
		var path string
		err := rows.Scan(&path)
		return path, err
	}, ownerID, folderID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, folderID string) (*models.Folder, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE person_id = $1 AND id = $2", selectColumns, table)
	return dbx.QueryOne(ctx, r.db, query, scanFolder, ownerID, folderID)
}
