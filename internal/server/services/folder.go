package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"filesafe/internal/common"
	"filesafe/internal/dbx"
	"filesafe/internal/filex"
	"filesafe/internal/idgen"
	"filesafe/internal/server/models"
	"filesafe/internal/server/repositories/repomanager"
)

// FolderService creates folders inside a person's tree.
type FolderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     *filex.Storage
}

func NewFolderService(db *sql.DB, m repomanager.RepositoryManager, storage *filex.Storage) *FolderService {
	return &FolderService{db: db, repomanager: m, storage: storage}
}

// Create adds a folder named name under destination, a path relative to the
// owner's root ("" means the root itself). The destination must exist both as
// a directory on disk, checked before any relational work, and as a folder
// row of the same owner; the new row is committed before the directory is
// created, and the directory is removed again if the commit fails after it
// was made.
func (s *FolderService) Create(ctx context.Context, ownerID, name, destination string) (string, error) {
	if err := validation.Validate(name, validation.Required); err != nil {
		return "", fmt.Errorf("%w: name %v", common.ErrInvalidRequest, err)
	}

	destDir := filepath.Join(s.storage.Root(), ownerID, destination)
	if !s.storage.IsDir(destDir) {
		return "", fmt.Errorf("%w: invalid path provided: %s", common.ErrInvalidRequest, destDir)
	}
	folderID := idgen.New()
	now := time.Now()

	var dirPath string
	var dirCreated bool
	txErr := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Folders(tx)
		parentID, err := repo.Resolve(ctx, ownerID, destDir, filepath.Base(destDir))
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, &models.Folder{
			ID:        folderID,
			PersonID:  ownerID,
			Name:      name,
			Path:      filepath.Join(destDir, name),
			ParentID:  &parentID,
			CreatedOn: now,
		}); err != nil {
			return err
		}
		dirPath, err = s.storage.CreateDir(destDir, name)
		if err != nil {
			return err
		}
		dirCreated = true
		return nil
	})
	if txErr != nil {
		if dirCreated {
			_ = s.storage.Remove(dirPath)
		}
		return "", txErr
	}
	return folderID, nil
}
