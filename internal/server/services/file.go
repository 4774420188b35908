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

// FileService stores uploaded files inside a person's tree.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     *filex.Storage
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, storage *filex.Storage) *FileService {
	return &FileService{db: db, repomanager: m, storage: storage}
}

// Add records a file named name inside the owner's folder folderID and copies
// the already-uploaded bytes at srcPath into place. The folder must belong to
// the owner. The metadata row is committed before the copy is kept; the copy
// is removed again if the commit fails after it was written.
func (s *FileService) Add(ctx context.Context, ownerID, folderID, name, srcPath string, size int64, contentType string) (string, error) {
	if err := validation.Validate(name, validation.Required); err != nil {
		return "", fmt.Errorf("%w: name %v", common.ErrInvalidRequest, err)
	}
	if err := validation.Validate(folderID, validation.Required); err != nil {
		return "", fmt.Errorf("%w: folderUUID %v", common.ErrInvalidRequest, err)
	}

	fileID := idgen.New()
	now := time.Now()

	var dstPath string
	var copied bool
	txErr := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		folderPath, err := s.repomanager.Folders(tx).GetPath(ctx, ownerID, folderID)
		if err != nil {
			return err
		}
		if err := s.repomanager.Files(tx).Create(ctx, &models.File{
			ID:          fileID,
			PersonID:    ownerID,
			FolderID:    folderID,
			Name:        name,
			Path:        filepath.Join(folderPath, name),
			Size:        size,
			ContentType: contentType,
			CreatedOn:   now,
		}); err != nil {
			return err
		}
		if err := s.storage.CopyInto(folderPath, srcPath, name); err != nil {
			return err
		}
		dstPath = filepath.Join(folderPath, name)
		copied = true
		return nil
	})
	if txErr != nil {
		if copied {
			_ = s.storage.Remove(dstPath)
		}
		return "", txErr
	}
	return fileID, nil
}

// ListFolder returns the metadata of the files inside the owner's folder.
func (s *FileService) ListFolder(ctx context.Context, ownerID, folderID string) ([]*models.File, error) {
	return s.repomanager.Files(s.db).ListByFolder(ctx, ownerID, folderID)
}
