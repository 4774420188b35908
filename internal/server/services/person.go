// Package services contains the server-side business logic. Each service
// orchestrates the relational store and the physical content tree: rows are
// written first inside a transaction, the filesystem mutation runs last, and
// a physical entry left behind by a failed commit is removed best effort.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/crypto/bcrypt"

	"filesafe/internal/common"
	"filesafe/internal/dbx"
	"filesafe/internal/filex"
	"filesafe/internal/idgen"
	"filesafe/internal/server/auth"
	"filesafe/internal/server/config"
	"filesafe/internal/server/models"
	"filesafe/internal/server/repositories/repomanager"
)

// PersonService handles account registration, credential verification and
// account administration.
type PersonService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	storage                     *filex.Storage
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewPersonService constructs a PersonService using repositories, the content
// storage and server config.
func NewPersonService(db *sql.DB, m repomanager.RepositoryManager, storage *filex.Storage, cfg *config.Config) *PersonService {
	return &PersonService{
		db:                          db,
		repomanager:                 m,
		storage:                     storage,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new account together with its root folder row and root
// directory on disk, all or nothing. The new person gets the user role, an
// enabled account and registration/last-login timestamps set to now.
func (s *PersonService) Register(ctx context.Context, email, password string) (string, error) {
	if err := validateEmail(email); err != nil {
		return "", fmt.Errorf("%w: email %v", common.ErrInvalidRequest, err)
	}
	if err := validatePassword(password); err != nil {
		return "", fmt.Errorf("%w: password %v", common.ErrInvalidRequest, err)
	}

	// The insert would fail on the unique constraint anyway; the pre-check
	// exists to answer the common case without burning a transaction.
	_, err := s.repomanager.Persons(s.db).GetIDByEmail(ctx, email)
	if err == nil {
		return "", fmt.Errorf("%w: email already registered", common.ErrAlreadyExists)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return "", err
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: hashing password: %v", common.ErrInternal, err)
	}

	personID := idgen.New()
	now := time.Now()

	var dirPath string
	var dirCreated bool
	txErr := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Persons(tx).Create(ctx, &models.Person{
			ID:           personID,
			Email:        email,
			Password:     string(digest),
			RoleID:       common.RoleIDUser,
			RegisteredOn: now,
			LastLogin:    now,
		}); err != nil {
			return err
		}
		root := rootFolderFor(s.storage, personID, now)
		if err := s.repomanager.Folders(tx).Create(ctx, root); err != nil {
			return err
		}
		dirPath, err = s.storage.CreateDir(s.storage.Root(), personID)
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
	return personID, nil
}

// Login verifies the credentials, refreshes the last-login timestamp and
// returns a signed access token. A missing account, a disabled account and a
// wrong password all yield ErrUnauthorized.
func (s *PersonService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Persons(s.db)
	person, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}
	if person.Disabled {
		return "", common.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(person.Password), []byte(password)) != nil {
		return "", common.ErrUnauthorized
	}
	if err := repo.TouchLastLogin(ctx, person.ID); err != nil {
		return "", err
	}
	token, err := auth.GenerateToken(person.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: signing token: %v", common.ErrInternal, err)
	}
	return token, nil
}

// Get returns one account by its identifier.
func (s *PersonService) Get(ctx context.Context, personID string) (*models.Person, error) {
	return s.repomanager.Persons(s.db).GetByID(ctx, personID)
}

// List returns all accounts ordered by registration time.
func (s *PersonService) List(ctx context.Context) ([]*models.Person, error) {
	return s.repomanager.Persons(s.db).List(ctx)
}

// Update applies a partial account update. A set password is validated and
// stored as a bcrypt digest; a set email is validated. Updating an unknown
// identifier is not an error.
func (s *PersonService) Update(ctx context.Context, personID string, upd models.PersonUpdate) error {
	if upd.Empty() {
		return fmt.Errorf("%w: no fields to update", common.ErrInvalidRequest)
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return fmt.Errorf("%w: email %v", common.ErrInvalidRequest, err)
		}
	}
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return fmt.Errorf("%w: password %v", common.ErrInvalidRequest, err)
		}
		digest, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("%w: hashing password: %v", common.ErrInternal, err)
		}
		hashed := string(digest)
		upd.Password = &hashed
	}
	_, err := s.repomanager.Persons(s.db).Update(ctx, personID, upd)
	return err
}

// rootFolderFor builds the root folder row of a person: no parent, named
// after the person, pathed directly under the storage root.
func rootFolderFor(storage *filex.Storage, personID string, now time.Time) *models.Folder {
	return &models.Folder{
		ID:        idgen.New(),
		PersonID:  personID,
		Name:      personID,
		Path:      filepath.Join(storage.Root(), personID),
		CreatedOn: now,
	}
}
