package folders

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"filesafe/internal/common"
	"filesafe/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_RootFolderStoresNullParent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `^INSERT INTO folders \(created_on, id, name, parent_id, path, person_id\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)$`
	mock.ExpectExec(q).
		WithArgs(now, "f-1", "p-1", nil, "/srv/safe/p-1", "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Folder{
		ID: "f-1", PersonID: "p-1", Name: "p-1", Path: "/srv/safe/p-1", CreatedOn: now,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_ChildFolderStoresParentID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	parent := "f-1"
	mock.ExpectExec(`INSERT INTO folders`).
		WithArgs(now, "f-2", "Docs", "f-1", "/srv/safe/p-1/Docs", "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Folder{
		ID: "f-2", PersonID: "p-1", Name: "Docs", Path: "/srv/safe/p-1/Docs",
		ParentID: &parent, CreatedOn: now,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestCreate_DuplicateOwnerPath(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO folders`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "folders_person_id_path_key"})

	err := repo.Create(context.Background(), &models.Folder{ID: "f-2", PersonID: "p-1", Path: "/srv/safe/p-1/Docs"})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestResolve_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT id FROM folders WHERE name = \$1 AND path = \$2 AND person_id = \$3$`).
		WithArgs("Docs", "/srv/safe/p-1/Docs", "p-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("f-2"))

	got, err := repo.Resolve(context.Background(), "p-1", "/srv/safe/p-1/Docs", "Docs")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != "f-2" {
		t.Fatalf("unexpected id: %s", got)
	}
}

func TestResolve_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM folders`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Resolve(context.Background(), "p-1", "/srv/safe/p-1/ghost", "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestGetPath_ScopedToOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT path FROM folders WHERE person_id = \$1 AND id = \$2$`).
		WithArgs("p-1", "f-2").
		WillReturnRows(sqlmock.NewRows([]string{"path"}).AddRow("/srv/safe/p-1/Docs"))

	got, err := repo.GetPath(context.Background(), "p-1", "f-2")
	if err != nil {
		t.Fatalf("GetPath error: %v", err)
	}
	if got != "/srv/safe/p-1/Docs" {
		t.Fatalf("unexpected path: %s", got)
	}
}

func TestGetByID_DecodesNullParent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "person_id", "name", "path", "parent_id", "created_on"}).
		AddRow("f-1", "p-1", "p-1", "/srv/safe/p-1", nil, now)
	mock.ExpectQuery(`SELECT id, person_id, name, path, parent_id, created_on FROM folders`).
		WithArgs("p-1", "f-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "p-1", "f-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if !got.IsRoot() {
		t.Fatalf("expected root folder, got parent %v", got.ParentID)
	}
}
