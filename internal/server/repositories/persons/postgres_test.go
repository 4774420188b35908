package persons

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

func ptr[T any](v T) *T { return &v }

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `^INSERT INTO persons \(disabled, email, id, last_login, password, registered_on, role_id\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)$`
	mock.ExpectExec(q).
		WithArgs(false, "a@b.com", "p-1", now, "digest", now, common.RoleIDUser).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Person{
		ID: "p-1", Email: "a@b.com", Password: "digest", RoleID: common.RoleIDUser,
		RegisteredOn: now, LastLogin: now,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO persons`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "persons_email_key"})

	err := repo.Create(context.Background(), &models.Person{ID: "p-1", Email: "a@b.com"})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password", "role_id", "registered_on", "last_login", "disabled"}).
		AddRow("p-1", "a@b.com", "digest", common.RoleIDUser, now, now, false)
	mock.ExpectQuery(`SELECT id, email, password, role_id, registered_on, last_login, disabled FROM persons WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Email != "a@b.com" || got.RoleID != common.RoleIDUser || got.Disabled {
		t.Fatalf("unexpected person: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, email, password, role_id, registered_on, last_login, disabled FROM persons WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "role_id", "registered_on", "last_login", "disabled"}))

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestGetIDByEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT id FROM persons WHERE email = \$1$`).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p-1"))

	got, err := repo.GetIDByEmail(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("GetIDByEmail error: %v", err)
	}
	if got != "p-1" {
		t.Fatalf("unexpected id: %s", got)
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, email, password, role_id, registered_on, last_login, disabled FROM persons ORDER BY registered_on`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "role_id", "registered_on", "last_login", "disabled"}))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}

func TestUpdate_BuildsClauseFromPresentFieldsOnly(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^UPDATE persons SET email = \$1, disabled = \$2 WHERE id = \$3$`
	mock.ExpectExec(q).
		WithArgs("new@b.com", true, "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Update(context.Background(), "p-1", models.PersonUpdate{
		Email:    ptr("new@b.com"),
		Disabled: ptr(true),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("unexpected affected count: %d", affected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate_AllFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^UPDATE persons SET email = \$1, password = \$2, role_id = \$3, disabled = \$4 WHERE id = \$5$`
	mock.ExpectExec(q).
		WithArgs("new@b.com", "digest", common.RoleIDAdmin, false, "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.Update(context.Background(), "p-1", models.PersonUpdate{
		Email:    ptr("new@b.com"),
		Password: ptr("digest"),
		RoleID:   ptr(common.RoleIDAdmin),
		Disabled: ptr(false),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestUpdate_NoFields(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.Update(context.Background(), "p-1", models.PersonUpdate{})
	if !errors.Is(err, common.ErrInvalidRequest) {
		t.Fatalf("want common.ErrInvalidRequest, got %v", err)
	}
}

func TestTouchLastLogin(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE persons SET last_login = \$1 WHERE id = \$2$`).
		WithArgs(sqlmock.AnyArg(), "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.TouchLastLogin(context.Background(), "p-1"); err != nil {
		t.Fatalf("TouchLastLogin error: %v", err)
	}
}
