// Package persons owns the persons table: its column mapping, decoders and
// the dynamic SET builder used by partial updates.
package persons

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"filesafe/internal/common"
	"filesafe/internal/dbx"
	"filesafe/internal/server/models"
)

const table = "persons"

const selectColumns = "id, email, password, role_id, registered_on, last_login, disabled"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPerson(rows *sql.Rows) (*models.Person, error) {
	p := &models.Person{}
	err := rows.Scan(&p.ID, &p.Email, &p.Password, &p.RoleID, &p.RegisteredOn, &p.LastLogin, &p.Disabled)
	return p, err
}

func (r *PostgresRepository) Create(ctx context.Context, person *models.Person) error {
	return dbx.Insert(ctx, r.db, table, map[string]any{
		"id":            person.ID,
		"email":         person.Email,
		"password":      person.Password,
		"role_id":       person.RoleID,
		"registered_on": person.RegisteredOn,
		"last_login":    person.LastLogin,
		"disabled":      person.Disabled,
	})
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", selectColumns, table)
	return dbx.QueryOne(ctx, r.db, query, scanPerson, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE email = $1", selectColumns, table)
	return dbx.QueryOne(ctx, r.db, query, scanPerson, email)
}

// GetIDByEmail is the single-column lookup used as a positive existence test
// during registration.
func (r *PostgresRepository) GetIDByEmail(ctx context.Context, email string) (string, error) {
	return dbx.QueryValue[string](ctx, r.db, table, "id", "email", email)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY registered_on", selectColumns, table)
	return dbx.QueryMany(ctx, r.db, query, scanPerson)
}

// Update builds a SET clause containing only the fields present in upd,
// always with positional parameters, and returns the affected-row count.
// An update with no recognized field is an invalid request.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.PersonUpdate) (int64, error) {
	if upd.Empty() {
		return 0, fmt.Errorf("%w: no fields to update", common.ErrInvalidRequest)
	}

	assignments := make([]string, 0, 4)
	args := make([]any, 0, 5)

	appendField := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Email != nil {
		appendField("email", *upd.Email)
	}
	if upd.Password != nil {
		appendField("password", *upd.Password)
	}
	if upd.RoleID != nil {
		appendField("role_id", *upd.RoleID)
	}
	if upd.Disabled != nil {
		appendField("disabled", *upd.Disabled)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		table, strings.Join(assignments, ", "), len(args))

	return dbx.Update(ctx, r.db, query, args...)
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string) error {
	query := fmt.Sprintf("UPDATE %s SET last_login = $1 WHERE id = $2", table)
	_, err := dbx.Update(ctx, r.db, query, time.Now(), id)
	return err
}
