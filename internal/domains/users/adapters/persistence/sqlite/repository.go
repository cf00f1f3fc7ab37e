// Package sqlite reads user accounts and tracks sessions in the embedded SQLite store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devsuperior/dscommerce/internal/domains/users/domain"
	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

const birthDateLayout = "2006-01-02"

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type userRow struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Phone     sql.NullString `db:"phone"`
	BirthDate sql.NullString `db:"birth_date"`
	Password  string         `db:"password"`
}

type roleRow struct {
	ID        int64  `db:"id"`
	Authority string `db:"authority"`
}

type userDetailsRow struct {
	Username  string `db:"username"`
	Password  string `db:"password"`
	RoleID    int64  `db:"role_id"`
	Authority string `db:"authority"`
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, `SELECT id, name, email, phone, birth_date, password FROM tb_user WHERE id = ?`, id)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, `SELECT id, name, email, phone, birth_date, password FROM tb_user WHERE email = ?`, strings.TrimSpace(email))
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var roles []roleRow
	err = r.db.SelectContext(ctx, &roles, `SELECT r.id, r.authority FROM tb_role r
		JOIN tb_user_role ur ON ur.role_id = r.id WHERE ur.user_id = ? ORDER BY r.id`, row.ID)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:       row.ID,
		Name:     row.Name,
		Email:    row.Email,
		Phone:    row.Phone.String,
		Password: row.Password,
	}
	if row.BirthDate.Valid && row.BirthDate.String != "" {
		if birth, err := time.Parse(birthDateLayout, row.BirthDate.String); err == nil {
			user.BirthDate = birth
		}
	}
	for _, role := range roles {
		user.AddRole(domain.Role{ID: role.ID, Authority: role.Authority})
	}
	return user, nil
}

// SearchUserAndRolesByEmail runs the login projection: one row per role.
func (r *Repository) SearchUserAndRolesByEmail(ctx context.Context, email string) ([]domain.UserDetailsRow, error) {
	var records []userDetailsRow
	err := r.db.SelectContext(ctx, &records, `
		SELECT tb_user.email AS username, tb_user.password, tb_role.id AS role_id, tb_role.authority
		FROM tb_user
		INNER JOIN tb_user_role ON tb_user.id = tb_user_role.user_id
		INNER JOIN tb_role ON tb_role.id = tb_user_role.role_id
		WHERE tb_user.email = ?
		ORDER BY tb_role.id`, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	rows := make([]domain.UserDetailsRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.UserDetailsRow(rec))
	}
	return rows, nil
}
