// Package postgres persists user accounts and sessions through GORM.
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/devsuperior/dscommerce/internal/domains/users/domain"
	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads users from the relational store. Caller manages DB lifecycle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type roleRecord struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	Authority string `gorm:"column:authority"`
}

func (roleRecord) TableName() string { return "tb_role" }

type userRecord struct {
	ID        int64        `gorm:"primaryKey;column:id"`
	Name      string       `gorm:"column:name"`
	Email     string       `gorm:"column:email"`
	Phone     string       `gorm:"column:phone"`
	BirthDate *time.Time   `gorm:"column:birth_date"`
	Password  string       `gorm:"column:password"`
	Roles     []roleRecord `gorm:"many2many:tb_user_role;joinForeignKey:UserID;joinReferences:RoleID"`
}

func (userRecord) TableName() string { return "tb_user" }

type userDetailsRecord struct {
	Username  string
	Password  string
	RoleID    int64
	Authority string
}

const searchUserAndRolesByEmail = `
SELECT tb_user.email AS username, tb_user.password, tb_role.id AS role_id, tb_role.authority
FROM tb_user
INNER JOIN tb_user_role ON tb_user.id = tb_user_role.user_id
INNER JOIN tb_role ON tb_role.id = tb_user_role.role_id
WHERE tb_user.email = ?
ORDER BY tb_role.id`

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", strings.TrimSpace(email))
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec userRecord
	err := r.db.WithContext(ctx).
		Preload("Roles", func(db *gorm.DB) *gorm.DB { return db.Order("tb_role.id") }).
		First(&rec, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

// SearchUserAndRolesByEmail runs the login projection: one row per role.
func (r *Repository) SearchUserAndRolesByEmail(ctx context.Context, email string) ([]domain.UserDetailsRow, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []userDetailsRecord
	if err := r.db.WithContext(ctx).Raw(searchUserAndRolesByEmail, strings.TrimSpace(email)).Scan(&records).Error; err != nil {
		return nil, err
	}
	rows := make([]domain.UserDetailsRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.UserDetailsRow(rec))
	}
	return rows, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("user repository not configured")
	}
	return nil
}

func (r userRecord) toDomain() *domain.User {
	u := &domain.User{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
	}
	if r.BirthDate != nil {
		u.BirthDate = *r.BirthDate
	}
	for _, role := range r.Roles {
		u.AddRole(domain.Role{ID: role.ID, Authority: role.Authority})
	}
	return u
}
