package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/devsuperior/dscommerce/internal/domains/users/domain"
	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps users in memory, keyed by id.
type Repository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{users: map[int64]*domain.User{}}
}

// Save stores a user, assigning an id when it has none.
func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("cannot save nil user")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := user.Clone()
	for id, existing := range r.users {
		if id != stored.ID && strings.EqualFold(existing.Email, stored.Email) {
			return nil, errors.New("email already registered")
		}
	}
	if stored.ID == 0 {
		r.nextID++
		stored.ID = r.nextID
	}
	if stored.ID > r.nextID {
		r.nextID = stored.ID
	}
	r.users[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *Repository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *Repository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u := r.byEmail(email); u != nil {
		return u.Clone(), nil
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) SearchUserAndRolesByEmail(_ context.Context, email string) ([]domain.UserDetailsRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u := r.byEmail(email)
	if u == nil {
		return nil, nil
	}
	rows := make([]domain.UserDetailsRow, 0, len(u.Roles))
	for _, role := range u.Roles {
		rows = append(rows, domain.UserDetailsRow{
			Username:  u.Email,
			Password:  u.Password,
			RoleID:    role.ID,
			Authority: role.Authority,
		})
	}
	return rows, nil
}

func (r *Repository) byEmail(email string) *domain.User {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}
