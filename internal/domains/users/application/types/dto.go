// Package types holds the transfer representations returned by user services.
package types

import (
	"time"

	"github.com/devsuperior/dscommerce/internal/domains/users/domain"
)

type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	BirthDate time.Time `json:"birthDate"`
	Roles     []string  `json:"roles"`
}

// AccessToken is the result of a successful login.
type AccessToken struct {
	Value     string
	Type      string
	ExpiresAt time.Time
	Scope     []string
}

func FromUser(u *domain.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		BirthDate: u.BirthDate,
		Roles:     u.Authorities(),
	}
}
