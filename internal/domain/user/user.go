// Package user holds platform accounts and their roles. Passwords are only
// ever handled as bcrypt hashes outside of the create/login paths.
package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
)

// Role determines which part of the platform an account may use.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleRestaurant, RoleAdmin:
		return true
	}
	return false
}

var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when creating a user with an email that is
	// already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on a failed login. It deliberately
	// does not distinguish a missing account from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is one platform account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	Address      string    `json:"address,omitempty"`
	// RestaurantID binds a restaurant-role account to its tenant.
	RestaurantID string    `json:"restaurantId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q listing.Query) (listing.Page[User], error)
}
