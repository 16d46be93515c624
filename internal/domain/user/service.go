package user

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
)

// Service implements account management on top of a Repository. Password
// hashing is delegated to bcrypt.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a user Service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateRestaurantUserRequest is the admin-facing input for provisioning a
// restaurant operator account.
type CreateRestaurantUserRequest struct {
	Name         string
	Email        string
	Password     string
	PhoneNumber  string
	RestaurantID string
}

// ValidationError carries a field-level message for form input rejected
// before it reaches storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// CreateRestaurantUser provisions an operator account bound to a restaurant.
// The email must be unused; the password is stored only as a bcrypt hash.
func (s *Service) CreateRestaurantUser(ctx context.Context, req CreateRestaurantUserRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	switch {
	case req.Name == "":
		return nil, &ValidationError{Field: "name", Message: "required"}
	case email == "" || !strings.Contains(email, "@"):
		return nil, &ValidationError{Field: "email", Message: "valid email required"}
	case len(req.Password) < 8:
		return nil, &ValidationError{Field: "password", Message: "at least 8 characters"}
	case req.RestaurantID == "":
		return nil, &ValidationError{Field: "restaurantId", Message: "required"}
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u := &User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleRestaurant,
		PhoneNumber:  req.PhoneNumber,
		RestaurantID: req.RestaurantID,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return u, nil
}

// Authenticate verifies an email/password pair and returns the account.
// Failures collapse into ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "get user")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID returns one account by its identifier.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of accounts for the admin users table. The role
// filter travels inside the listing query.
func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[User], error) {
	return s.repo.List(ctx, q)
}
