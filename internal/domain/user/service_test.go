package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
)

// --- Mock repository ---

type mockUserRepo struct {
	byEmail map[string]*User
	created *User
}

func newMockUserRepo(users ...*User) *mockUserRepo {
	m := &mockUserRepo{byEmail: make(map[string]*User)}
	for _, u := range users {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	m.created = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) List(_ context.Context, q listing.Query) (listing.Page[User], error) {
	return listing.Page[User]{Pagination: listing.NewPagination(q, len(m.byEmail))}, nil
}

// --- Tests ---

func validRequest() CreateRestaurantUserRequest {
	return CreateRestaurantUserRequest{
		Name:         "Aki Tanaka",
		Email:        "aki@sushibar.example",
		Password:     "correct horse",
		PhoneNumber:  "+123456789",
		RestaurantID: "r1",
	}
}

func TestCreateRestaurantUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	u, err := svc.CreateRestaurantUser(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, RoleRestaurant, u.Role)
	assert.Equal(t, "r1", u.RestaurantID)
	assert.NotEmpty(t, u.ID)
	// Stored as a hash, never plaintext.
	assert.NotEqual(t, "correct horse", u.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse")))
}

func TestCreateRestaurantUser_NormalizesEmail(t *testing.T) {
	svc := NewService(newMockUserRepo())

	req := validRequest()
	req.Email = "  Aki@SushiBar.Example "
	u, err := svc.CreateRestaurantUser(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "aki@sushibar.example", u.Email)
}

func TestCreateRestaurantUser_Validation(t *testing.T) {
	svc := NewService(newMockUserRepo())

	tests := []struct {
		name      string
		mutate    func(*CreateRestaurantUserRequest)
		wantField string
	}{
		{"missing name", func(r *CreateRestaurantUserRequest) { r.Name = "" }, "name"},
		{"bad email", func(r *CreateRestaurantUserRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *CreateRestaurantUserRequest) { r.Password = "short" }, "password"},
		{"missing restaurant", func(r *CreateRestaurantUserRequest) { r.RestaurantID = "" }, "restaurantId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.CreateRestaurantUser(context.Background(), req)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestCreateRestaurantUser_EmailTaken(t *testing.T) {
	repo := newMockUserRepo(&User{ID: "u1", Email: "aki@sushibar.example"})
	svc := NewService(repo)

	_, err := svc.CreateRestaurantUser(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := newMockUserRepo(&User{ID: "u1", Email: "aki@sushibar.example", PasswordHash: string(hash)})
	svc := NewService(repo)

	u, err := svc.Authenticate(context.Background(), "Aki@SushiBar.Example", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = svc.Authenticate(context.Background(), "aki@sushibar.example", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
