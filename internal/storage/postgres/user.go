package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
	"github.com/dashideliverycorporation/dashi/internal/domain/user"
)

const (
	createUserSQL = `INSERT INTO users (id, name, email, password_hash, role, phone_number, address, restaurant_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`

	userColumns = `id, name, email, password_hash, role, phone_number, address, COALESCE(restaurant_id, ''), created_at`
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

var userSortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
}

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new account. A duplicate email maps to
// user.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, createUserSQL,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role,
		u.PhoneNumber, u.Address, u.RestaurantID, u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("creating user %q: %w", u.Email, err)
	}
	return nil
}

// GetByID returns a single user by its identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail returns a single user by its email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*user.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &u, nil
}

// List returns one page of accounts, filtered by the query's role filter.
func (r *UserRepository) List(ctx context.Context, q listing.Query) (listing.Page[user.User], error) {
	where := "TRUE"
	args := []any{}
	if role := q.Filter("role"); role != "" {
		args = append(args, role)
		where += fmt.Sprintf(" AND role = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE "+where, args...).Scan(&total); err != nil {
		return listing.Page[user.User]{}, fmt.Errorf("counting users: %w", err)
	}

	sql := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
		userColumns, where,
		q.OrderBy(userSortColumns, "created_at DESC, id"),
		q.PageSize, q.Offset(),
	)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return listing.Page[user.User]{}, fmt.Errorf("listing users: %w", err)
	}

	collected, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return listing.Page[user.User]{}, fmt.Errorf("listing users: %w", err)
	}
	return listing.Page[user.User]{
		Rows:       collected,
		Pagination: listing.NewPagination(q, total),
	}, nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.PhoneNumber, &u.Address, &u.RestaurantID, &u.CreatedAt,
	)
	return u, err
}
