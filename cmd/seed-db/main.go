// Command seed-db loads the demo marketplace (restaurants, menus, accounts)
// into a PostgreSQL database. It reads the embedded seed file by default so
// a fresh deployment needs no extra assets.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/dashideliverycorporation/dashi/db"
	"github.com/dashideliverycorporation/dashi/internal/storage/postgres"
)

type seedFile struct {
	Restaurants []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		ImageURL    string `json:"imageUrl"`
		Menu        []struct {
			Name        string          `json:"name"`
			Description string          `json:"description"`
			Price       decimal.Decimal `json:"price"`
			Category    string          `json:"category"`
			ImageURL    string          `json:"imageUrl"`
			Available   bool            `json:"available"`
		} `json:"menu"`
	} `json:"restaurants"`
	Users []struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Role         string `json:"role"`
		PhoneNumber  string `json:"phoneNumber"`
		Address      string `json:"address"`
		RestaurantID string `json:"restaurantId"`
	} `json:"users"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "", "path to a seed JSON file (default: embedded demo data)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	data := db.SeedData
	if seedPath != "" {
		slog.Info("reading seed file", slog.String("path", seedPath))
		loaded, err := os.ReadFile(seedPath)
		if err != nil {
			return errors.Wrap(err, "read seed file")
		}
		data = loaded
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse seed JSON")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedRestaurants(ctx, pool, seed); err != nil {
		return errors.Wrap(err, "seed restaurants")
	}
	if err := seedUsers(ctx, pool, seed); err != nil {
		return errors.Wrap(err, "seed users")
	}
	return nil
}

const (
	upsertRestaurantSQL = `INSERT INTO restaurants (id, name, description, image_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name,
			description = EXCLUDED.description, image_url = EXCLUDED.image_url`

	upsertMenuItemSQL = `INSERT INTO menu_items (id, restaurant_id, name, description, price, category, image_url, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name,
			description = EXCLUDED.description, price = EXCLUDED.price,
			category = EXCLUDED.category, image_url = EXCLUDED.image_url,
			available = EXCLUDED.available`

	upsertUserSQL = `INSERT INTO users (id, name, email, password_hash, role, phone_number, address, restaurant_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash, role = EXCLUDED.role,
			phone_number = EXCLUDED.phone_number, address = EXCLUDED.address,
			restaurant_id = EXCLUDED.restaurant_id`
)

func seedRestaurants(ctx context.Context, pool *pgxpool.Pool, seed seedFile) error {
	slog.Info("upserting restaurants", slog.Int("count", len(seed.Restaurants)))

	for _, r := range seed.Restaurants {
		if _, err := pool.Exec(ctx, upsertRestaurantSQL, r.ID, r.Name, r.Description, r.ImageURL); err != nil {
			return errors.Wrapf(err, "upsert restaurant %s", r.Name)
		}

		for _, item := range r.Menu {
			// Deterministic IDs so re-running the seed updates rather
			// than duplicates.
			id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(r.ID+"/"+item.Name)).String()
			if _, err := pool.Exec(ctx, upsertMenuItemSQL,
				id, r.ID, item.Name, item.Description, item.Price,
				item.Category, item.ImageURL, item.Available,
			); err != nil {
				return errors.Wrapf(err, "upsert menu item %s", item.Name)
			}
		}

		slog.Info("upserted restaurant", slog.String("id", r.ID), slog.String("name", r.Name), slog.Int("menu_items", len(r.Menu)))
	}
	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, seed seedFile) error {
	slog.Info("upserting users", slog.Int("count", len(seed.Users)))

	for _, u := range seed.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrapf(err, "hash password for %s", u.Email)
		}

		if _, err := pool.Exec(ctx, upsertUserSQL,
			uuid.New().String(), u.Name, u.Email, string(hash), u.Role,
			u.PhoneNumber, u.Address, u.RestaurantID, time.Now().UTC(),
		); err != nil {
			return errors.Wrapf(err, "upsert user %s", u.Email)
		}

		slog.Info("upserted user", slog.String("email", u.Email), slog.String("role", u.Role))
	}
	return nil
}
