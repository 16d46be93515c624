// Package db provides embedded database schema and seed files.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedData contains the demo restaurants, menus, and accounts loaded by
// cmd/seed-db.
//
//go:embed seed/marketplace.json
var SeedData []byte
