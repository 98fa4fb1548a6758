package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fridgyapp/fridgy-backend/pkg/migrate"
)

func TestInitialSchemaMigrationContainsTables(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_initial_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no initial schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE household_role AS ENUM",
		"CREATE TYPE notification_type AS ENUM",
		"CREATE TYPE size_unit AS ENUM",
		"CREATE TABLE users",
		"CREATE TABLE user_profiles",
		"CREATE TABLE households",
		"CREATE TABLE household_members",
		"CREATE TABLE fridges",
		"CREATE TABLE categories",
		"CREATE TABLE products",
		"CREATE TABLE items",
		"CREATE TABLE invite_codes",
		"CREATE TABLE shopping_list",
		"CREATE TABLE fcm_tokens",
		"CREATE TABLE notifications",
		"CREATE INDEX idx_products_search_tokens ON products USING gin (search_tokens)",
		"CONSTRAINT idx_notifications_event_user UNIQUE (event_id, user_id)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir returned error: %v", err)
	}
}
