package database

import (
	"io/fs"
	"strings"
	"testing"

	"mzansi-store/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestMigrationFilesExist(t *testing.T) {
	expectedMigrations := []string{
		"00001_create_kv_entries_table.sql",
		"00002_create_kv_entries_updated_at_index.sql",
	}

	for _, migration := range expectedMigrations {
		if _, err := fs.Stat(migrationsFS, MigrationsDir+"/"+migration); err != nil {
			t.Errorf("Migration file %s is not embedded: %v", migration, err)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := fs.ReadDir(migrationsFS, MigrationsDir)
	if err != nil {
		t.Fatalf("Failed to read embedded migrations: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := fs.ReadFile(migrationsFS, MigrationsDir+"/"+file.Name())
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)
		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestKVEntriesTableHasRequiredColumns(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, MigrationsDir+"/00001_create_kv_entries_table.sql")
	if err != nil {
		t.Fatalf("Failed to read kv_entries migration: %v", err)
	}

	contentStr := string(content)
	for _, column := range []string{
		"CREATE TABLE IF NOT EXISTS kv_entries",
		"key TEXT PRIMARY KEY",
		"value JSONB NOT NULL",
		"updated_at TIMESTAMPTZ",
		"DROP TABLE IF EXISTS kv_entries",
	} {
		if !strings.Contains(contentStr, column) {
			t.Errorf("kv_entries migration missing: %s", column)
		}
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "shop",
		Password: "p@ss",
		Database: "mzansi",
		Schema:   "public",
		SSLMode:  "disable",
	})

	assert.True(t, strings.HasPrefix(dsn, "postgres://shop:p%40ss@db:5432/mzansi?"), dsn)
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "search_path=public")
}
