package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suppliers-be/migrations"
)

func TestRunMigrations_UsesEmbeddedDir(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)
}

func TestRunMigrations_WrapsError(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return errors.New("boom")
	}

	err := RunMigrations(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run migrations: boom")
}

func TestEmbeddedMigrations_DeclareUniqueConstraints(t *testing.T) {
	users, err := fs.ReadFile(migrations.FS, "00001_create_users_table.sql")
	require.NoError(t, err)
	assert.Contains(t, string(users), "CONSTRAINT users_email_key UNIQUE (email)")

	suppliers, err := fs.ReadFile(migrations.FS, "00002_create_suppliers_table.sql")
	require.NoError(t, err)
	assert.Contains(t, string(suppliers), "CONSTRAINT suppliers_email_key UNIQUE (email)")
	assert.Contains(t, string(suppliers), "CONSTRAINT suppliers_phone_key UNIQUE (phone)")
}
