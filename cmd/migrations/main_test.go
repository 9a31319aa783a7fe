package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_create_questions.up.sql",
		"000001_create_users.up.sql",
		"000001_create_users.down.sql",
		"notes.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	files, err := migrationFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"000001_create_users.up.sql",
		"000002_create_questions.up.sql",
	}, files, "only up migrations, in name order")
}

func TestPendingMigrations(t *testing.T) {
	files := []string{
		"000001_create_users.up.sql",
		"000002_create_questions.up.sql",
		"000003_create_votes.up.sql",
	}
	applied := map[string]bool{
		"000001_create_users.up.sql":     true,
		"000002_create_questions.up.sql": true,
	}

	assert.Equal(t, []string{"000003_create_votes.up.sql"}, pendingMigrations(files, applied))
	assert.Empty(t, pendingMigrations(nil, applied))
}
