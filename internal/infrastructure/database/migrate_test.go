package database

import (
	"io/fs"
	"testing"

	"clinic-directory/config"
	"clinic-directory/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	got := MigrationURL(config.DBConfig{
		Host: "db", Port: "5432", User: "clinic", Password: "p@ss word", Name: "directory", SSLMode: "disable",
	})
	assert.Equal(t, "pgx5://clinic:p%40ss%20word@db:5432/directory?sslmode=disable", got)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrations.FS, "*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
