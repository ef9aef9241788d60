package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history", "runs.db")

	db, err := Open(Config{Driver: DriverSQLite, DSN: path})
	require.NoError(t, err)
	defer Close(db)

	type row struct{ ID uint }
	require.NoError(t, Migrate(db, &row{}))
	assert.FileExists(t, path)
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	db, err := Open(Config{DSN: path})
	require.NoError(t, err)
	require.NoError(t, Close(db))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mysql", DSN: "whatever"})
	assert.Error(t, err)
}
