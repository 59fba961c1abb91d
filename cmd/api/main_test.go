package main

import (
	"path/filepath"
	"testing"

	"github.com/combact-io/combact/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAPIRequiresSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := initializeAPI("nonexistent.yml")
	assert.ErrorIs(t, err, config.ErrSecretKeyMissing)
}

func TestInitializeAPIWithSQLite(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "combact.db"))

	api, err := initializeAPI("nonexistent.yml")
	require.NoError(t, err)
	require.NotNil(t, api)
	assert.NotNil(t, api.Router)
}
