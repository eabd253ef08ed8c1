package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteDBRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newsbridge.db")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	require.NoError(t, DeleteDB(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteDBMissingFileIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	assert.NoError(t, DeleteDB(path))
}
