package deviceid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids", "device_id")

	id, err := Get(path)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	// A second call returns the persisted ID
	again, err := Get(path)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestGet_ReplacesInvalidID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")
	require.NoError(t, os.WriteFile(path, []byte("not a uuid"), 0o600))

	id, err := Get(path)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, "not a uuid", id)
}
