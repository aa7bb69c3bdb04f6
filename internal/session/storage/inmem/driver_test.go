package inmem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver(t *testing.T) {
	driver, err := New()
	require.NoError(t, err)
	defer driver.Close()

	ctx := context.Background()

	// A missing key yields an empty string and no error
	value, err := driver.Get(ctx, "token")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, driver.Set(ctx, "token", "abc123"))
	value, err = driver.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", value)

	// Last write wins
	require.NoError(t, driver.Set(ctx, "token", "def456"))
	value, err = driver.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "def456", value)

	require.NoError(t, driver.Delete(ctx, "token"))
	value, err = driver.Get(ctx, "token")
	require.NoError(t, err)
	assert.Empty(t, value)

	// Deleting a missing key is a no-op
	require.NoError(t, driver.Delete(ctx, "token"))
}
