package staging

import (
	"context"
	"strings"
	"testing"

	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageAndRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	stager := NewStager(fs, "/uploads", nil)

	staged, err := stager.Stage(context.Background(), "Contacts.CSV", strings.NewReader("firstName,phone\n"), 1024)
	require.NoError(t, err)
	assert.Equal(t, int64(len("firstName,phone\n")), staged.Size)
	assert.True(t, strings.HasSuffix(staged.Path, ".csv"))

	exists, err := afero.Exists(fs, staged.Path)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, stager.Remove(context.Background(), staged))
	exists, err = afero.Exists(fs, staged.Path)
	require.NoError(t, err)
	assert.False(t, exists)

	// removing twice is not an error
	require.NoError(t, stager.Remove(context.Background(), staged))
}

func TestStageRejectsOversizedBody(t *testing.T) {
	fs := afero.NewMemMapFs()
	stager := NewStager(fs, "/uploads", nil)

	_, err := stager.Stage(context.Background(), "big.csv", strings.NewReader(strings.Repeat("x", 11)), 10)
	require.ErrorIs(t, err, domainerrors.ErrFileTooLarge)

	entries, err := afero.ReadDir(fs, "/uploads")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
