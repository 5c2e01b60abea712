package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalArchiveRoundTrip(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	text := "ORDER\n\nEntitlement to service connection for tinnitus is granted."

	err = archive.Save(ctx, "A23-001234", strings.NewReader(text))
	require.NoError(t, err)

	reader, err := archive.Load(ctx, "A23-001234")
	require.NoError(t, err)
	defer reader.Close()

	loaded, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, text, string(loaded))
}

func TestLocalArchiveSaveOverwrites(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, archive.Save(ctx, "A23-002", strings.NewReader("first")))
	require.NoError(t, archive.Save(ctx, "A23-002", strings.NewReader("second")))

	reader, err := archive.Load(ctx, "A23-002")
	require.NoError(t, err)
	defer reader.Close()

	loaded, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "second", string(loaded))
}

func TestLocalArchiveLoadMissing(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	_, err = archive.Load(context.Background(), "NO-SUCH-CITATION")
	assert.Error(t, err)
}

func TestLocalArchiveDelete(t *testing.T) {
	dir := t.TempDir()
	archive, err := NewLocalArchive(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, archive.Save(ctx, "A23-003", strings.NewReader("text")))
	require.NoError(t, archive.Delete(ctx, "A23-003"))

	_, err = os.Stat(filepath.Join(dir, "A23-003.txt"))
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing decision is not an error
	assert.NoError(t, archive.Delete(ctx, "A23-003"))
}

func TestArchiveKeySanitizesCitation(t *testing.T) {
	assert.Equal(t, "Citation_Nr_1234567.txt", archiveKey(" Citation Nr/1234567 "))
}
