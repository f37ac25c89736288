package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	writeFile(t, filepath.Join(dataDir, "verdant.db"), "sqlite-bytes")
	writeFile(t, filepath.Join(dataDir, "verdant.yml"), "plant_price_micro: 1000\n")
	writeFile(t, filepath.Join(dataDir, "notes", "readme.txt"), "garden notes")

	archive := filepath.Join(t.TempDir(), "backups", "snap.tar.gz")
	require.NoError(t, Snapshot(dataDir, archive))

	restored := filepath.Join(t.TempDir(), "restored")
	require.NoError(t, Restore(archive, restored))

	src, err := Digest(dataDir)
	require.NoError(t, err)
	got, err := Digest(restored)
	require.NoError(t, err)
	assert.Equal(t, src, got)

	b, err := os.ReadFile(filepath.Join(restored, "notes", "readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, "garden notes", string(b))
}

func TestSnapshotSkipsSqliteSidecars(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	writeFile(t, filepath.Join(dataDir, "verdant.db"), "sqlite-bytes")
	writeFile(t, filepath.Join(dataDir, "verdant.db-wal"), "wal")
	writeFile(t, filepath.Join(dataDir, "verdant.db-shm"), "shm")

	archive := filepath.Join(t.TempDir(), "snap.tar.gz")
	require.NoError(t, Snapshot(dataDir, archive))

	restored := filepath.Join(t.TempDir(), "restored")
	require.NoError(t, Restore(archive, restored))

	_, err := os.Stat(filepath.Join(restored, "verdant.db"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(restored, "verdant.db-wal"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(restored, "verdant.db-shm"))
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshotRejectsMissingSource(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "snap.tar.gz")
	assert.Error(t, Snapshot(filepath.Join(t.TempDir(), "absent"), archive))
}

func TestSafeRelPath(t *testing.T) {
	_, err := safeRelPath("../evil")
	assert.Error(t, err)
	_, err = safeRelPath("/abs/path")
	assert.Error(t, err)

	got, err := safeRelPath("sub/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("sub", "file.txt"), got)
}
