package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocloud.dev/blob"

	"cardfetch/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDirectory(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "CardImages")

	manager, err := NewManager(ctx, dir)
	require.NoError(t, err)
	defer manager.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, manager.Location())
	assert.Equal(t, filepath.Join(dir, "46986414.jpg"), manager.Path("46986414.jpg"))

	ok, err := manager.Exists(ctx, "46986414.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, manager.Save(ctx, "46986414.jpg", []byte("first")))
	require.NoError(t, manager.Save(ctx, "46986414.jpg", []byte("second")))

	content, err := os.ReadFile(filepath.Join(dir, "46986414.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), content)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp or sidecar files should remain")
	assert.Equal(t, "46986414.jpg", entries[0].Name())
}

func TestManagerDetectsExistingFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manual456.jpg"), []byte("manual"), 0644))

	manager, err := NewManager(ctx, dir)
	require.NoError(t, err)
	defer manager.Close()

	ok, err := manager.Exists(ctx, "manual456.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := manager.Read(ctx, "manual456.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("manual"), data)
}

func TestManagerDelete(t *testing.T) {
	ctx := context.Background()
	manager, err := OpenManager(ctx, "mem://")
	require.NoError(t, err)
	defer manager.Close()

	require.NoError(t, manager.Save(ctx, "1.jpg", []byte("x")))
	require.NoError(t, manager.Delete(ctx, "1.jpg"))
	require.NoError(t, manager.Delete(ctx, "1.jpg"), "deleting a missing key is a no-op")

	_, err = manager.Read(ctx, "1.jpg")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNotFound))
}

func TestManagerKeysAndStreaming(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)

	manager := NewManagerWithBucket(bucket, "mem://cards")
	defer manager.Close()

	n, err := manager.SaveFrom(ctx, "2.jpg", strings.NewReader("two"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, manager.Save(ctx, "1.jpg", bytes.Repeat([]byte("a"), 10)))
	require.NoError(t, manager.Save(ctx, "notes.txt", []byte("skip")))

	keys, err := manager.Keys(ctx, ".jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.jpg", "2.jpg"}, keys)
	assert.Equal(t, "mem://cards/1.jpg", manager.Path("1.jpg"))
}

func TestOpenManagerUnknownScheme(t *testing.T) {
	_, err := OpenManager(context.Background(), "nope://bucket")
	assert.Error(t, err)
}
