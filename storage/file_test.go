package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cap-customizer/storage"
)

func TestNewFileMissingFile(t *testing.T) {
	f, err := storage.NewFile(filepath.Join(t.TempDir(), "nonexistent.json"))
	require.NoError(t, err, "expected no error for missing file")
	_, err = f.Get(context.Background(), "anything")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFileSetAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	f, err := storage.NewFile(path)
	require.NoError(t, err)

	require.NoError(t, f.Set(ctx, "baseball-caps", []byte(`{"selectedCapId":"1","caps":{}}`)))
	require.NoError(t, f.Set(ctx, "baseball-cap-volume", []byte(`0.5`)))

	// Reload from disk.
	f2, err := storage.NewFile(path)
	require.NoError(t, err)
	got, err := f2.Get(ctx, "baseball-cap-volume")
	require.NoError(t, err)
	assert.JSONEq(t, `0.5`, string(got))
	got, err = f2.Get(ctx, "baseball-caps")
	require.NoError(t, err)
	assert.JSONEq(t, `{"selectedCapId":"1","caps":{}}`, string(got))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileRejectsInvalidJSON(t *testing.T) {
	f, err := storage.NewFile(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	assert.Error(t, f.Set(context.Background(), "k", []byte("not json")))
}

func TestFileRemove(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	f, err := storage.NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "k", []byte(`1`)))
	require.NoError(t, f.Remove(ctx, "k"))
	require.NoError(t, f.Remove(ctx, "k"))

	f2, err := storage.NewFile(path)
	require.NoError(t, err)
	_, err = f2.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNewFileCorruptStartsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, content := range map[string]string{
		"syntax":    "{oops",
		"truncated": `{"baseball-caps": {"selectedCapId":"1","caps":`,
		"not object": `[1, 2]`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			f, err := storage.NewFile(path, storage.WithLogger(zap.NewNop()))
			require.NoError(t, err)
			_, err = f.Get(ctx, "baseball-caps")
			assert.ErrorIs(t, err, storage.ErrNotFound)

			// The next write replaces the corrupt file.
			require.NoError(t, f.Set(ctx, "k", []byte(`"v"`)))
			f2, err := storage.NewFile(path)
			require.NoError(t, err)
			got, err := f2.Get(ctx, "k")
			require.NoError(t, err)
			assert.JSONEq(t, `"v"`, string(got))
		})
	}
}

func TestFileConcurrentSet(t *testing.T) {
	ctx := context.Background()
	f, err := storage.NewFile(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.Set(ctx, "k", []byte(`"v"`))
			_, _ = f.Get(ctx, "k")
		}()
	}
	wg.Wait()
}

func TestFileCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f, err := storage.NewFile(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	assert.ErrorIs(t, f.Set(ctx, "k", []byte(`1`)), context.Canceled)
}
