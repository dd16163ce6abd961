package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cap-customizer/storage"
)

func TestWatchReportsWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "store.json")
	ctx, cancel := context.WithCancel(context.Background())

	changes := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- storage.Watch(ctx, path, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}()

	f, err := storage.NewFile(path)
	require.NoError(t, err)

	// The watcher registers asynchronously; keep writing until it reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case <-changes:
			break loop
		case <-tick.C:
			require.NoError(t, f.Set(context.Background(), "k", []byte(`1`)))
		case <-deadline:
			t.Fatal("no change reported")
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
