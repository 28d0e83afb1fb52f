package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/aspects/pkg/config"
)

func TestWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".aspects.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kind: TasteConfig\n"), 0o600))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	events := make(chan fsnotify.Event, 16)
	done := make(chan error, 1)

	go func() {
		done <- config.Watch(ctx, path, func(_ context.Context, evt fsnotify.Event) {
			select {
			case events <- evt:
			default:
			}
		})
	}()

	// Changes to other files in the directory are ignored.
	other := filepath.Join(dir, "other.yaml")

	require.EventuallyWithT(t, func(c *assert.CollectT) {
		assert.NoError(c, os.WriteFile(other, []byte("x"), 0o600))
		assert.NoError(c, os.WriteFile(path, []byte("kind: TasteConfig\ntastes: {}\n"), 0o600))

		select {
		case evt := <-events:
			assert.Equal(c, path, evt.Name)
		case <-time.After(100 * time.Millisecond):
			assert.Fail(c, "no event")
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	t.Parallel()

	err := config.Watch(t.Context(), filepath.Join(t.TempDir(), "missing", "tastes.yaml"),
		func(context.Context, fsnotify.Event) {})
	require.ErrorContains(t, err, "add path to watcher")
}
