package bootstrap

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the user config and environment out of the test
func isolate(t *testing.T) string {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("KIFUNAV_ROOT", "")
	t.Setenv("KIFUNAV_DB", "")
	t.Setenv("KIFUNAV_LOG_LEVEL", "")
	t.Setenv("KIFUNAV_MAX_RESULTS", "")

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return root
}

func writeRecord(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{"moves":[{"move":{"from":{"file":7,"rank":7},"to":{"file":7,"rank":6},"piece":"FU","color":0}}]}`), 0644))
}

func TestLoad_Overrides(t *testing.T) {
	root := isolate(t)
	db := filepath.Join(t.TempDir(), "index.db")

	env, err := Load(Options{Root: root, DBPath: db, LogLevel: "debug", LogOutput: io.Discard})
	require.NoError(t, err)

	assert.Equal(t, root, env.Repo.Root())
	assert.Equal(t, "debug", env.Config.Log.Level)

	path, err := env.DBPath()
	require.NoError(t, err)
	assert.Equal(t, db, path)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	root := isolate(t)

	_, err := Load(Options{Root: root, LogLevel: "loud", LogOutput: io.Discard})
	assert.Error(t, err)
}

func TestDBPath_DefaultsPerLibrary(t *testing.T) {
	root := isolate(t)

	env, err := Load(Options{Root: root, LogOutput: io.Discard})
	require.NoError(t, err)

	path, err := env.DBPath()
	require.NoError(t, err)
	assert.Equal(t, ".db", filepath.Ext(path))
	assert.Contains(t, path, "kifunav")
}

func TestOpenIndex_SyncsLibrary(t *testing.T) {
	root := isolate(t)
	writeRecord(t, filepath.Join(root, "game.kifu.json"))

	env, err := Load(Options{Root: root, DBPath: filepath.Join(t.TempDir(), "index.db"), LogOutput: io.Discard})
	require.NoError(t, err)

	idx, err := env.OpenIndex()
	require.NoError(t, err)
	defer idx.Close()

	stats, err := env.Syncer(idx).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, 2, stats.PositionsAdded)
}

func TestWatch_IndexesChangedRecords(t *testing.T) {
	root := isolate(t)

	env, err := Load(Options{Root: root, DBPath: filepath.Join(t.TempDir(), "index.db"), LogOutput: io.Discard})
	require.NoError(t, err)

	idx, err := env.OpenIndex()
	require.NoError(t, err)
	defer idx.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.Watch(ctx, idx) }()
	defer func() {
		cancel()
		<-done
	}()

	// The watcher starts in the background; rewrite until the record shows up
	path := filepath.Join(root, "game.kifu.json")
	require.Eventually(t, func() bool {
		writeRecord(t, path)
		f, err := idx.GetFile(path)
		return err == nil && f != nil && f.Positions == 2
	}, 5*time.Second, 300*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		f, err := idx.GetFile(path)
		return err == nil && f == nil
	}, 5*time.Second, 50*time.Millisecond)
}
