package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRunLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs", "nested")
	started := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	f, err := OpenRunLog(dir, "register_cars", started)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, filepath.Join(dir, "register_cars.20260212_213836.log"), f.Name())
	_, err = f.WriteString("line\n")
	require.NoError(t, err)
}

func TestOpenRunLog_KeepsPreviousAsOld(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)
	path := filepath.Join(dir, "register_cars.20260212_213836.log")
	require.NoError(t, os.WriteFile(path, []byte("earlier run\n"), 0644))

	f, err := OpenRunLog(dir, "register_cars", started)
	require.NoError(t, err)
	defer f.Close()

	old, err := os.ReadFile(path + ".old")
	require.NoError(t, err)
	assert.Equal(t, "earlier run\n", string(old))

	fresh, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestOpenRunLog_DirIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := OpenRunLog(blocker, "register_cars", time.Now())
	assert.ErrorContains(t, err, "error creating logs dir")
}
