package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	base := t.TempDir()

	t.Run("relative paths resolve against base", func(t *testing.T) {
		paths, err := GetPaths(Default(), base)
		require.NoError(t, err)

		assert.Equal(t, base, paths.BaseDir)
		assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
		assert.Equal(t, filepath.Join(base, "data", "reports"), paths.ReportsDir)
	})

	t.Run("absolute paths are kept", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "exports")
		cfg := Default()
		cfg.Report.ExportDir = abs

		paths, err := GetPaths(cfg, base)
		require.NoError(t, err)
		assert.Equal(t, abs, paths.ReportsDir)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		paths, err := GetPaths(nil, base)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
	})

	t.Run("empty base uses working directory", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		paths, err := GetPaths(Default(), "")
		require.NoError(t, err)
		assert.Equal(t, wd, paths.BaseDir)
	})
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths, err := GetPaths(Default(), base)
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.LogsDir)
	assert.DirExists(t, paths.ReportsDir)

	// idempotent
	assert.NoError(t, paths.EnsureDirectories())
}

func TestPathHelperMethods(t *testing.T) {
	paths := &Paths{BaseDir: "/srv", LogsDir: "/srv/logs", ReportsDir: "/srv/reports"}

	assert.Equal(t, filepath.Join("/srv/reports", "enrollment_report.xlsx"), paths.GetExportPath("xlsx"))
	assert.Equal(t, filepath.Join("/srv/reports", "enrollment_report.csv"), paths.GetExportPath("CSV"))
	assert.Equal(t, filepath.Join("/srv/logs", "server.log"), paths.GetLogPath("server.log"))
	assert.Equal(t, filepath.Join("/srv/reports", "a.csv"), paths.GetReportPath("a.csv"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "absent.txt")))
}
