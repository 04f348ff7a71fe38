package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add region table", "add_region_table"},
		{"Add-Region-Table", "add_region_table"},
		{"ADD_REGION_TABLE", "add_region_table"},
		{"add__region__table", "add_region_table"},
		{"Add Region 123", "add_region_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sqlite"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sqlite", "000001_create_location_tables.up.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sqlite", "000001_create_location_tables.down.sql"), []byte("--"), 0o644))

	created, err := CreateMigration(root, "Add region table", "Regions group countries")
	require.NoError(t, err)
	require.Len(t, created, len(Drivers))

	for _, mf := range created {
		assert.Equal(t, "000002", mf.Version, "versions continue after the highest existing one")
		assert.Equal(t, filepath.Join(root, mf.Driver, "000002_add_region_table.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(root, mf.Driver, "000002_add_region_table.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), mf.Driver+" migration 000002: Add region table")
		assert.Contains(t, string(up), "-- Regions group countries")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), mf.Driver+" rollback 000002")
	}

	names, err := listDir(os.DirFS(filepath.Join(root, "postgres")))
	require.NoError(t, err)
	assert.Equal(t, []string{"000002_add_region_table"}, names)
}

func TestCreateMigration_EmptyRoot(t *testing.T) {
	created, err := CreateMigration(t.TempDir(), "init", "")
	require.NoError(t, err)
	for _, mf := range created {
		assert.Equal(t, "000001", mf.Version)
	}
}

func TestCreateMigration_InvalidName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	require.Error(t, err)
}

func TestListMigrations_Embedded(t *testing.T) {
	for _, driver := range Drivers {
		t.Run(driver, func(t *testing.T) {
			names, err := ListMigrations(driver)
			require.NoError(t, err)
			assert.Equal(t, []string{"000001_create_location_tables"}, names)
		})
	}

	_, err := ListMigrations("mysql")
	assert.NoError(t, err, "unknown dialects have no embedded migrations")
}

func TestListDir_SortsByVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000010_c.up.sql", "000002_b.up.sql", "000002_b.down.sql", "000001_a.up.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	names, err := listDir(os.DirFS(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_a", "000002_b", "000010_c"}, names)
}

func TestListDir_MissingDirectory(t *testing.T) {
	names, err := listDir(os.DirFS(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)
	assert.Empty(t, names)
}
