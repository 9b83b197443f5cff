package database

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "nested", "test.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count))
	return count == 1
}

func TestMigrator_EmbeddedSchema(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db, zap.NewNop())

	require.NoError(t, m.RunMigrations(EmbeddedMigrations()))
	for _, table := range []string{"users", "sessions", "students", "logbooks", "entries", "week_operations", "generated_documents"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	// second run applies nothing
	require.NoError(t, m.RunMigrations(EmbeddedMigrations()))
	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 3, applied)
}

func TestMigrator_FailedMigrationRollsBack(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db, zap.NewNop())

	fsys := fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE ok (id INTEGER);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE half (id INTEGER); NOT SQL;")},
	}
	require.Error(t, m.RunMigrations(fsys))

	assert.True(t, tableExists(t, db, "ok"))
	assert.False(t, tableExists(t, db, "half"))
}

func TestMigrator_RejectsBadNames(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db, zap.NewNop())

	err := m.RunMigrations(fstest.MapFS{"init.sql": {Data: []byte("SELECT 1;")}})
	assert.Error(t, err)

	err = m.RunMigrations(fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"001_b.sql": {Data: []byte("SELECT 1;")},
	})
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestMigrator_FromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_notes.sql"), []byte("CREATE TABLE notes (id INTEGER);"), 0644))

	db := openTestDB(t)
	require.NoError(t, NewMigrator(db, zap.NewNop()).RunMigrationsFromDir(dir))
	assert.True(t, tableExists(t, db, "notes"))
}
