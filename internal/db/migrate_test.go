package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"subjects", "obligations", "calendar_entries", "study_blocks"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_obligations_due",
		"idx_calendar_entries_date",
		"idx_calendar_entries_subject",
		"idx_study_blocks_date",
		"idx_study_blocks_obligation",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_WeightCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO obligations (id, title, due_date, weight, created_at, updated_at)
		VALUES ('o1', 'Parcial', '2026-02-12', 120, 'now', 'now')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO obligations (id, title, due_date, weight, created_at, updated_at)
		VALUES ('o2', 'Parcial', '2026-02-12', NULL, 'now', 'now')`)
	assert.NoError(t, err)
}

func TestMigrate_StudyBlocksCascadeOnObligationDelete(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO obligations (id, title, due_date, created_at, updated_at)
		VALUES ('o1', 'Parcial', '2026-02-12', 'now', 'now')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO study_blocks (id, assignment_id, obligation_id, date, start_time, end_time, title, created_at)
		VALUES ('b1', 1, 'o1', '2026-02-10', '08:00', '10:00', 'Study', 'now')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM obligations WHERE id = 'o1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM study_blocks`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_ExternalKeyUnique(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO calendar_entries (id, title, date, external_key, created_at, updated_at)
		VALUES (?, 'Clase', '2026-02-10', ?, 'now', 'now')`
	_, err := db.Exec(insert, "e1", "uid@1")
	require.NoError(t, err)
	_, err = db.Exec(insert, "e2", "uid@1")
	assert.Error(t, err)

	// Manual entries have no key; NULLs never collide.
	_, err = db.Exec(insert, "e3", nil)
	require.NoError(t, err)
	_, err = db.Exec(insert, "e4", nil)
	assert.NoError(t, err)
}
