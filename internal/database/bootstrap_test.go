package database

import (
	"os"
	"testing"

	"github.com/kidchores/kidchores-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rebuildSQL(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../data/rebuild.sql")
	require.NoError(t, err)
	return string(data)
}

func TestBootstrap_FreshDatabase(t *testing.T) {
	db := openEmptyDB(t)
	seed := DefaultSeed("admin", "$2a$10$notarealhashnotarealhashnotarealhashnotarealh")

	require.NoError(t, Bootstrap(db, rebuildSQL(t), seed))

	// The built schema matches the declaration exactly.
	result, err := Verify(db, DefaultDeclaration())
	require.NoError(t, err)
	assert.True(t, result.Valid(), "discrepancies: %v", result.Discrepancies)

	// Seed data landed: categories with tasks and the parent account.
	var categories int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM categories`).Scan(&categories))
	assert.Equal(t, len(seed.Categories), categories)

	var tasks int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM tasks`).Scan(&tasks))
	assert.Greater(t, tasks, 0)

	var role string
	require.NoError(t, db.QueryRow(`SELECT usertype FROM users WHERE username = 'admin'`).Scan(&role))
	assert.Equal(t, models.RoleParent, role)
}

func TestBootstrap_RefusesNonEmptyDatabase(t *testing.T) {
	db := openEmptyDB(t)
	exec(t, db, `CREATE TABLE leftovers (id INTEGER PRIMARY KEY)`)

	err := Bootstrap(db, rebuildSQL(t), DefaultSeed("admin", "x"))
	assert.Error(t, err)

	// Nothing else was created.
	tables, err := listTables(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"leftovers"}, tables)
}
