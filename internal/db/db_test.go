package db

import (
	"testing"
	"yatube/internal/config"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite", ""} {
		d, err := Dialector(driver, "")
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := Dialector("oracle", "")
	assert.Error(t, err)
}

func TestWithSQLiteForeignKeys(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=on", withSQLiteForeignKeys("a.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", withSQLiteForeignKeys("file:x?mode=memory"))
	assert.Equal(t, "a.db?_fk=1", withSQLiteForeignKeys("a.db?_fk=1"))
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DatabaseURL: "file:dbtest?mode=memory&cache=shared"}
	gdb, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
}
