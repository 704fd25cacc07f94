package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("SQLiteMemory", func(t *testing.T) {
		db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)

		err = db.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY)").Error
		assert.NoError(t, err)
		// Same connection, table still there
		assert.True(t, db.Migrator().HasTable("probe"))
	})

	t.Run("SQLiteFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aniport.db")
		db, err := Connect(Config{Driver: "sqlite", Name: path})
		require.NoError(t, err)
		assert.NotNil(t, db)
		assert.FileExists(t, path)
	})

	t.Run("UnsupportedDriver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("InvalidMySQLConnection", func(t *testing.T) {
		cfg := Config{
			Driver:         "mysql",
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "aniport",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}
