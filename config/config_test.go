package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Server.Port)
	assert.Equal(t, "bitemebuddy.db", cfg.Database.URL)
	assert.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, "Asia/Kolkata", cfg.App.Timezone)
	assert.False(t, cfg.App.StrictOrderTransitions)
	assert.False(t, cfg.Cloudinary.Enabled())
}

func TestLoadRewritesPostgresScheme(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/bitebuddy")
	t.Setenv("ORDER_STRICT_TRANSITIONS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://u:p@localhost:5432/bitebuddy", cfg.Database.URL)
	assert.True(t, cfg.App.StrictOrderTransitions)
}

func TestLoadRequiresURLForServerDatabases(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		d, err := Dialector(DatabaseConfig{Driver: driver, URL: "x"})
		require.NoError(t, err)
		assert.NotNil(t, d)
	}
	_, err := Dialector(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInitDBSqlite(t *testing.T) {
	db, err := InitDB(DatabaseConfig{Driver: "sqlite", URL: "file::memory:", MaxOpen: 1, MaxIdle: 1})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, db.NowFunc().Location())
}
