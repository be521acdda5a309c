package config

import (
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutEnvStore(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := Load()
	require.NoError(t, err)
	require.Equal(t, "g6_", s.DBTablePrefix)
	require.Equal(t, 3306, s.DBPort)
	require.Equal(t, "session", s.SessionCookieName)
	require.Equal(t, "Asia/Seoul", s.TimeZone)
	require.Equal(t, "8000", s.ServerPort)
	require.True(t, s.IsResponsive)
	require.False(t, Installed())
}

func TestLoadReadsEnvStore(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, WriteEnvStore(map[string]string{
		"DB_ENGINE":          "sqlite",
		"DB_NAME":            "board.db",
		"SESSION_SECRET_KEY": "s3cret",
	}))
	require.True(t, Installed())

	s, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", s.DBEngine)
	require.Equal(t, "board.db", s.DBName)
	require.Equal(t, "s3cret", s.SessionSecretKey)
}

func TestWriteEnvStoreMerges(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, WriteEnvStore(map[string]string{"DB_ENGINE": "sqlite", "DB_NAME": "a.db"}))
	require.NoError(t, WriteEnvStore(map[string]string{"DB_NAME": "b.db"}))

	// godotenv.Load mutates the process environment, so inspect the store
	// file directly.
	stored, err := godotenv.Read(EnvPath)
	require.NoError(t, err)
	require.Equal(t, "sqlite", stored["DB_ENGINE"])
	require.Equal(t, "b.db", stored["DB_NAME"])
}

func TestRemoveEnvStore(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, WriteEnvStore(map[string]string{"DB_ENGINE": "sqlite"}))
	require.True(t, Installed())

	require.NoError(t, RemoveEnvStore())
	require.False(t, Installed())

	// Removing twice is fine.
	require.NoError(t, RemoveEnvStore())
}

func TestCORSSettings(t *testing.T) {
	s := &Settings{
		CORSAllowOrigins:     "https://a.example, https://b.example",
		CORSAllowMethods:     "*",
		CORSAllowHeaders:     "Authorization,Content-Type",
		CORSAllowCredentials: true,
	}

	require.Equal(t, []string{"https://a.example", "https://b.example"}, s.CORSOrigins())
	require.Equal(t, []string{"*"}, s.CORSMethods())
	require.Equal(t, []string{"Authorization", "Content-Type"}, s.CORSHeaders())
	require.True(t, s.CORSCredentials())

	// Credentials with a wildcard origin is downgraded.
	s.CORSAllowOrigins = "*"
	require.False(t, s.CORSCredentials())
}
