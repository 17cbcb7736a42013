package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  environment: test
  port: "9090"
  jwt_signing_key: secret
postgres:
  host: db
  port: "5432"
  user: u
  password: p
  db: ormeet
reminders:
  enabled: true
  interval: 2h
`

func writeConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "secret", conf.API.JWTSigningKey)
	assert.Equal(t, 2*time.Hour, conf.Reminders.Interval)
	assert.Equal(t, []int{24, 1}, conf.Reminders.LeadHours)
	assert.Equal(t, 30*time.Minute, conf.Reminders.Window)
	assert.Equal(t, 1200, conf.Storage.MaxWidth)
	assert.Equal(t, 800, conf.Storage.MaxHeight)
	assert.Empty(t, conf.Payment.UnverifiedProviders)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=ormeet sslmode=disable TimeZone=UTC", conf.Postgres.DSN())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "7070")
	t.Setenv("POSTGRES_HOST", "override")

	conf, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "7070", conf.API.Port)
	assert.Equal(t, "override", conf.Postgres.Host)
}

func TestLoad_DevelopmentTrustsManualPayments(t *testing.T) {
	t.Setenv("API_ENVIRONMENT", "development")

	conf, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"manual"}, conf.Payment.UnverifiedProviders)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
