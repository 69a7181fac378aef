package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, PaymentsLocal, cfg.Payments.Provider)
	assert.Equal(t, "INR", cfg.Payments.Currency)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[storage]
driver = "postgres"

[database]
host = "db"
user = "booking"
dbname = "bookings"

[payments]
currency = "USD"
`)

	t.Setenv("BOOKING_DATABASE_PASSWORD", "s3cret")
	t.Setenv("BOOKING_SERVER_HTTP_PORT", "9191")
	t.Setenv("BOOKING_ADDRESS_SERVICE_URL", "http://address:8080")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.HTTPPort)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "USD", cfg.Payments.Currency)
	assert.Equal(t, "http://address:8080", cfg.AddressService.URL)
	assert.Equal(t, "postgres://booking:s3cret@db:5432/bookings?sslmode=disable", cfg.Database.DSN())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown storage", content: "[storage]\ndriver = \"mongo\""},
		{name: "stripe without key", content: "[payments]\nprovider = \"stripe\""},
		{name: "bad log level", content: "[logs]\nlevel = \"verbose\""},
		{name: "events without url", content: "[events]\nenabled = true"},
		{name: "malformed toml", content: "[server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_PostgresRequiresHost(t *testing.T) {
	_, err := Load(writeConfig(t, "[storage]\ndriver = \"postgres\"\n[database]\nhost = \"\""))
	assert.Error(t, err)
}
