package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[server]
http_port = 9090

[database]
host = "db"
user = "smc"
password = "secret"
dbname = "scheduling"

[storage]
driver = "postgres"

[redis]
enabled = true
addr = "redis:6379"

[kafka]
enabled = true
brokers = ["kafka:9092"]

[scheduling]
max_range_days = 31
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(sampleTOML)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "scheduling.bookings", cfg.Kafka.Topic)
	assert.Equal(t, 31, cfg.Scheduling.MaxRangeDays)
	assert.Equal(t, 4, cfg.Scheduling.FanOutWorkers)
	assert.Equal(t, "UTC", cfg.Scheduling.DefaultTimezone)
	assert.Equal(t, "host=db port=5432 user=smc password=secret dbname=scheduling sslmode=disable", cfg.Database.DSN())
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("SMC_DB_HOST", "pg.internal")
	t.Setenv("SMC_DB_PASSWORD", "from-env")
	t.Setenv("SMC_REDIS_ADDR", "cache:6380")
	t.Setenv("SMC_KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SMC_HTTP_PORT", "8181")

	cfg, err := Parse(sampleTOML)
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8181, cfg.Server.HTTPPort)
}

func TestParse_BadPortEnv(t *testing.T) {
	t.Setenv("SMC_HTTP_PORT", "http")

	_, err := Parse(sampleTOML)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParse_MemoryStorageNeedsNoDatabase(t *testing.T) {
	cfg, err := Parse(`
[storage]
driver = "memory"
`)
	require.NoError(t, err)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{name: "postgres without host", toml: "[database]\ndbname = \"x\"\n"},
		{name: "unknown driver", toml: "[storage]\ndriver = \"mongo\"\n"},
		{name: "redis without addr", toml: "[storage]\ndriver = \"memory\"\n[redis]\nenabled = true\n"},
		{name: "kafka without brokers", toml: "[storage]\ndriver = \"memory\"\n[kafka]\nenabled = true\n"},
		{name: "bad timezone", toml: "[storage]\ndriver = \"memory\"\n[scheduling]\ndefault_timezone = \"Nowhere/City\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "scheduling", cfg.Database.DBName)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
