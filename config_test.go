package outlit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg, err := Config{PublicKey: "pk_test"}.withDefaults()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIHost, cfg.APIHost)
	assert.Equal(t, DefaultFlushInterval, cfg.FlushInterval)
	assert.Equal(t, DefaultMaxBatchSize, cfg.MaxBatchSize)
	assert.Equal(t, DefaultMaxBufferSize, cfg.MaxBufferSize)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.NotNil(t, cfg.Adapters.Storage)
	assert.NotNil(t, cfg.Adapters.FallbackStorage)
	assert.NotNil(t, cfg.Adapters.Logger)
}

func TestConfig_RequiresPublicKey(t *testing.T) {
	_, err := Config{}.withDefaults()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "PublicKey", cfgErr.Field)
}

func TestConfig_BufferNeverSmallerThanBatch(t *testing.T) {
	cfg, err := Config{PublicKey: "pk_test", MaxBatchSize: 5000}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.MaxBufferSize, "buffer cap grows to fit the batch trigger")

	cfg, err = Config{PublicKey: "pk_test", MaxBatchSize: 10, MaxBufferSize: 3}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxBufferSize)
}

func TestConfig_ExplicitValuesKept(t *testing.T) {
	in := Config{
		PublicKey:     "pk_test",
		APIHost:       "https://collect.example.com",
		FlushInterval: time.Minute,
		MaxBatchSize:  50,
		Timeout:       time.Second,
	}
	cfg, err := in.withDefaults()
	require.NoError(t, err)

	assert.Equal(t, "https://collect.example.com", cfg.APIHost)
	assert.Equal(t, time.Minute, cfg.FlushInterval)
	assert.Equal(t, 50, cfg.MaxBatchSize)
	assert.Equal(t, time.Second, cfg.Timeout)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlit.yaml")
	content := []byte(`
public_key: pk_live_abc
api_host: https://collect.example.com
flush_interval: 30s
max_batch_size: 250
timeout: 5s
auto_track: false
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "pk_live_abc", cfg.PublicKey)
	assert.Equal(t, "https://collect.example.com", cfg.APIHost)
	assert.Equal(t, 30*time.Second, cfg.FlushInterval)
	assert.Equal(t, 250, cfg.MaxBatchSize)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	require.NotNil(t, cfg.AutoTrack)
	assert.False(t, *cfg.AutoTrack)
}

func TestLoadConfig_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("public_key: pk\nflush_interval: soon\n"), 0o644))

	_, err := LoadConfig(path)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "flush_interval", cfgErr.Field)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
