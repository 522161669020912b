package outlit

import (
	"os"
	"time"

	"github.com/outlit/outlit-go/adapters"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIHost is the production collection host.
	DefaultAPIHost = "https://app.outlit.ai"

	// DefaultFlushInterval between periodic flushes.
	DefaultFlushInterval = 10 * time.Second

	// DefaultMaxBatchSize triggers a flush when the buffer reaches it.
	DefaultMaxBatchSize = 100

	// DefaultMaxBufferSize caps the buffer during sustained delivery
	// failure; the oldest events are dropped beyond it.
	DefaultMaxBufferSize = 1000

	// DefaultTimeout for a single delivery request.
	DefaultTimeout = 10 * time.Second

	// DefaultStatePath is where the file storage adapter keeps consent and
	// visitor state.
	DefaultStatePath = "outlit_state.json"
)

// Config configures an Outlit client.
type Config struct {
	// PublicKey is the project's public ingest key. Required.
	PublicKey string

	// APIHost overrides the collection host.
	APIHost string

	FlushInterval time.Duration
	MaxBatchSize  int
	MaxBufferSize int
	Timeout       time.Duration

	// AutoTrack is the default-enabled flag. A persisted consent decision
	// always overrides it. Defaults to true.
	AutoTrack *bool

	// Automatic capture toggles. All default to true.
	TrackPageviews      *bool
	TrackForms          *bool
	TrackCalendarEmbeds *bool
	TrackEngagement     *bool

	// AutoIdentify re-emits an identify event for a stored user on enable.
	AutoIdentify bool

	// FormFieldDenylist extends the built-in sensitive field names dropped
	// from captured form submissions.
	FormFieldDenylist []string

	Adapters struct {
		// Storage is the primary state backend. Defaults to file storage
		// at DefaultStatePath.
		Storage adapters.StorageAdapter
		// FallbackStorage duplicates consent/identity writes so either
		// backend surviving is enough. Defaults to in-memory storage.
		FallbackStorage adapters.StorageAdapter
		Logger          adapters.LoggerAdapter
	}
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// withDefaults validates the config and fills unset fields.
func (c Config) withDefaults() (Config, error) {
	if c.PublicKey == "" {
		return c, &ConfigError{Field: "PublicKey", Reason: "cannot be empty"}
	}
	if c.APIHost == "" {
		c.APIHost = DefaultAPIHost
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.MaxBufferSize <= 0 {
		c.MaxBufferSize = DefaultMaxBufferSize
	}
	if c.MaxBufferSize < c.MaxBatchSize {
		c.MaxBufferSize = c.MaxBatchSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Adapters.Storage == nil {
		c.Adapters.Storage = adapters.NewFileStorageAdapter(DefaultStatePath)
	}
	if c.Adapters.FallbackStorage == nil {
		c.Adapters.FallbackStorage = adapters.NewMemoryStorageAdapter()
	}
	if c.Adapters.Logger == nil {
		c.Adapters.Logger = adapters.NewPrintLoggerAdapter(adapters.LogLevelWarn)
	}
	return c, nil
}

type configFile struct {
	PublicKey     string `yaml:"public_key"`
	APIHost       string `yaml:"api_host"`
	FlushInterval string `yaml:"flush_interval"`
	MaxBatchSize  int    `yaml:"max_batch_size"`
	MaxBufferSize int    `yaml:"max_buffer_size"`
	Timeout       string `yaml:"timeout"`
	AutoTrack     *bool  `yaml:"auto_track"`
	StatePath     string `yaml:"state_path"`
}

// LoadConfig reads a YAML config file for server deployments.
//
// Durations use Go syntax ("10s", "1m"). Unset fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, err
	}

	cfg.PublicKey = file.PublicKey
	cfg.APIHost = file.APIHost
	cfg.MaxBatchSize = file.MaxBatchSize
	cfg.MaxBufferSize = file.MaxBufferSize
	cfg.AutoTrack = file.AutoTrack

	if file.FlushInterval != "" {
		d, err := time.ParseDuration(file.FlushInterval)
		if err != nil {
			return cfg, &ConfigError{Field: "flush_interval", Reason: err.Error()}
		}
		cfg.FlushInterval = d
	}
	if file.Timeout != "" {
		d, err := time.ParseDuration(file.Timeout)
		if err != nil {
			return cfg, &ConfigError{Field: "timeout", Reason: err.Error()}
		}
		cfg.Timeout = d
	}
	if file.StatePath != "" {
		cfg.Adapters.Storage = adapters.NewFileStorageAdapter(file.StatePath)
	}

	return cfg, nil
}
