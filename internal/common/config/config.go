package config

import (
	"os"
	"regexp"
	"time"

	"github.com/mikajoos-cmyk/pfotencard/pkg/helper"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// ConsoleConfig represents the console server configuration
	ConsoleConfig struct {
		Port    int           `yaml:"port"`
		PID     string        `yaml:"pid"`
		Logger  LoggerConfig  `yaml:"logger"`
		Backend BackendConfig `yaml:"backend"`
		Session SessionConfig `yaml:"session"`
		JWT     JWTConfig     `yaml:"jwt"`
		Preview PreviewConfig `yaml:"preview"`
		I18n    I18nConfig    `yaml:"i18n"`
		Web     WebConfig     `yaml:"web"`
		Metrics MetricsConfig `yaml:"metrics"`
		Tracing TracingConfig `yaml:"tracing"`
	}

	// BackendConfig points the console at the product backend REST API
	BackendConfig struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	}

	// SessionConfig represents the durable session storage configuration
	SessionConfig struct {
		Type   string              `yaml:"type"` // memory, redis or sqlite
		Redis  SessionRedisConfig  `yaml:"redis"`
		SQLite SessionSQLiteConfig `yaml:"sqlite"`
	}

	// SessionRedisConfig represents the Redis configuration for session storage
	SessionRedisConfig struct {
		ClusterType string        `yaml:"cluster_type"` // single, sentinel or cluster
		Addr        string        `yaml:"addr"`
		MasterName  string        `yaml:"master_name"`
		Username    string        `yaml:"username"`
		Password    string        `yaml:"password"`
		DB          int           `yaml:"db"`
		Prefix      string        `yaml:"prefix"`
		TTL         time.Duration `yaml:"ttl"`
	}

	// SessionSQLiteConfig represents the SQLite configuration for session storage
	SessionSQLiteConfig struct {
		Path string `yaml:"path"`
	}

	// JWTConfig configures the signed session cookie
	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// PreviewConfig configures the embedded preview surface synchronization
	PreviewConfig struct {
		AppURL   string             `yaml:"app_url"`  // preview application base URL for snapshot links
		Debounce time.Duration      `yaml:"debounce"` // delay between configuration edits and a push
		Relay    PreviewRelayConfig `yaml:"relay"`
	}

	// PreviewRelayConfig configures the optional cross-instance preview relay
	PreviewRelayConfig struct {
		Type        string `yaml:"type"` // none or redis
		ClusterType string `yaml:"cluster_type"`
		Addr        string `yaml:"addr"`
		MasterName  string `yaml:"master_name"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		DB          int    `yaml:"db"`
		Channel     string `yaml:"channel"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		Path string `yaml:"path"` // Path to i18n translation files
	}

	// WebConfig configures the rendered console surface
	WebConfig struct {
		TemplatesGlob string `yaml:"templates_glob"`
		StaticDir     string `yaml:"static_dir"`
	}

	// MetricsConfig represents the Prometheus metrics configuration
	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`    // whether to compress backup files
		Color      bool   `yaml:"color"`       // whether to use color in console output
		Stacktrace bool   `yaml:"stacktrace"`  // whether to include stacktrace in error logs
		TimeZone   string `yaml:"time_zone"`   // time zone for log timestamps, default is local
		TimeFormat string `yaml:"time_format"` // time format for log timestamps
	}

	// TracingConfig represents the OpenTelemetry tracing configuration
	TracingConfig struct {
		Enabled     bool    `yaml:"enabled"`
		ServiceName string  `yaml:"service_name"`
		Endpoint    string  `yaml:"endpoint"` // e.g. localhost:4317 or http://localhost:4318
		Protocol    string  `yaml:"protocol"` // grpc or http
		Insecure    bool    `yaml:"insecure"`
		SamplerRate float64 `yaml:"sampler_rate"` // 0.0~1.0
		Environment string  `yaml:"environment"`
	}
)

// LoadConfig loads configuration from a YAML file with environment variable support
func LoadConfig(filename string) (*ConsoleConfig, string, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfgPath := helper.GetCfgPath(filename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, err
	}

	// Resolve environment variables
	data = resolveEnv(data)
	var cfg ConsoleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cfgPath, err
	}

	setDefaults(&cfg)
	return &cfg, cfgPath, nil
}

// setDefaults fills in defaults after unmarshalling
func setDefaults(cfg *ConsoleConfig) {
	if cfg.Port == 0 {
		cfg.Port = 5236
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 15 * time.Second
	}
	if cfg.Session.Type == "" {
		cfg.Session.Type = "memory"
	}
	if cfg.Preview.Debounce <= 0 {
		cfg.Preview.Debounce = 100 * time.Millisecond
	}
	if cfg.JWT.Duration <= 0 {
		cfg.JWT.Duration = 24 * time.Hour
	}
}

// resolveEnv replaces environment variable placeholders in YAML content
func resolveEnv(content []byte) []byte {
	regex := regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

	return regex.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := regex.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string

		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}
