package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "docroutes.json"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"

	// DefaultTablePath is the default route table location.
	DefaultTablePath = "build/routes.js"

	// DefaultPollInterval is the default table watch interval.
	DefaultPollInterval = "2s"

	// DefaultShutdownTimeout is the default graceful shutdown bound.
	DefaultShutdownTimeout = "30s"

	// DefaultReadHeaderTimeout is the default header read bound.
	DefaultReadHeaderTimeout = "5s"
)

// Environment variables read by ApplyEnv.
const (
	EnvAddress     = "DOCROUTES_ADDRESS"
	EnvTable       = "DOCROUTES_TABLE"
	EnvAdminSecret = "DOCROUTES_ADMIN_SECRET"
	EnvLogLevel    = "DOCROUTES_LOG_LEVEL"
)

// Config represents the complete docroutes.json configuration.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Table says where the route table comes from.
	Table TableConfig `json:"table,omitempty"`

	// Resolver contains resolution options.
	Resolver ResolverConfig `json:"resolver,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Admin contains admin endpoint configuration.
	Admin AdminConfig `json:"admin,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Address is the listen address.
	Address string `json:"address,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "30s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// ReadHeaderTimeout bounds reading request headers (e.g., "5s").
	ReadHeaderTimeout string `json:"readHeaderTimeout,omitempty"`
}

// TableConfig contains route table source settings.
type TableConfig struct {
	// Path is a local manifest. Relative paths resolve against the config file.
	Path string `json:"path,omitempty"`

	// S3 is a manifest object in S3. Mutually exclusive with Path.
	S3 *S3Config `json:"s3,omitempty"`

	// Format overrides the extension-derived manifest format.
	Format string `json:"format,omitempty"`

	// Watch reloads the table when the manifest changes.
	Watch bool `json:"watch,omitempty"`

	// PollInterval is the watch period (e.g., "2s").
	PollInterval string `json:"pollInterval,omitempty"`
}

// S3Config locates a manifest object.
type S3Config struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Region string `json:"region,omitempty"`
}

// ResolverConfig contains resolution options.
type ResolverConfig struct {
	// TrailingSlashFallback retries "/x" as "/x/" (and back) before falling
	// back to the wildcard.
	TrailingSlashFallback bool `json:"trailingSlashFallback,omitempty"`

	// BasePath is the site's base path, used to flag requests outside it.
	BasePath string `json:"basePath,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// AdminConfig contains admin endpoint settings.
type AdminConfig struct {
	// Secret signs admin bearer tokens. Empty leaves admin endpoints open.
	Secret string `json:"secret,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Address:           DefaultAddress,
			ShutdownTimeout:   DefaultShutdownTimeout,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
		Table: TableConfig{
			Path:         DefaultTablePath,
			PollInterval: DefaultPollInterval,
		},
		Metrics: MetricsConfig{
			Namespace: "docroutes",
		},
		Tracing: TracingConfig{
			TracerName: "docroutes",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for docroutes.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass --table to use defaults")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.ReadHeaderTimeout == "" {
		c.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}

	if c.Table.Path == "" && c.Table.S3 == nil {
		c.Table.Path = DefaultTablePath
	}
	if c.Table.PollInterval == "" {
		c.Table.PollInterval = DefaultPollInterval
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "docroutes"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "docroutes"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAddress); ok && v != "" {
		c.Server.Address = v
	}
	if v, ok := lookup(EnvTable); ok && v != "" {
		if bucket, key, ok := parseS3URL(v); ok {
			c.Table.Path = ""
			c.Table.S3 = &S3Config{Bucket: bucket, Key: key}
		} else {
			c.Table.Path = v
			c.Table.S3 = nil
		}
	}
	if v, ok := lookup(EnvAdminSecret); ok {
		c.Admin.Secret = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// parseS3URL splits "s3://bucket/key".
func parseS3URL(v string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(v, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("E120").WithDetail("server.address must not be empty")
	}

	for _, field := range []struct{ name, value string }{
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"server.readHeaderTimeout", c.Server.ReadHeaderTimeout},
		{"table.pollInterval", c.Table.PollInterval},
	} {
		name, value := field.name, field.value
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return errors.New("E120").
				WithDetail(name + " must be a positive duration, got " + quote(value)).
				WithSuggestion(`Use Go duration syntax such as "500ms" or "2s"`)
		}
	}

	switch {
	case c.Table.Path != "" && c.Table.S3 != nil:
		return errors.New("E120").WithDetail("table.path and table.s3 are mutually exclusive")
	case c.Table.Path == "" && c.Table.S3 == nil:
		return errors.New("E120").WithDetail("table.path or table.s3 is required")
	case c.Table.S3 != nil && (c.Table.S3.Bucket == "" || c.Table.S3.Key == ""):
		return errors.New("E120").WithDetail("table.s3 needs both bucket and key")
	}

	if c.Table.Format != "" {
		if _, err := routetable.ParseFormat(c.Table.Format); err != nil {
			return errors.New("E120").WithDetail("table.format: " + quote(c.Table.Format)).Wrap(err)
		}
	}

	if c.Resolver.BasePath != "" && !strings.HasPrefix(c.Resolver.BasePath, "/") {
		return errors.New("E120").WithDetail("resolver.basePath must start with /")
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("E120").WithDetail("log.level: " + err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E120").WithDetail("log.format must be text or json, got " + quote(c.Log.Format))
	}

	return nil
}

// ShutdownTimeout returns the parsed shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return mustDuration(c.Server.ShutdownTimeout, DefaultShutdownTimeout)
}

// ReadHeaderTimeout returns the parsed header read timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return mustDuration(c.Server.ReadHeaderTimeout, DefaultReadHeaderTimeout)
}

// PollInterval returns the parsed table watch interval.
func (c *Config) PollInterval() time.Duration {
	return mustDuration(c.Table.PollInterval, DefaultPollInterval)
}

// TablePath returns the manifest path resolved against the config directory.
func (c *Config) TablePath() string {
	if c.Table.Path == "" || filepath.IsAbs(c.Table.Path) {
		return c.Table.Path
	}
	return filepath.Join(c.Dir(), c.Table.Path)
}

// LogLevel returns the configured slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// mustDuration parses s, falling back to def for values Validate rejects.
func mustDuration(s, def string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(def)
	return d
}

func quote(s string) string {
	return `"` + s + `"`
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// docroutes.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E121").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
