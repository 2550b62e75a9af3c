package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reactive/internal/errors"
)

const (
	// DefaultPort is the default state server port.
	DefaultPort = 7070

	// DefaultHost is the default state server host.
	DefaultHost = "localhost"

	// DefaultWatchBuffer is the default number of snapshots queued per
	// watcher before older ones are dropped.
	DefaultWatchBuffer = 16

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "REACTIVE_"
)

// FileNames are the configuration files Load looks for, in order.
var FileNames = []string{"reactive.json", "reactive.yaml", "reactive.yml"}

// Config is the complete reactive configuration.
type Config struct {
	// Source is the default state location: a file, "-" or s3://bucket/key.
	Source string `json:"source,omitempty" yaml:"source,omitempty" env:"SOURCE"`

	// Shallow wraps loaded state with NewShallow instead of New.
	Shallow bool `json:"shallow,omitempty" yaml:"shallow,omitempty" env:"SHALLOW"`

	// Server contains state server configuration.
	Server ServerConfig `json:"server" yaml:"server" envPrefix:"SERVER_"`

	// S3 configures s3:// sources.
	S3 S3Config `json:"s3" yaml:"s3" envPrefix:"S3_"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" yaml:"log" envPrefix:"LOG_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains state server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty" env:"HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty" env:"PORT"`

	// WatchBuffer is the per-connection snapshot queue length for /watch.
	WatchBuffer int `json:"watchBuffer,omitempty" yaml:"watchBuffer,omitempty" env:"WATCH_BUFFER"`
}

// S3Config contains S3 client settings.
type S3Config struct {
	Region   string `json:"region,omitempty" yaml:"region,omitempty" env:"REGION"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" env:"ENDPOINT"`

	// UsePathStyle addresses buckets as endpoint/bucket, for S3-compatible
	// stores such as MinIO.
	UsePathStyle bool `json:"usePathStyle,omitempty" yaml:"usePathStyle,omitempty" env:"USE_PATH_STYLE"`

	// Anonymous disables request signing.
	Anonymous bool `json:"anonymous,omitempty" yaml:"anonymous,omitempty" env:"ANONYMOUS"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty" env:"FORMAT"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			WatchBuffer: DefaultWatchBuffer,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the first configuration file found in dir. When there is
// none, it returns the defaults.
func Load(dir string) (*Config, error) {
	if path := Find(dir); path != "" {
		return LoadFile(path)
	}
	return New(), nil
}

// Find returns the path of the configuration file in dir, or "".
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFile reads configuration from path. The encoding follows the
// extension: .json, or .yaml/.yml.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C100").
				WithDetail("No such file: " + path).
				WithSuggestion("Pass an existing file to --config or create " + FileNames[0])
		}
		return nil, errors.New("C100").Wrap(err)
	}

	cfg := New()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.New("C100").
			WithDetail("Unsupported config extension " + strconv.Quote(ext)).
			WithSuggestion("Use a .json, .yaml or .yml file")
	}
	if err != nil {
		return nil, errors.New("C100").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// ApplyEnv overrides fields from REACTIVE_* environment variables, e.g.
// REACTIVE_SERVER_PORT or REACTIVE_S3_REGION.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(nil)
}

// applyEnv reads from environ, or the process environment when nil.
func (c *Config) applyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return errors.New("C101").WithDetail("environment").Wrap(err)
	}
	c.applyDefaults()
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, as YAML for .yaml/.yml and JSON
// otherwise.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("C100").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C100").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.WatchBuffer == 0 {
		c.Server.WatchBuffer = DefaultWatchBuffer
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("C101").
			WithDetail("server.port must be between 1 and 65535")
	}
	if c.Server.WatchBuffer < 1 {
		return errors.New("C101").
			WithDetail("server.watchBuffer must be at least 1")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("C101").
			WithDetail("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}
	return nil
}

// Address returns the host:port the state server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("C101").
			WithDetail("log.level must be debug, info, warn or error, got " + strconv.Quote(c.Log.Level))
	}
	return level, nil
}
