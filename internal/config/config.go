package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"

	"github.com/fernweh-dev/fern/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "fern.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultFragments is the default fragments directory.
	DefaultFragments = "site/fragments"

	// DefaultData is the default data payload file.
	DefaultData = "site/data.json"

	// DefaultRoute is the fragment shown for an empty location hash.
	DefaultRoute = "home"

	// DefaultTheme is the theme applied when no preference is stored.
	DefaultTheme = "light"

	// DefaultPrefsFile is the default preferences file.
	DefaultPrefsFile = ".fern/prefs.json"
)

// Config represents the complete fern.json configuration. Environment
// variables with a FERN_ prefix override file values.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Host is the host the server binds to.
	Host string `json:"host,omitempty" env:"FERN_HOST"`

	// Port is the port the server listens on.
	Port int `json:"port,omitempty" env:"FERN_PORT"`

	// Fragments is the directory holding markup fragments.
	Fragments string `json:"fragments,omitempty" env:"FERN_FRAGMENTS"`

	// Data is the path to the JSON data payload.
	Data string `json:"data,omitempty" env:"FERN_DATA"`

	// Route is the fragment rendered for an empty location hash.
	Route string `json:"route,omitempty" env:"FERN_ROUTE"`

	// Theme is the initial theme when no preference is stored.
	Theme string `json:"theme,omitempty" env:"FERN_THEME"`

	// Prefs is the path to the preferences file.
	Prefs string `json:"prefs,omitempty" env:"FERN_PREFS"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// S3 contains bucket-hosted content configuration. When Bucket is
	// set the server loads fragments from S3 instead of the local
	// fragments directory.
	S3 S3Config `json:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// HotReload enables the reload websocket and file watcher.
	HotReload bool `json:"hotReload,omitempty" env:"FERN_HOT_RELOAD"`

	// PollMillis is the watcher poll interval in milliseconds.
	PollMillis int `json:"pollMillis,omitempty" env:"FERN_POLL_MILLIS"`
}

// S3Config contains bucket-hosted content settings.
type S3Config struct {
	// Bucket is the S3 bucket name.
	Bucket string `json:"bucket,omitempty" env:"FERN_S3_BUCKET"`

	// Prefix is the object key prefix for fragments and the payload.
	Prefix string `json:"prefix,omitempty" env:"FERN_S3_PREFIX"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Host:      DefaultHost,
		Port:      DefaultPort,
		Fragments: DefaultFragments,
		Data:      DefaultData,
		Route:     DefaultRoute,
		Theme:     DefaultTheme,
		Prefs:     DefaultPrefsFile,
		Dev: DevConfig{
			HotReload:  true,
			PollMillis: 500,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// fern.json in the directory; a missing file yields the defaults, and
// environment overrides apply either way.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment are a complete configuration.
	case err != nil:
		return nil, errors.New("E001").Wrap(err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E002").
				WithDetail("Failed to parse " + path + ": " + err.Error())
		}
		cfg.configPath = path
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Newf(errors.CategoryConfig, "parse environment: %v", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Path returns the path where the config was loaded from, or "" when
// running on defaults.
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
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Fragments == "" {
		c.Fragments = DefaultFragments
	}
	if c.Route == "" {
		c.Route = DefaultRoute
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.Prefs == "" {
		c.Prefs = DefaultPrefsFile
	}
	if c.Dev.PollMillis == 0 {
		c.Dev.PollMillis = 500
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.Newf(errors.CategoryConfig, "port %d out of range", c.Port)
	}
	return nil
}

// Address returns the listen address for the server.
func (c *Config) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// FragmentsPath returns the absolute path to the fragments directory.
func (c *Config) FragmentsPath() string {
	return c.resolve(c.Fragments)
}

// DataPath returns the absolute path to the data payload file.
func (c *Config) DataPath() string {
	if c.Data == "" {
		return ""
	}
	return c.resolve(c.Data)
}

// PrefsPath returns the absolute path to the preferences file.
func (c *Config) PrefsPath() string {
	return c.resolve(c.Prefs)
}

// UseS3 reports whether content should come from a bucket.
func (c *Config) UseS3() bool {
	return c.S3.Bucket != ""
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
