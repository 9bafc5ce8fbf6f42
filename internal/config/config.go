// Package config loads the per-project .devenvrc settings file.
package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"devenv/internal/errors"
	"devenv/internal/slogutil"
)

const (
	// FileName is the base name of the settings file; any extension viper
	// understands (json, yaml, toml) is accepted.
	FileName = ".devenvrc"
	// EnvPrefix prefixes environment overrides, e.g. DEVENV_PORT.
	EnvPrefix = "DEVENV"

	ModeDevelopment = "development"
	ModeProduction  = "production"

	// DefaultNodeVersion is the image tag used when neither .devenvrc nor
	// package.json engines names a Node.js version.
	DefaultNodeVersion = "18-alpine"

	LogFormatHuman = "human"
	LogFormatJSON  = "json"
)

// Config represents the .devenvrc schema
type Config struct {
	Mode        string        `json:"mode" mapstructure:"mode"`
	Port        int           `json:"port,omitempty" mapstructure:"port"`
	NodeVersion string        `json:"nodeVersion,omitempty" mapstructure:"nodeVersion"`
	Volumes     []string      `json:"volumes" mapstructure:"volumes"`
	Networks    []string      `json:"networks" mapstructure:"networks"`
	Logging     LoggingConfig `json:"logging" mapstructure:"logging"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level,omitempty" mapstructure:"level"`
}

// DefaultConfig returns the default configuration. Port 0 and an empty
// NodeVersion mean detect.
func DefaultConfig() *Config {
	return &Config{
		Mode:     ModeDevelopment,
		Volumes:  []string{},
		Networks: []string{},
		Logging: LoggingConfig{
			Format: LogFormatHuman,
		},
	}
}

// LoadResult contains the loaded config and metadata about where it came from
type LoadResult struct {
	Config       *Config
	ConfigPath   string
	UsedDefaults bool
}

// LoadConfig loads configuration from root/.devenvrc.*
func LoadConfig(root string) (*Config, error) {
	result, err := LoadConfigWithDetails(root)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// LoadConfigWithDetails loads configuration and reports which file was used.
// A missing file yields the defaults, still subject to DEVENV_* overrides.
func LoadConfigWithDetails(root string) (*LoadResult, error) {
	v := newViper(root)

	result := &LoadResult{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.New(errors.ConfigInvalid, "failed to read configuration", v.ConfigFileUsed(), err)
		}
		result.UsedDefaults = true
	} else {
		result.ConfigPath = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "failed to decode configuration", result.ConfigPath, err)
	}
	if cfg.Volumes == nil {
		cfg.Volumes = []string{}
	}
	if cfg.Networks == nil {
		cfg.Networks = []string{}
	}
	result.Config = &cfg
	return result, nil
}

func newViper(root string) *viper.Viper {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("mode", def.Mode)
	v.SetDefault("port", def.Port)
	v.SetDefault("nodeVersion", def.NodeVersion)
	v.SetDefault("volumes", def.Volumes)
	v.SetDefault("networks", def.Networks)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetConfigName(FileName)
	v.AddConfigPath(root)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Path returns the file Save writes to.
func Path(root string) string {
	return filepath.Join(root, FileName+".json")
}

// Save writes the configuration to root/.devenvrc.json
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	path := Path(root)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.WriteFailure, "failed to save configuration", path, err)
	}
	return nil
}

// Problems lists every validation failure of c.
func (c *Config) Problems() []*ConfigError {
	var problems []*ConfigError

	if c.Port != 0 && !ValidPort(c.Port) {
		problems = append(problems, &ConfigError{Field: "port", Message: "must be between 1 and 65535"})
	}
	for i, volume := range c.Volumes {
		if !ValidVolume(volume) {
			problems = append(problems, &ConfigError{
				Field:   fmt.Sprintf("volumes[%d]", i),
				Message: fmt.Sprintf("invalid volume syntax %q, want source:target", volume),
			})
		}
	}
	if c.Mode != ModeDevelopment && c.Mode != ModeProduction {
		problems = append(problems, &ConfigError{
			Field:   "mode",
			Message: fmt.Sprintf("must be %q or %q", ModeDevelopment, ModeProduction),
		})
	}
	if c.Logging.Format != LogFormatHuman && c.Logging.Format != LogFormatJSON {
		problems = append(problems, &ConfigError{
			Field:   "logging.format",
			Message: fmt.Sprintf("must be %q or %q", LogFormatHuman, LogFormatJSON),
		})
	}
	if c.Logging.Level != "" {
		if _, ok := slogutil.ParseLevel(c.Logging.Level); !ok {
			problems = append(problems, &ConfigError{
				Field:   "logging.level",
				Message: fmt.Sprintf("unknown level %q, want debug, info, warn or error", c.Logging.Level),
			})
		}
	}
	return problems
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	problems := c.Problems()
	if len(problems) == 0 {
		return nil
	}
	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.Error()
	}
	return errors.New(errors.ConfigInvalid, strings.Join(msgs, "; "), "", nil)
}

// IsDevelopment reports whether the development mode is selected.
func (c *Config) IsDevelopment() bool {
	return c.Mode == ModeDevelopment
}

// ValidPort reports whether port is within 1-65535.
func ValidPort(port int) bool {
	return port > 0 && port < 65536
}

// ValidVolume accepts exactly "source:target" with both sides non-empty.
func ValidVolume(volume string) bool {
	parts := strings.Split(volume, ":")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
