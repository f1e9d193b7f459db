// Package config holds runtime configuration for the cassmap commands:
// data file locations, server settings and the extraction thresholds.
// Values come from defaults, CASSMAP_* environment variables and
// command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cassmap/cassmap/internal/extract"
)

const (
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultDataDir     = "data"
)

// Config is the full runtime configuration.
type Config struct {
	// Server configuration
	Host string
	Port int

	// Data file locations
	DataDir           string
	RulesPath         string
	RisksPath         string
	ControlsPath      string
	QuestionnairePath string
	RiskLinksPath     string

	// Application configuration
	LogLevel    string
	MaxFileSize int64

	// Extraction thresholds
	Extract extract.Config
}

// Default returns a configuration with documented defaults.
func Default() *Config {
	cfg := &Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		DataDir:     DefaultDataDir,
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
		Extract:     extract.DefaultConfig(),
	}
	cfg.applyDataDir()
	return cfg
}

// applyDataDir fills unset file paths from the data directory.
func (c *Config) applyDataDir() {
	if c.RulesPath == "" {
		c.RulesPath = filepath.Join(c.DataDir, "rules.yaml")
	}
	if c.RisksPath == "" {
		c.RisksPath = filepath.Join(c.DataDir, "risks.yaml")
	}
	if c.ControlsPath == "" {
		c.ControlsPath = filepath.Join(c.DataDir, "controls.yaml")
	}
	if c.QuestionnairePath == "" {
		c.QuestionnairePath = filepath.Join(c.DataDir, "questionnaire.yaml")
	}
	if c.RiskLinksPath == "" {
		c.RiskLinksPath = filepath.Join(c.DataDir, "rule_risk_links.yaml")
	}
}

// BindFlags registers the shared flags on a command's flag set and
// binds them to viper.
func BindFlags(fs *pflag.FlagSet) {
	defaults := Default()

	fs.String("host", defaults.Host, "Server host address (serve command only)")
	fs.Int("port", defaults.Port, "Server port (serve command only)")
	fs.String("data-dir", defaults.DataDir, "Directory containing the YAML data files")
	fs.String("loglevel", defaults.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64("maxfilesize", defaults.MaxFileSize, "Maximum input PDF size in bytes")

	fs.Float64("left-max-ratio", defaults.Extract.LeftMaxRatio, "Gutter limit as a ratio of page width")
	fs.Float64("right-min-ratio", defaults.Extract.RightMinRatio, "Body column fallback ratio of page width")
	fs.Float64("y-tol", defaults.Extract.YTolerance, "Vertical tolerance for grouping tokens into lines (pt)")
	fs.Float64("type-dx", defaults.Extract.TypeMaxDX, "Widest gap between identifier and type marker (pt)")
	fs.Float64("type-dy", defaults.Extract.TypeMaxDY, "Largest vertical drift to a type marker line (pt)")
	fs.Float64("start-margin", defaults.Extract.BodyStartMargin, "Margin past an anchor before body text may start (pt)")
	fs.Float64("heading-size-min", defaults.Extract.HeadingSizeMin, "Font size at which bold lines count as headings (pt)")
	fs.Int("min-body-len", defaults.Extract.MinBodyLen, "Discard bodies shorter than this many characters")
	fs.StringSlice("chapter-order", defaults.Extract.ChapterOrder, "Preferred chapter reading sequence")

	viper.SetEnvPrefix("CASSMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	fs.VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})
}

// Load builds the configuration from viper's merged view of defaults,
// environment and flags.
func Load() (*Config, error) {
	cfg := Default()

	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")

	if dir := viper.GetString("data-dir"); dir != "" && dir != cfg.DataDir {
		cfg.DataDir = dir
		cfg.RulesPath, cfg.RisksPath, cfg.ControlsPath = "", "", ""
		cfg.QuestionnairePath, cfg.RiskLinksPath = "", ""
		cfg.applyDataDir()
	}

	cfg.Extract.LeftMaxRatio = viper.GetFloat64("left-max-ratio")
	cfg.Extract.RightMinRatio = viper.GetFloat64("right-min-ratio")
	cfg.Extract.YTolerance = viper.GetFloat64("y-tol")
	cfg.Extract.TypeMaxDX = viper.GetFloat64("type-dx")
	cfg.Extract.TypeMaxDY = viper.GetFloat64("type-dy")
	cfg.Extract.BodyStartMargin = viper.GetFloat64("start-margin")
	cfg.Extract.HeadingSizeMin = viper.GetFloat64("heading-size-min")
	cfg.Extract.MinBodyLen = viper.GetInt("min-body-len")
	if order := viper.GetStringSlice("chapter-order"); len(order) > 0 {
		cfg.Extract.ChapterOrder = order
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if err := c.Extract.Validate(); err != nil {
		return err
	}
	return nil
}

// Address returns the server address as host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}
