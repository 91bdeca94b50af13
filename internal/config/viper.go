// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"fjacquet/budget-buddy/internal/ledger"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by InitializeConfig.
const EnvPrefix = "BUDGET"

// ConfigName is the base name of the application config file.
const ConfigName = "budget-buddy"

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// PathsConfig locates the files and directories a run touches.
type PathsConfig struct {
	InputDir       string `mapstructure:"input_dir" yaml:"input_dir"`
	OutputDir      string `mapstructure:"output_dir" yaml:"output_dir"`
	LedgerFile     string `mapstructure:"ledger_file" yaml:"ledger_file"`
	CategoriesFile string `mapstructure:"categories_file" yaml:"categories_file"`
}

// LedgerConfig selects the persisted transaction store.
type LedgerConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// CSVConfig holds settings shared by the input reader and the CSV ledger.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ChartConfig holds budget chart settings.
type ChartConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Width   int  `mapstructure:"width" yaml:"width"`
	Height  int  `mapstructure:"height" yaml:"height"`
}

// ResolverConfig controls interactive categorization of unmatched records.
type ResolverConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Paths    PathsConfig    `mapstructure:"paths" yaml:"paths"`
	Ledger   LedgerConfig   `mapstructure:"ledger" yaml:"ledger"`
	CSV      CSVConfig      `mapstructure:"csv" yaml:"csv"`
	Chart    ChartConfig    `mapstructure:"chart" yaml:"chart"`
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver"`
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// Precedence, lowest first: defaults, config file, BUDGET_* environment
// variables. When configFile is empty the file is searched for in
// $HOME/.budget-buddy, .budget-buddy and the working directory; a missing
// file is not an error. An explicit configFile must exist and parse.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.budget-buddy")
		v.AddConfigPath(".budget-buddy")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("paths.input_dir", "input")
	v.SetDefault("paths.output_dir", "output")
	v.SetDefault("paths.ledger_file", "transactions.csv")
	v.SetDefault("paths.categories_file", "categories.yaml")

	v.SetDefault("ledger.backend", ledger.BackendCSV)

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("chart.enabled", true)
	v.SetDefault("chart.width", 1024)
	v.SetDefault("chart.height", 512)

	v.SetDefault("resolver.enabled", true)
}

// Validate checks the configuration, typically after command line overrides
// were applied on top of a loaded Config.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}
	if d := config.Delimiter(); d == '"' || d == '\r' || d == '\n' {
		return fmt.Errorf("CSV delimiter %q is not allowed", config.CSV.Delimiter)
	}

	switch config.Ledger.Backend {
	case ledger.BackendCSV, ledger.BackendSQLite:
	default:
		return fmt.Errorf("invalid ledger backend: %s (must be '%s' or '%s')",
			config.Ledger.Backend, ledger.BackendCSV, ledger.BackendSQLite)
	}

	if config.Paths.LedgerFile == "" {
		return fmt.Errorf("paths.ledger_file must not be empty")
	}
	if config.Paths.CategoriesFile == "" {
		return fmt.Errorf("paths.categories_file must not be empty")
	}

	if err := validation.IsDirectoryOrAbsent(config.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if err := validation.IsDirectoryOrAbsent(config.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}

	if config.Chart.Width <= 0 || config.Chart.Height <= 0 {
		return fmt.Errorf("chart dimensions must be positive, got: %dx%d", config.Chart.Width, config.Chart.Height)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.New(logging.Options{
		Level:  config.Log.Level,
		Format: config.Log.Format,
	})
}
