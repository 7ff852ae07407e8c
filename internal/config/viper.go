package config

import (
	"errors"
	"fmt"
	"strings"

	"mynab/budget-import/internal/currencyutils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BUDGET_LOG_LEVEL.
const EnvPrefix = "BUDGET"

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		// URL is a postgres connection string. Empty selects the in-memory store.
		URL      string `mapstructure:"url" yaml:"url"`
		MaxConns int32  `mapstructure:"max_conns" yaml:"max_conns"`
		Schema   string `mapstructure:"schema" yaml:"schema"`
	} `mapstructure:"database" yaml:"database"`

	Import struct {
		IgnorePhrases   []string `mapstructure:"ignore_phrases" yaml:"ignore_phrases"`
		DefaultCurrency string   `mapstructure:"default_currency" yaml:"default_currency"`
	} `mapstructure:"import" yaml:"import"`

	Parsers struct {
		PDF struct {
			PdftotextPath string `mapstructure:"pdftotext_path" yaml:"pdftotext_path"`
		} `mapstructure:"pdf" yaml:"pdf"`
	} `mapstructure:"parsers" yaml:"parsers"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	} `mapstructure:"metrics" yaml:"metrics"`
}

// InitializeConfig resolves configuration in this order: defaults, config file,
// environment. configFile may be empty, in which case config.yaml is searched for in
// $HOME/.budget-import, ./.budget-import and the working directory.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.budget-import")
		v.AddConfigPath(".budget-import")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// viper does not split list values coming from the environment
	if len(cfg.Import.IgnorePhrases) == 1 && strings.Contains(cfg.Import.IgnorePhrases[0], ";") {
		cfg.Import.IgnorePhrases = splitList(cfg.Import.IgnorePhrases[0])
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.schema", "mynab")

	v.SetDefault("import.ignore_phrases", []string{"Ingreso de dinero Cuenta ICBC"})
	v.SetDefault("import.default_currency", "ARS")

	v.SetDefault("parsers.pdf.pdftotext_path", "pdftotext")

	v.SetDefault("metrics.enabled", false)
}

func validateConfig(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}
	if cfg.Database.MaxConns < 1 {
		return fmt.Errorf("database.max_conns must be at least 1, got: %d", cfg.Database.MaxConns)
	}
	if cfg.Database.Schema == "" {
		return errors.New("database.schema must not be empty")
	}
	code, err := currencyutils.ValidateCurrency(cfg.Import.DefaultCurrency)
	if err != nil {
		return fmt.Errorf("import.default_currency: %w", err)
	}
	cfg.Import.DefaultCurrency = code
	if cfg.Parsers.PDF.PdftotextPath == "" {
		return errors.New("parsers.pdf.pdftotext_path must not be empty")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
