package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment variables, e.g. ALPHA_DATABASE_PATH.
const EnvPrefix = "ALPHA"

type Config struct {
	ServerAddress   string        `mapstructure:"server_address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	DatabasePath    string        `mapstructure:"database_path"`

	// Scoring
	FactorsFile string `mapstructure:"factors_file"` // empty = embedded default
	AdminCode   string `mapstructure:"admin_code"`
	Workers     int    `mapstructure:"workers"`
}

// New returns a viper instance with defaults, environment binding and the
// optional alphalever.yaml config file search path. Callers may bind flags
// into it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("server_address", ":8080")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("database_path", "alphalever.db")
	v.SetDefault("factors_file", "")
	v.SetDefault("admin_code", "") // empty disables admin registration and assessments
	v.SetDefault("workers", 4)
	v.SetDefault("config", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves defaults, .env, environment, config file and any bound flags,
// in increasing order of precedence.
func Load(v *viper.Viper) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("alphalever")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return errors.New("server_address must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if c.DatabasePath == "" {
		return errors.New("database_path must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
