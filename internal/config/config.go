// Package config loads application configuration from config.yaml and
// TPG_-prefixed environment variables.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the round archive backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// APIConfig configures the travelpicsgame.com client.
type APIConfig struct {
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	Game    int     `yaml:"game" mapstructure:"game"`
	Rate    float64 `yaml:"rate" mapstructure:"rate"`
}

// ScoringConfig selects the scoring rules.
type ScoringConfig struct {
	// Preset names a built-in option set, or an entry in the presets
	// file when PresetsFile is set.
	Preset      string `yaml:"preset" mapstructure:"preset"`
	PresetsFile string `yaml:"presets_file" mapstructure:"presets_file"`
	// FiveKThresholdKm resolves unset 5K flags when scoring.
	FiveKThresholdKm float64 `yaml:"fivek_threshold_km" mapstructure:"fivek_threshold_km"`
	// UseHaversine keeps the game's historical haversine distances
	// instead of the WGS84 geodesic.
	UseHaversine bool `yaml:"use_haversine" mapstructure:"use_haversine"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml in the working directory
// (optional) and the environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TPG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "tpg.db")
	v.SetDefault("api.base_url", "https://travelpicsgame.com")
	v.SetDefault("api.game", 1)
	v.SetDefault("api.rate", 2.0)
	v.SetDefault("scoring.preset", "main")
	v.SetDefault("scoring.fivek_threshold_km", 0.1)
	v.SetDefault("scoring.use_haversine", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
