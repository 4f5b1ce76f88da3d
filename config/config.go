// Package config loads and validates the attic server configuration from
// defaults, config files, environment variables, and CLI flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mgrazal/attic/credentials"
	attichttp "github.com/mgrazal/attic/http"
)

// Config is the root configuration struct for attic.
type Config struct {
	Server  ServerConfig         `mapstructure:"server"`
	Static  StaticConfig         `mapstructure:"static"`
	Listing ListingConfig        `mapstructure:"listing"`
	CORS    attichttp.CORSConfig `mapstructure:"cors"`
	Log     LogConfig            `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeout  int `mapstructure:"read_timeout" validate:"min=1"`  // seconds
	WriteTimeout int `mapstructure:"write_timeout" validate:"min=1"` // seconds
	IdleTimeout  int `mapstructure:"idle_timeout" validate:"min=1"`  // seconds
}

// StaticConfig holds the response-engine configuration.
type StaticConfig struct {
	Root        string            `mapstructure:"root" validate:"required"`
	CacheMaxAge int               `mapstructure:"cache_max_age" validate:"min=0"` // seconds
	ChunkSize   int               `mapstructure:"chunk_size" validate:"min=1"`    // bytes
	Compression CompressionConfig `mapstructure:"compression"`
}

// CompressionConfig gates response compression.
type CompressionConfig struct {
	Enabled bool  `mapstructure:"enabled"`
	MinSize int64 `mapstructure:"min_size" validate:"min=0"` // bytes
}

// ListingConfig controls directory listings and their access guard.
type ListingConfig struct {
	Enabled bool               `mapstructure:"enabled"`
	Auth    credentials.Config `mapstructure:"auth"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"root":    "static.root",
	"port":    "server.port",
	"listing": "listing.enabled",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8714)
	v.SetDefault("server.read_timeout", 30)   // seconds
	v.SetDefault("server.write_timeout", 120) // seconds; long enough for large streams
	v.SetDefault("server.idle_timeout", 120)  // seconds

	v.SetDefault("static.root", "./public")
	v.SetDefault("static.cache_max_age", 3600)
	v.SetDefault("static.chunk_size", 64*1024)
	v.SetDefault("static.compression.enabled", false)
	v.SetDefault("static.compression.min_size", 512)

	v.SetDefault("listing.enabled", false)
	v.SetDefault("listing.auth.table", "attic_users")

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("ATTIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
