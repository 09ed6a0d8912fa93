package config

import (
	"errors"
	"fmt"

	"logpretty/internal/logging"
	"logpretty/internal/style"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Input  InputConfig
	Output OutputConfig
	Log    LogConfig
}

type InputConfig struct {
	Paths []string // empty or "-" means stdin
}

type OutputConfig struct {
	Color style.Mode
}

type LogConfig struct {
	Level string
}

// flagKeys maps config keys to flag names.
var flagKeys = map[string]string{
	"color":     "color",
	"log_level": "log-level",
}

// RegisterFlags adds the command-line flags NewConfig understands.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("color", "auto", "when to colorize output: auto, always or never")
	flags.String("log-level", "warn", "diagnostic log level on stderr (trace, debug, info, warn, error, disabled)")
}

// NewConfig resolves configuration from, in increasing priority: defaults,
// an optional .logpretty env file (working directory, then home), LOGPRETTY_*
// environment variables and explicitly set flags. args are the input paths.
func NewConfig(flags *pflag.FlagSet, args []string) (*Config, error) {
	v := viper.New()

	v.SetConfigName(".logpretty")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("LOGPRETTY")
	v.AutomaticEnv()

	v.SetDefault("color", string(style.ModeAuto))
	v.SetDefault("log_level", "warn")

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Trace().Msg("No .logpretty config file found")
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Loaded config file")
	}

	var config Config
	config.Input.Paths = append([]string(nil), args...)

	color, err := style.ParseMode(v.GetString("color"))
	if err != nil {
		return nil, err
	}
	config.Output.Color = color

	config.Log.Level = v.GetString("log_level")
	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		return nil, err
	}

	log.Debug().Interface("config", config).Msg("Config loaded")
	return &config, nil
}
