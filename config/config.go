// Package config handles icmev's settings.  Values come from ~/.icmev
// (yaml), then ICMEV_* environment variables, which may be set in a .env
// file in the working directory.
package config

import (
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Init loads configuration and sets up the global logger.  Call it once,
// before anything logs.
func Init() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName(".icmev")
	viper.AddConfigPath(home)
	viper.SetEnvPrefix("icmev")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	readErr := viper.ReadInConfig()

	initLogging()

	if readErr != nil {
		log.Debug().Err(readErr).Msg("no config file, using defaults and environment")
	} else {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("read config")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_address", ":8080")
	v.SetDefault("cache_size", 4096)
	v.SetDefault("log_level", "info")
	v.SetDefault("engine", "auto")
	v.SetDefault("batch_workers", runtime.NumCPU())
	v.SetDefault("allowed_origins", []string{})
	// About a second of work for one request.
	v.SetDefault("max_cost", 5e6)
}

func initLogging() {
	level, err := zerolog.ParseLevel(LogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func ListenAddress() string {
	return viper.GetString("listen_address")
}

// CacheSize is the number of equity results kept by the server.
func CacheSize() int {
	return viper.GetInt("cache_size")
}

func LogLevel() string {
	return viper.GetString("log_level")
}

// Engine names the default equity engine: "direct", "memo" or "auto".
func Engine() string {
	return viper.GetString("engine")
}

func BatchWorkers() int {
	return viper.GetInt("batch_workers")
}

// MaxCost bounds the estimated work (icm.Cost) of one HTTP request.
// Zero or less means no limit.
func MaxCost() float64 {
	return viper.GetFloat64("max_cost")
}

// AllowedOrigins lists the origins the HTTP API accepts cross-origin
// requests from.
func AllowedOrigins() []string {
	return viper.GetStringSlice("allowed_origins")
}

// Set overrides a setting, as command-line flags do.
func Set(key string, value any) {
	viper.Set(key, value)
}
