package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	handlerConfig "github.com/iurnickita/receiptprocessor/internal/handler/config"
	loggerConfig "github.com/iurnickita/receiptprocessor/internal/logger/config"
)

type Config struct {
	Handler handlerConfig.Config
	Logger  loggerConfig.Config
}

const (
	defaultServerAddr      = "localhost:8080"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
)

// GetConfig reads the configuration from command-line flags and the
// environment. Environment variables take precedence over flags.
func GetConfig() (Config, error) {
	return parse(os.Args[0], os.Args[1:], os.LookupEnv)
}

func parse(name string, args []string, lookupEnv func(string) (string, bool)) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Handler.ServerAddr, "a", defaultServerAddr, "address and port to run server")
	fs.StringVar(&cfg.Logger.LogLevel, "l", defaultLogLevel, "log level")
	fs.DurationVar(&cfg.Handler.ShutdownTimeout, "t", defaultShutdownTimeout, "graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// переменные окружения
	if envRunAddr, ok := lookupEnv("RUN_ADDRESS"); ok && envRunAddr != "" {
		cfg.Handler.ServerAddr = envRunAddr
	}
	if envLogLevel, ok := lookupEnv("LOG_LEVEL"); ok && envLogLevel != "" {
		cfg.Logger.LogLevel = envLogLevel
	}
	if envTimeout, ok := lookupEnv("SHUTDOWN_TIMEOUT"); ok && envTimeout != "" {
		timeout, err := time.ParseDuration(envTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.Handler.ShutdownTimeout = timeout
	}

	return cfg, nil
}
