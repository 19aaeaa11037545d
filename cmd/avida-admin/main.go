// Command avida-admin serves the search analytics dashboard API.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/kelvinofficial/avida-sub002/analytics"
)

type config struct {
	Addr          string        `env:"AVIDA_ADMIN_ADDR" envDefault:":8085"`
	EventCapacity int           `env:"AVIDA_ADMIN_EVENT_CAPACITY" envDefault:"10000"`
	ReadTimeout   time.Duration `env:"AVIDA_ADMIN_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout  time.Duration `env:"AVIDA_ADMIN_WRITE_TIMEOUT" envDefault:"10s"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	recorder := analytics.NewRecorder(cfg.EventCapacity)
	server := analytics.NewServer(recorder, logger)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("admin analytics server listening", zap.String("addr", cfg.Addr))
	return httpServer.ListenAndServe()
}
