// Command tradingengine starts the trading engine server with a text
// logger and runs it until SIGINT or SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/philipp01105/tradingengine/core"
	"github.com/philipp01105/tradingengine/internal/server"
	"github.com/philipp01105/tradingengine/logger"
	"github.com/philipp01105/tradingengine/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tradingengine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := logger.DefaultConfig()
	kind := flag.String("kind", cfg.Kind.String(), "logger kind: text or console")
	flag.StringVar(&cfg.Directory, "log-dir", cfg.Directory, "base log directory")
	flag.StringVar(&cfg.Filename, "log-prefix", cfg.Filename, "log file name prefix")
	flag.StringVar(&cfg.FileExtension, "log-ext", cfg.FileExtension, "log file extension")
	flag.IntVar(&cfg.Capacity, "queue-capacity", 0, "bound on pending log records (0 = unbounded)")
	flag.DurationVar(&cfg.DrainTimeout, "drain-timeout", cfg.DrainTimeout, "time allowed to flush pending records on exit")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address (empty = off)")
	flag.Parse()

	k, err := logger.ParseKind(*kind)
	if err != nil {
		return err
	}
	cfg.Kind = k

	log, err := build(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := log.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "tradingengine: closing log: %v\n", err)
		}
	}()
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	restore := core.NameGoroutine("main")
	defer restore()

	if *metricsAddr != "" {
		srv, err := serveMetrics(log, *metricsAddr)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	engine, err := server.New(log, server.Config{})
	if err != nil {
		return err
	}
	return engine.Run(ctx)
}

func build(cfg logger.Config) (*logger.Logger, error) {
	b := logger.NewBuilder(cfg).WithErrorHandler(func(err error) {
		fmt.Fprintf(os.Stderr, "tradingengine: log writer stopped: %v\n", err)
	})
	switch cfg.Kind {
	case logger.ConsoleKind:
		return b.BuildConsole()
	default:
		return b.BuildText()
	}
}

func serveMetrics(log *logger.Logger, addr string) (*http.Server, error) {
	reg, err := metrics.NewRegistry(metrics.NewCollector(log, "tradingengine", nil), true)
	if err != nil {
		return nil, errors.Wrap(err, "registering metrics")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics", err.Error())
		}
	}()
	return srv, nil
}
