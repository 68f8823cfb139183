package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/bookexpert/internal/buildinfo"
	"github.com/dmitrijs2005/bookexpert/internal/devserver"
	"github.com/dmitrijs2005/bookexpert/internal/logging"
	"github.com/spf13/pflag"
)

func main() {
	var (
		addr   string
		secret string
		opts   logging.Options
	)
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	fs.StringVarP(&addr, "address", "a", ":8080", "listen address")
	fs.StringVar(&secret, "auth-secret", "", "HS256 secret; when set requests need a bearer token")
	fs.StringVar(&opts.Backend, "log-backend", logging.BackendSlog, "log backend: slog|zap")
	fs.StringVar(&opts.Level, "log-level", "info", "log level")
	fs.StringVar(&opts.Format, "log-format", logging.FormatJSON, "log format: text|json")
	_ = fs.Parse(os.Args[1:])

	buildinfo.PrintBuildData(os.Stdout)

	logger, err := logging.New(os.Stdout, opts)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	handler := devserver.NewRouter(devserver.WithAuthSecret(secret), devserver.WithLogger(logger))
	if err := devserver.NewServer(addr, handler, logger).Run(ctx); err != nil {
		logger.Error(ctx, "object server stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
