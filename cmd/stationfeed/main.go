package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/speedwagon-io/stationfeed/internal/collector"
	"github.com/speedwagon-io/stationfeed/internal/collector/adapters"
	"github.com/speedwagon-io/stationfeed/internal/config"
	"github.com/speedwagon-io/stationfeed/internal/httpapi"
	"github.com/speedwagon-io/stationfeed/internal/lib/logger/sl"
	"github.com/speedwagon-io/stationfeed/internal/report"
)

// Default version is "dev" if not set with -ldflags "-X main.version=..."
var version = "dev"

type options struct {
	configPath  string
	secretsPath string
	format      string
	dryRun      bool
	addr        string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, collector.ErrNoData) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "stationfeed",
		Short:         "Fetch weather station readings and print them grouped by sensor",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (or CONFIG_PATH)")
	root.PersistentFlags().StringVar(&opts.secretsPath, "secrets", "", "path to the secrets file holding ATOKEN and DEVICEID")
	root.Flags().StringVar(&opts.format, "format", "", "output format: json or yaml")
	root.Flags().BoolVar(&opts.dryRun, "dry-run", false, "log the report instead of printing it")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grouped readings over HTTP, fetching on every request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serve.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides http.address)")
	root.AddCommand(serve)

	return root
}

// setup loads config, logger and credentials. Any failure here is a fatal
// configuration error.
func setup(opts *options) (*config.Config, *slog.Logger, config.Credentials, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, config.Credentials{}, err
	}

	if opts.secretsPath != "" {
		cfg.Secrets.Path = opts.secretsPath
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if opts.addr != "" {
		cfg.HTTP.Address = opts.addr
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, nil, config.Credentials{}, err
	}
	cfg.Output.Format = format

	log := sl.SetupLogger(cfg.Log.Level, cfg.Log.Format).With(
		slog.String("version", version),
		slog.String("env", cfg.Env),
	)

	creds, err := config.LoadCredentials(cfg.Secrets.Path)
	if err != nil {
		return nil, nil, config.Credentials{}, err
	}

	return cfg, log, creds, nil
}

func runOnce(ctx context.Context, opts *options) error {
	cfg, log, creds, err := setup(opts)
	if err != nil {
		return err
	}

	log.Debug("starting station fetch",
		slog.String("url", cfg.API.URL),
		slog.String("format", cfg.Output.Format),
		slog.Bool("dry_run", opts.dryRun),
	)

	var reporter report.Reporter
	if opts.dryRun {
		reporter = report.NewLogReporter(log, cfg.Output.Format)
	} else {
		reporter = report.NewWriterReporter(os.Stdout, cfg.Output.Format, !cfg.Output.NoHeader)
	}

	manager := collector.NewManager(log, creds, adapters.NewNetatmoAdapter(log, cfg.API.URL), reporter)
	defer manager.Stop()

	return manager.Run(ctx)
}

func runServe(ctx context.Context, opts *options) error {
	cfg, log, creds, err := setup(opts)
	if err != nil {
		return err
	}

	manager := collector.NewManager(log, creds, adapters.NewNetatmoAdapter(log, cfg.API.URL), report.NewLogReporter(log, cfg.Output.Format))
	defer manager.Stop()

	server := httpapi.NewServer(log, cfg.HTTP.Address, manager)
	server.AddChecker(httpapi.NewSecretsChecker(cfg.Secrets.Path))

	if err := server.Serve(ctx); err != nil {
		log.Error("http server failed", sl.Err(err))
		return err
	}

	log.Info("server stopped")
	return nil
}
