package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pfrederiksen/afad-quakes/internal/export"
	"github.com/pfrederiksen/afad-quakes/internal/metrics"
	"github.com/pfrederiksen/afad-quakes/internal/scraper"
	"github.com/pfrederiksen/afad-quakes/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

const shutdownTimeout = 10 * time.Second

// NewRootCmd creates the root command. Running it without a subcommand scrapes once.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "afad-quakes",
		Short: "Scrape the AFAD last-earthquakes table",
		Long: `A CLI tool that scrapes the AFAD "last earthquakes" table, orders the
records newest first and exports them as JSON or CSV.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyConfig(cmd, opts.Config)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.Config, "config", "", "Config file (YAML, JSON or TOML) with flag defaults")
	pf.StringVar(&opts.URL, "url", scraper.LastEarthquakesURL, "Page to scrape")
	pf.BoolVar(&opts.Lenient, "lenient", false, "Accept non-2xx responses and unmapped headers")
	pf.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.StringVar(&opts.LogFormat, "log-format", "auto", "Log format: auto, text or json")

	addScrapeFlags(cmd, opts)

	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the table once and print or export the records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, opts)
		},
	}
	addScrapeFlags(scrapeCmd, opts)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Refresh the table periodically and serve it over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	serveCmd.Flags().StringVar(&opts.Addr, "addr", DefaultAddr, "HTTP listen address")
	serveCmd.Flags().DurationVar(&opts.Refresh, "refresh", DefaultRefresh, "Refresh interval (0 scrapes once at startup)")

	cmd.AddCommand(scrapeCmd, serveCmd)

	return cmd
}

func addScrapeFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.Verbose, "verbose", false, "Show IDs and coordinates in text output")
	cmd.Flags().StringSliceVar(&opts.Exports, "export", nil, "Export kinds: json, json-string, csv (repeatable)")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Directory for exported files (default: current directory)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "File name for exports without extension (default: timestamped)")
}

// runScrape is the one-shot command logic
func runScrape(cmd *cobra.Command, opts *Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	kinds, err := opts.ExportKinds()
	if err != nil {
		return err
	}
	format := OutputFormat(strings.ToLower(opts.Format))

	log, err := opts.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	sc := scraper.New(
		scraper.WithURL(opts.URL),
		scraper.WithStrictness(opts.Strictness()),
		scraper.WithLogger(log),
	)

	records, err := sc.Scrape(cmd.Context())
	if err != nil {
		return fmt.Errorf("scraping %s: %w", sc.URL(), err)
	}

	result := &OutputResult{
		ScrapedAt:   sc.ScrapedAt().UTC(),
		URL:         sc.URL(),
		Count:       len(records),
		Earthquakes: records,
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, opts.Verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	ex := export.New(export.WithLogger(log))
	target := export.Target{Dir: opts.Dir, Name: opts.Name}
	for _, kind := range kinds {
		out, err := ex.Export(kind, records, target)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", kind, err)
		}
		if kind == export.KindJSONString {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
	}

	return nil
}

// runServe scrapes on an interval and serves the result until the context is cancelled
func runServe(cmd *cobra.Command, opts *Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	log, err := opts.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	sc := scraper.New(
		scraper.WithURL(opts.URL),
		scraper.WithStrictness(opts.Strictness()),
		scraper.WithLogger(log),
		scraper.WithMetrics(m),
	)

	srv := server.NewServer(
		server.Config{Addr: opts.Addr, Refresh: opts.Refresh},
		sc, reg, clockwork.NewRealClock(), log,
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		_ = srv.Run(ctx)
	}()

	log.Info("serving earthquakes", "addr", opts.Addr, "url", opts.URL, "refresh", opts.Refresh)

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	log.Info("shutdown complete")

	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
