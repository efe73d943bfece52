package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amp-labs/easyapply/application"
	"github.com/amp-labs/easyapply/cli"
	"github.com/amp-labs/easyapply/envtypes"
	"github.com/amp-labs/easyapply/envutil"
	"github.com/amp-labs/easyapply/logger"
	"github.com/amp-labs/easyapply/probe/htmldoc"
	"github.com/amp-labs/easyapply/shutdown"
	"github.com/amp-labs/easyapply/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const metricsShutdownTimeout = 5 * time.Second

type runFlags struct {
	site        string
	start       string
	resume      string
	confirm     bool
	metricsAddr string
	maxTicks    int
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a captured form from its first page to submission",
		Long: `Loads every page of a captured form from a directory and drives it from the
start page until the application is submitted or suspended. Settings not given
as flags are read from the EASYAPPLY_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApplication(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.site, "site", "", "directory holding the captured pages")
	cmd.Flags().StringVar(&flags.start, "start", "info.html", "page the form opens on")
	cmd.Flags().StringVar(&flags.resume, "resume", "", "resume to upload, overrides EASYAPPLY_RESUME_PATH")
	cmd.Flags().BoolVar(&flags.confirm, "confirm", false, "ask before submitting")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on host:port, overrides EASYAPPLY_METRICS_ADDR")
	cmd.Flags().IntVar(&flags.maxTicks, "max-ticks", 0, "overrides EASYAPPLY_MAX_TICKS")

	_ = cmd.MarkFlagRequired("site")

	return cmd
}

func runApplication(cmd *cobra.Command, flags runFlags) error {
	ctx := shutdown.SetupHandler(cmd.Context())

	shutdown.BeforeShutdown(func() {
		logger.Get(ctx).Warn("Shutdown requested, stopping after the current step")
	})

	flush, err := startTelemetry(ctx, cmd)
	if err != nil {
		return err
	}

	defer flush()

	cfg, err := application.LoadConfigFromEnv(ctx)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if flags.resume != "" {
		cfg.ResumePath = flags.resume
	}

	if flags.maxTicks > 0 {
		cfg.MaxTicks = flags.maxTicks
	}

	site, err := htmldoc.LoadSite(flags.site)
	if err != nil {
		return err
	}

	doc, err := site.Open(flags.start)
	if err != nil {
		return err
	}

	opts := []application.Option{application.WithDeliverer(doc.FileDialog())}

	configured, err := cfg.Options()
	if err != nil {
		return err
	}

	opts = append(opts, configured...)

	if flags.confirm {
		opts = append(opts, application.WithSubmitGate(confirmSubmit))
	}

	metricsAddr, err := resolveMetricsAddr(ctx, flags.metricsAddr)
	if err != nil {
		return err
	}

	if !metricsAddr.IsZero() {
		stop := serveMetrics(ctx, metricsAddr.String())
		defer stop()
	}

	app, err := application.New(appName, doc, opts...)
	if err != nil {
		return err
	}

	runErr := app.Run(ctx)

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s on %s after %d recoveries\n",
		app.SessionID(), app.State(), doc.Page(), app.Recoveries())

	return errors.Join(runErr, err)
}

// startTelemetry initializes tracing and log export and returns the function that flushes them.
func startTelemetry(ctx context.Context, cmd *cobra.Command) (func(), error) {
	cfg, err := telemetry.LoadConfigFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading telemetry configuration: %w", err)
	}

	if err := telemetry.Initialize(ctx, cfg); err != nil { //nolint:noinlineerr
		return nil, err
	}

	if handler := telemetry.LogHandler(); handler != nil {
		configureLogging(cmd, logger.WithHandler(handler))
	}

	return func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Timeout)
		defer cancel()

		if err := telemetry.Shutdown(flushCtx); err != nil { //nolint:noinlineerr
			logger.Get(flushCtx).Error("Unable to flush telemetry", "error", err)
		}
	}, nil
}

// resolveMetricsAddr prefers the flag over EASYAPPLY_METRICS_ADDR. A zero address
// disables the metrics server.
func resolveMetricsAddr(ctx context.Context, flag string) (envtypes.HostPort, error) {
	if flag != "" {
		return envtypes.ParseHostPort(flag)
	}

	return envutil.HostAndPort(ctx, "EASYAPPLY_METRICS_ADDR", envutil.Default(envtypes.HostPort{})).Value()
}

func confirmSubmit(ctx context.Context) bool {
	ok, err := cli.PromptConfirm("Submit application")
	if err != nil {
		logger.Get(ctx).Error("Confirmation prompt failed", "error", err)

		return false
	}

	return ok
}

// serveMetrics exposes /metrics until the returned function is called.
func serveMetrics(ctx context.Context, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsShutdownTimeout,
	}

	go func() {
		logger.Get(ctx).Info("Serving metrics", "addr", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) { //nolint:noinlineerr
			logger.Get(ctx).Error("Metrics server failed", "error", err)
		}
	}()

	return func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(stopCtx)
	}
}
