package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/common/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/swoga/ddwrt-exporter/collector"
	"github.com/swoga/ddwrt-exporter/config"
	"github.com/swoga/ddwrt-exporter/remote"
	"github.com/swoga/ddwrt-exporter/scheduler"
)

const shutdownTimeout = 5 * time.Second

var (
	configFile string
	debug      bool

	rootCmd = &cobra.Command{
		Use:           "ddwrt-exporter",
		Short:         "Prometheus exporter for DD-WRT routers, collected over SSH",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          run,
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config.file", "", "path to the YAML config file")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")

	defaults := config.DefaultConfig()
	flags.Int("port", 9200, "port to expose metrics on")
	flags.String("router-ip", defaults.Target.Address, "address of the router")
	flags.String("username", defaults.Target.Username, "router SSH username")
	flags.String("password", "", "router SSH password (required)")
	flags.Float64("interval", defaults.Interval, "seconds between collection cycles")
	flags.Float64("timeout", defaults.Target.Timeout, "SSH connect timeout in seconds")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// flagOverrides applies the flags the user actually set on top of the
// config file.
func flagOverrides(flags *pflag.FlagSet) func(*config.Config) {
	return func(c *config.Config) {
		if flags.Changed("port") {
			port, _ := flags.GetInt("port")
			c.Listen = ":" + strconv.Itoa(port)
		}
		if flags.Changed("router-ip") {
			c.Target.Address, _ = flags.GetString("router-ip")
		}
		if flags.Changed("username") {
			c.Target.Username, _ = flags.GetString("username")
		}
		if flags.Changed("password") {
			c.Target.Password, _ = flags.GetString("password")
		}
		if flags.Changed("interval") {
			c.Interval, _ = flags.GetFloat64("interval")
		}
		if flags.Changed("timeout") {
			c.Target.Timeout, _ = flags.GetFloat64("timeout")
		}
	}
}

func run(cmd *cobra.Command, _ []string) error {
	log := newLogger(debug)
	log.Info().Str("version", version.Version).Str("revision", version.Revision).Msg("starting ddwrt-exporter")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		versioncollector.NewCollector("ddwrt_exporter"),
	)

	// initial config load
	sc := config.New(configFile, flagOverrides(cmd.Flags()))
	sc.MustRegister(registry)
	err := sc.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	cfg := sc.Get()

	metrics := collector.NewMetrics(registry)
	c := collector.New(log, remote.NewSSHDialer(log), metrics)
	sched := scheduler.New(log, func() time.Duration {
		return sc.Get().PollInterval()
	})

	// bind before anything runs so a busy port fails startup
	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("error starting http server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	reloadRequest := make(chan chan error)
	server := &http.Server{
		Handler:           newHandler(cfg.MetricsPath, registry, reloadRequest),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("metrics_path", cfg.MetricsPath).Str("listen", listener.Addr().String()).Str("target", cfg.Target.HostPort()).Msg("starting http server")

	g.Go(func() error {
		err := server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error serving http: %w", err)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		reloadLoop(ctx, log, sc, reloadRequest)
		return nil
	})
	g.Go(func() error {
		sched.Run(ctx, scheduler.JobFunc(func(ctx context.Context) error {
			return c.Collect(ctx, sc.Get().Target).Err
		}))
		return nil
	})

	err = g.Wait()
	if err != nil {
		return err
	}
	log.Info().Msg("exporter stopped by user")
	return nil
}
