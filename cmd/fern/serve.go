package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/fernweh-dev/fern/internal/config"
	"github.com/fernweh-dev/fern/internal/dev"
	"github.com/fernweh-dev/fern/pkg/app"
	"github.com/fernweh-dev/fern/pkg/content"
	"github.com/fernweh-dev/fern/pkg/engine"
	"github.com/fernweh-dev/fern/pkg/expr"
	"github.com/fernweh-dev/fern/pkg/middleware"
	"github.com/fernweh-dev/fern/pkg/pref"
	"github.com/fernweh-dev/fern/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		port    int
		host    string
		dir     string
		devMode bool
		region  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server over a fern project.

The project directory holds fern.json, the fragments directory, and
the data payload. In dev mode the server watches the content tree and
reloads connected browsers on change.

Examples:
  fern serve
  fern serve --port=8080
  fern serve --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(dir, host, port, devMode, region)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from fern.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from fern.json)")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Enable hot reload")
	cmd.Flags().StringVar(&region, "region", "", "AWS region for S3-hosted content")

	return cmd
}

func runServe(dir, host string, port int, devMode bool, region string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Port = port
	}
	if host != "" {
		cfg.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	loader, err := buildLoader(cfg, region)
	if err != nil {
		return err
	}

	prefs, err := pref.Open(cfg.PrefsPath())
	if err != nil {
		return err
	}

	metrics := middleware.NewMetrics()
	ev := expr.New(
		expr.WithLogger(logger.With("component", "expr")),
		expr.WithFailureHook(metrics.FailureHook()),
	)

	a := app.New(loader,
		app.WithLogger(logger.With("component", "app")),
		app.WithPrefs(prefs),
		app.WithDefaultRoute(cfg.Route),
		app.WithTheme(cfg.Theme),
		app.WithEngineOptions(engine.WithEvaluator(ev)),
	)
	if disk, ok := loader.(*content.Disk); ok {
		names, err := disk.Fragments()
		if err != nil {
			return err
		}
		a.RegisterFragments(names)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.LoadData(ctx)
	if err := a.Navigate(ctx, ""); err != nil {
		return err
	}

	opts := []server.Option{
		server.WithLogger(logger.With("component", "server")),
		server.WithAddr(cfg.Address()),
		server.WithMetrics(metrics),
		server.WithTracing(),
	}

	if devMode || cfg.Dev.HotReload {
		reload := dev.NewReloadServer()
		opts = append(opts, server.WithReload(reload))

		paths := []string{cfg.FragmentsPath()}
		if cfg.DataPath() != "" {
			paths = append(paths, cfg.DataPath())
		}
		watcher := dev.NewWatcher(dev.WatcherConfig{
			Paths: paths,
			Poll:  time.Duration(cfg.Dev.PollMillis) * time.Millisecond,
		})
		watcher.OnChange(func(c dev.Change) {
			switch c.Type {
			case dev.ChangeData:
				a.LoadData(ctx)
				reload.NotifyData()
			default:
				reload.NotifyReload(c.Path)
				success("Reloaded %d browsers", reload.ClientCount())
			}
		})
		go watcher.Start(ctx)
	}

	srv := server.New(a, loader, opts...)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n  Shutting down...")
		cancel()
	}()

	printBanner()
	info("serving %s on http://%s", dir, cfg.Address())
	return srv.ListenAndServe(ctx)
}

// buildLoader picks the content backend: S3 when a bucket is configured,
// the local fragments directory otherwise.
func buildLoader(cfg *config.Config, region string) (content.Loader, error) {
	if !cfg.UseS3() {
		return content.NewDisk(cfg.FragmentsPath(), cfg.DataPath()), nil
	}
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		return nil, fmt.Errorf("s3 content requires --region or AWS_REGION")
	}
	client := s3.New(s3.Options{Region: region})
	return content.NewS3(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
}
