package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/holiday-tree/cliparse"
	"github.com/danielhkuo/holiday-tree/db"
	"github.com/danielhkuo/holiday-tree/matching"
	"github.com/danielhkuo/holiday-tree/placement"
	"github.com/danielhkuo/holiday-tree/router"
	"github.com/danielhkuo/holiday-tree/telemetry"
)

const serviceName = "holiday-tree"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Guestbook tree and Secret Santa API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cliparse.Register(root.PersistentFlags())

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.Resolve()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	root.AddCommand(serve, newMatchCmd(flags), newLayoutCmd(flags), newTokenCmd(flags))
	return root
}

// loadLayout builds the tree layout from the optional YAML file.
func loadLayout(path string) (*placement.Layout, error) {
	cfg := placement.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = placement.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	return placement.NewLayout(cfg)
}

func runServe(ctx context.Context, cfg cliparse.Config) error {
	layout, err := loadLayout(cfg.LayoutConfig)
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(serviceName, version, cfg.TraceOutput)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("trace shutdown failed", "error", err)
		}
	}()

	// Connect and create schema (tables)
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()
	slog.Info("Database schema ready", "driver", cfg.DatabaseType)

	shuffler, err := matching.NewFisherYates()
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           router.NewRouter(dbConn, cfg, layout, shuffler),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Wait for Ctrl-C or a failed listener
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	slog.Info("Server closed", "error", err)
	return err
}
