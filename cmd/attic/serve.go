package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgrazal/attic"
	"github.com/mgrazal/attic/config"
	"github.com/mgrazal/attic/credentials"
	"github.com/mgrazal/attic/filesystem"
	attichttp "github.com/mgrazal/attic/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the attic static asset server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8714, "HTTP server port")
	serveCmd.Flags().String("root", "", "directory to serve (env: ATTIC_STATIC_ROOT)")
	serveCmd.Flags().Bool("listing", false, "enable directory listings")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.Load(configFiles, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	setupLogging(cfg.Log.Level)

	info, err := os.Stat(cfg.Static.Root)
	if err != nil {
		return fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %q is not a directory", cfg.Static.Root)
	}

	root, err := os.OpenRoot(cfg.Static.Root)
	if err != nil {
		return fmt.Errorf("open root directory: %w", err)
	}
	defer func() { _ = root.Close() }()

	resolver := filesystem.NewResolver(root)

	var checker attic.CredentialChecker
	if cfg.Listing.Enabled {
		var closeChecker func() error
		checker, closeChecker, err = credentials.NewChecker(ctx, cfg.Listing.Auth)
		if err != nil {
			return fmt.Errorf("build credential checker: %w", err)
		}
		defer func() { _ = closeChecker() }()

		if checker == nil {
			slog.Warn("directory listings are enabled without credentials")
		}
	}

	service, err := attic.NewService(resolver, checker, attic.ServiceConfig{
		AllowDirectoryListing: cfg.Listing.Enabled,
		EnableCompression:     cfg.Static.Compression.Enabled,
		CompressionMinSize:    cfg.Static.Compression.MinSize,
		CacheMaxAge:           cfg.Static.CacheMaxAge,
		ChunkSize:             cfg.Static.ChunkSize,
	})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	handler := attichttp.NewHandler(&attichttp.HandlerConfig{
		ChunkSize: cfg.Static.ChunkSize,
		CORS:      cfg.CORS,
	}, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "root", cfg.Static.Root, "listing", cfg.Listing.Enabled)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
