package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lab-cost-estimator/app"
	"lab-cost-estimator/utils"
)

var cfg app.Config

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "labcost",
		Short:         "Lab experiment cost estimator",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadDotEnv()
			var err error
			if cfg, err = app.LoadConfig(); err != nil {
				return err
			}
			return utils.InitLogger(cfg.Env, cfg.LogLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			utils.SyncLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newCalculateCmd(), newExportCmd())
	return root
}

// loadDotEnv loads .env in development. In production, variables are set directly.
func loadDotEnv() {
	if os.Getenv("ENV") == "production" {
		return
	}
	// Overload so .env values win over the shell environment
	if err := godotenv.Overload(".env"); err != nil {
		log.Printf("Warning: .env file not found, using system environment variables")
		return
	}
	log.Printf("Successfully loaded environment variables from .env")
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Initialize(ctx, cfg)
	if err != nil {
		utils.Log.Errorf("❌ Initialization failed: %v", err)
		return err
	}
	defer application.Close()

	if cfg.WatchDataFiles {
		if err := application.WatchDataFiles(ctx); err != nil {
			utils.Log.Warnf("⚠️  Data file watcher not started: %v", err)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Log.Infof("Server starting on %s", srv.Addr)
		utils.Log.Infof("Calculate endpoint: POST %s/api/calculate", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			utils.Log.Errorf("❌ Server failed to start: %v", err)
		}
		return err
	case <-ctx.Done():
	}

	utils.Log.Infof("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
