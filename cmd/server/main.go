package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"farmhub/config"
	"farmhub/database"
	"farmhub/internal/app"
	"farmhub/pkg/logging"
	"farmhub/pkg/seed"
)

var (
	cfg      config.AppConfig
	log      *zap.Logger
	seedPath string

	rootCmd = &cobra.Command{
		Use:           "farmhub",
		Short:         "Farm management API: crops, health, weeds, resources and finances",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			l, err := logging.New(cfg.Debug)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP server",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := openDB()
			return err
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Upsert the disease and weed reference catalog",
		RunE:  runSeed,
	}
)

func init() {
	seedCmd.Flags().StringVarP(&seedPath, "file", "f", "", "catalog YAML (defaults to SEED_FILE)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func openDB() (*gorm.DB, error) {
	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	db, err := database.Open(cfg.DBDriver, dsn, cfg.Debug)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, log); err != nil {
		return nil, err
	}
	log.Info("database ready", zap.String("driver", cfg.DBDriver))
	return db, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, db, app.Collaborators{}, log)
	if err != nil {
		return err
	}
	log.Info("config", zap.Any("config", cfg.Redacted()))

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := a.Echo.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	path := seedPath
	if path == "" {
		path = cfg.SeedFile
	}
	catalog, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	a, err := app.New(cmd.Context(), cfg, db, app.Collaborators{}, log)
	if err != nil {
		return err
	}
	res, err := seed.Apply(cmd.Context(), catalog, a.Diseases, a.Weeds, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "diseases: %d created, %d updated; weeds: %d created, %d updated\n",
		res.DiseasesCreated, res.DiseasesUpdated, res.WeedsCreated, res.WeedsUpdated)
	return nil
}

func main() {
	err := rootCmd.Execute()
	if log != nil {
		_ = log.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
