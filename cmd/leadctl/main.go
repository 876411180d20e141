// Command leadctl runs buyer-lead maintenance against the configured store:
// bulk CSV import and export, issuing session tokens, and purging expired
// idempotency keys. It reads the same environment (and .env) as the server.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/config"
	"github.com/tbourn/go-leads-backend/internal/repo"
	"github.com/tbourn/go-leads-backend/internal/services"
	"github.com/tbourn/go-leads-backend/internal/sysutil"
	"github.com/tbourn/go-leads-backend/internal/validation"
)

// Set via -ldflags "-X main.version=...".
var version = "dev"

// app is what subcommands share once PersistentPreRunE has opened the store.
type app struct {
	cfg    config.Config
	db     *gorm.DB
	buyers *services.BuyerService
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var envFile string

	root := &cobra.Command{
		Use:          "leadctl",
		Short:        "Buyer lead maintenance tool",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("reading %s: %w", envFile, err)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			sysutil.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, true, "")

			db, err := repo.Open(cfg.DB)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			if err := repo.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}

			a.cfg = cfg
			a.db = db
			a.buyers = services.NewBuyerService(db, validation.New(validation.BHKPolicy(cfg.BHKPolicy)))
			a.buyers.MaxImportRows = cfg.Import.MaxRows
			a.buyers.MaxImportBytes = cfg.Import.MaxBytes
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.db == nil {
				return
			}
			if sqlDB, err := a.db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(newImportCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newTokenCmd(a))
	root.AddCommand(newPurgeCmd(a))
	return root
}
