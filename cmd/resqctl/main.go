package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"resq-relief/resq/internal/config"
	"resq-relief/resq/internal/db"
	"resq-relief/resq/internal/logging"
)

// App holds what every subcommand needs.
type App struct {
	cfg *config.Config
	db  *gorm.DB
}

var app = &App{}

func main() {
	rootCmd := &cobra.Command{
		Use:   "resqctl",
		Short: "ResQ operator CLI",
		Long:  `Maintenance commands for a ResQ deployment: schema migration, admin bootstrap and config inspection.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedAdminCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.AppEnv); err != nil {
		return err
	}
	app.cfg = cfg
	return nil
}

// database opens the connection lazily so `config` works without one.
func (a *App) database() (*gorm.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	gdb, err := db.Open(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.db = gdb
	return gdb, nil
}
