package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nhle/tpq-attendance/internal/logger"
	"github.com/nhle/tpq-attendance/internal/model"
	"github.com/nhle/tpq-attendance/internal/store"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	backupPath string
	month      string
	student    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tpq",
		Short:         "Student attendance for a TPQ",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides database.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")

	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}
	dbUpgradeCmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Apply pending schema migrations",
		RunE:  runDBUpgrade,
	}
	dbUpgradeCmd.Flags().StringVar(&backupPath, "backup", "", "copy the database here before upgrading")
	dbVerifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check schema version, integrity and foreign keys",
		RunE:  runDBVerify,
	}
	dbVersionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the schema version without upgrading",
		RunE:  runDBVersion,
	}
	dbCmd.AddCommand(dbUpgradeCmd, dbVerifyCmd, dbVersionCmd)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the monthly attendance report",
		RunE:  runReport,
	}
	reportCmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	reportCmd.Flags().StringVar(&student, "student", "", "report on one student code instead of the class")

	rootCmd.AddCommand(dbCmd, reportCmd)
	return rootCmd
}

// loadConfig merges defaults, the config file, TPQ_* variables and the
// global flags.
func loadConfig(cmd *cobra.Command) (*model.AppConfig, error) {
	v := model.NewViper()
	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		"database.path": "db",
		"log.level":     "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return model.LoadConfigWith(v, configPath)
}

// openStore loads the configuration and opens the database, logging to
// stderr.
func openStore(cmd *cobra.Command) (*model.AppConfig, *store.Handle, logger.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(os.Stderr, cfg.Log.Level)
	return cfg, store.NewHandle(cfg.Database.Path, store.WithLogger(log)), log, nil
}
