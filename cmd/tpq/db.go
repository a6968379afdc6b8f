package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/tpq-attendance/internal/store"
)

// runDBUpgrade optionally copies the database aside, then opens it, which
// migrates it to the latest schema.
func runDBUpgrade(cmd *cobra.Command, _ []string) error {
	cfg, h, log, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer h.Close()

	ctx := cmd.Context()
	before := 0
	if _, statErr := os.Stat(cfg.Database.Path); statErr == nil {
		if before, err = store.ReadVersion(ctx, cfg.Database.Path); err != nil {
			return err
		}
		if backupPath != "" && before < store.LatestVersion {
			if err := store.BackupFile(ctx, cfg.Database.Path, backupPath); err != nil {
				return err
			}
			log.Info("database backed up", "path", backupPath, "version", before)
		}
	}

	s, err := h.Get()
	if err != nil {
		return fmt.Errorf("upgrading %s: %w", cfg.Database.Path, err)
	}
	after, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if before == after {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date (v%d)\n", cfg.Database.Path, after)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s upgraded from v%d to v%d\n", cfg.Database.Path, before, after)
	}
	return nil
}

// runDBVerify checks the upgraded database.
func runDBVerify(cmd *cobra.Command, _ []string) error {
	_, h, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer h.Close()

	s, err := h.Get()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	v, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if err := s.Verify(ctx); err != nil {
		return fmt.Errorf("%s (v%d): %w", s.Path(), v, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: schema v%d, integrity ok\n", s.Path(), v)
	return nil
}

// runDBVersion prints the schema version as found on disk.
func runDBVersion(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	v, err := store.ReadVersion(cmd.Context(), cfg.Database.Path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s does not exist yet\n", cfg.Database.Path)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "v%d (latest v%d)\n", v, store.LatestVersion)
	return nil
}
