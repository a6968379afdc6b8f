package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/tpq-attendance/internal/app"
	"github.com/nhle/tpq-attendance/internal/logger"
	"github.com/nhle/tpq-attendance/internal/store"
	"github.com/nhle/tpq-attendance/internal/theme"
	"github.com/nhle/tpq-attendance/internal/ui/settings"
)

// runTUI opens the database and runs the interactive application. Logs go
// to the configured file so they do not draw over the screen.
func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closer, err := logger.NewFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	if !theme.Use(cfg.Display.Theme) {
		log.Warn("unknown theme, using default", "theme", cfg.Display.Theme)
	}

	h := store.NewHandle(cfg.Database.Path, store.WithLogger(log))
	defer h.Close()

	s, err := h.Get()
	if err != nil {
		log.Error("opening database failed", "path", cfg.Database.Path, "err", err)
		return fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
	}

	p := tea.NewProgram(
		app.New(s, cfg, settings.Saver(configPath), log),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
