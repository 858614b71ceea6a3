package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/config"
	"github.com/Tiliavir/worktimer/internal/dashboard"
)

var watchRows int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live dashboard",
	Long: `Shows status, totals and the latest records, refreshed every second.
A reminder is shown after 25 minutes of continuous work.
Log output goes to wt.log in the data directory while the dashboard runs.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchRows, "rows", 8, "Number of log rows to show")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "wt.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	hooks := &dashboard.Hooks{Bell: os.Stderr}
	a, err := app.New(cfg, app.Options{Notifier: hooks, Confirmer: hooks, LogOutput: logFile})
	if err != nil {
		return err
	}
	defer a.Close()

	m := dashboard.New(a.Engine, hooks, a.Storage, dashboard.Config{
		Category:      cfg.Timer.DefaultCategory,
		CategoryLabel: cfg.Timer.DefaultCategoryLabel,
		Rows:          watchRows,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
