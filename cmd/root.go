package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/auth"
	"github.com/Tiliavir/worktimer/internal/config"
	"github.com/Tiliavir/worktimer/internal/engine"
	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/remote"
	"github.com/Tiliavir/worktimer/internal/report"
	"github.com/Tiliavir/worktimer/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "wt",
	Short: "Work Timer – track work, breaks and daily activities",
	Long: `wt keeps one current activity and a log of timestamped intervals.
State is stored as JSON in ~/.worktimer/store.json and restored on every
invocation. Closed intervals can be pushed to a remote session table.`,
	Version:       app.BuildVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(checkpointCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(syncCmd)
}

// userErrors are caused by the arguments rather than by storage or the
// backend; they exit with 1.
var userErrors = []error{
	model.ErrUnknownActivity,
	engine.ErrIndexOutOfRange,
	engine.ErrNotDaily,
	engine.ErrOpenNotLast,
	report.ErrNoRecords,
	auth.ErrInvalidInput,
	auth.ErrNotSignedIn,
	remote.ErrNotSignedIn,
	app.ErrNoBackend,
	app.ErrNoAuth,
	storage.ErrUnknownPanel,
	errUsage,
}

var errUsage = errors.New("usage error")

func exitCode(err error) int {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return 1
		}
	}
	return 2
}

// openApp loads the configuration and restores the engine. Log lines go to
// logOut.
func openApp(logOut io.Writer, opts app.Options) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	opts.LogOutput = logOut
	return app.New(cfg, opts)
}
