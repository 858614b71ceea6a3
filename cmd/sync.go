package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/remote"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

var (
	syncDryRun bool
	syncLimit  int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Remote session table integration",
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upsert all closed records as sessions",
	Args:  cobra.NoArgs,
	RunE:  runSyncPush,
}

var syncLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "List the newest remote sessions",
	Args:  cobra.NoArgs,
	RunE:  runSyncLatest,
}

func init() {
	syncPushCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print planned operations without writing")
	syncLatestCmd.Flags().IntVar(&syncLimit, "limit", remote.DefaultFetchLimit, "Maximum number of sessions")
	syncCmd.AddCommand(syncPushCmd, syncLatestCmd)
}

func runSyncPush(cmd *cobra.Command, args []string) error {
	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	svc, err := a.Remote(cmd.Context())
	if err != nil {
		return err
	}

	dryTag := ""
	if syncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Pushing records to %s%s...\n", a.Config.Backend.Table, dryTag)
	fmt.Println()

	result, err := svc.Push(cmd.Context(), a.Engine.State().Logs, remote.PushOptions{
		DryRun: syncDryRun,
		Out:    os.Stdout,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d pushed\n", result.Pushed)
	fmt.Printf("  %d skipped\n", result.Skipped)
	if result.Errors > 0 {
		return fmt.Errorf("%d records failed to push", result.Errors)
	}
	return nil
}

func runSyncLatest(cmd *cobra.Command, args []string) error {
	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	svc, err := a.Remote(cmd.Context())
	if err != nil {
		return err
	}
	sessions, err := svc.Latest(cmd.Context(), syncLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}
	for _, s := range sessions {
		start := s.StartAt.Local()
		fmt.Printf("%s %s  %-9s %s\n",
			timecalc.DateString(start), timecalc.TimeOfDay(start), s.Type.Label(), timecalc.FormatDuration(s.DurationSec))
	}
	return nil
}
