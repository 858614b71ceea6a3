package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Close the running work interval and continue in a new one",
	Args:  cobra.NoArgs,
	RunE:  runCheckpoint,
}

func runCheckpoint(cmd *cobra.Command, args []string) error {
	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Engine.LogWork() {
		return fmt.Errorf("%w: not working, nothing to checkpoint", errUsage)
	}
	fmt.Printf("Checkpoint at %s\n", timecalc.TimeOfDay(a.Engine.Now()))
	return nil
}
