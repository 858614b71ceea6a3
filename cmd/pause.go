package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/engine"
	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Stop the running interval and pause",
	Args:  cobra.NoArgs,
	RunE:  runPause,
}

func runPause(cmd *cobra.Command, args []string) error {
	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	return pause(os.Stdout, a.Engine)
}

// pause closes the running interval and reports its length. Pausing twice
// is a no-op.
func pause(w io.Writer, eng *engine.Engine) error {
	if eng.Current() == model.Paused {
		fmt.Fprintln(w, "Already paused.")
		return nil
	}
	prev := eng.Current()
	closing := eng.Len() - 1

	if err := eng.PauseTimer(); err != nil {
		return err
	}

	if r, err := eng.Record(closing); err == nil && !r.Open() {
		elapsed := timecalc.IntervalSeconds(r.Start, r.End, r.StartDate, r.EndDate, eng.Now())
		fmt.Fprintf(w, "Paused %s. Elapsed: %s\n", prev.Label(), formatElapsed(elapsed))
		return nil
	}
	fmt.Fprintf(w, "Paused %s.\n", prev.Label())
	return nil
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
