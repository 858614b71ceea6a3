package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current timer status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	eng := a.Engine
	st := eng.Stats()
	logs := eng.State().Logs

	if len(logs) > 0 && logs[len(logs)-1].Open() {
		r := logs[len(logs)-1]
		fmt.Printf("Running: %s\n", describeCurrent(logs, eng.Current()))
		fmt.Printf("  Since: %s %s\n", r.StartDate, r.Start)
		fmt.Printf("  Elapsed: %s\n", timecalc.FormatDuration(timecalc.ElapsedSeconds(r.Start, r.StartDate, st.At)))
	} else {
		fmt.Printf("%s, no running interval.\n", eng.Current().Label())
	}

	if eng.Current() == model.Work {
		fmt.Printf("  Continuous work: %s\n", timecalc.FormatDuration(st.ContinuousWork))
	}
	fmt.Printf("Worked %s, rest entitlement %s, remaining rest %s.\n",
		timecalc.FormatDuration(st.Total(model.Work)),
		timecalc.FormatDuration(st.RestEntitlement),
		timecalc.FormatDuration(st.RemainingRest))
	return nil
}
