package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/engine"
	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/report"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

var (
	reportToday  bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show totals per activity, continuous work and rest",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportToday, "today", false, "Only count records started today")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	st := a.Engine.Stats()
	if reportToday {
		state := a.Engine.State()
		st = engine.Aggregate(startedSince(state.Logs, timecalc.StartOfDay(st.At)), state.Current, state.ContStart, st.At)
	}
	return report.WriteSummary(os.Stdout, st, reportFormat)
}

// startedSince keeps the records starting at or after from.
func startedSince(logs []model.Record, from time.Time) []model.Record {
	var out []model.Record
	for _, r := range logs {
		if !timecalc.ParseDateTime(r.StartDate, r.Start, from).Before(from) {
			out = append(out, r)
		}
	}
	return out
}
