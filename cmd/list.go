package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

var listToday bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List interval records with their index",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Only records started today")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	printList(os.Stdout, a.Engine.State().Logs, a.Engine.Now(), listToday)
	return nil
}

// printList prints records grouped by start date. Indexes are the ones
// edit and delete expect.
func printList(w io.Writer, logs []model.Record, now time.Time, todayOnly bool) {
	var currentDay string
	printed := 0
	for i, r := range logs {
		if todayOnly && !timecalc.SameDay(timecalc.ParseDateTime(r.StartDate, r.Start, now), now) {
			continue
		}
		if r.StartDate != currentDay {
			fmt.Fprintln(w, r.StartDate)
			currentDay = r.StartDate
		}

		end := r.End
		var dur int64
		if r.Open() {
			end = "ongoing"
			dur = timecalc.ElapsedSeconds(r.Start, r.StartDate, now)
		} else {
			dur = timecalc.IntervalSeconds(r.Start, r.End, r.StartDate, r.EndDate, now)
		}

		note := ""
		if r.Note != "" {
			note = "  # " + r.Note
		}
		fmt.Fprintf(w, "%4d  %s–%s  %-14s %s%s\n", i, r.Start, end, r.TypeLabel(), timecalc.FormatDuration(dur), note)
		printed++
	}
	if printed == 0 {
		fmt.Fprintln(w, "No records found.")
	}
}
