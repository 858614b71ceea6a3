package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/engine"
)

var (
	editStart     string
	editEnd       string
	editStartDate string
	editEndDate   string
	editImportant string
	editNote      string
)

var editCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Edit fields of a record (see wt list for indexes)",
	Long: `Edits one record. Times accept loose input such as 9, 930 or 9:30:5 and
dates such as 27.2, 2026-2-27 or 26/02/27; both are normalized.
An empty --end reopens a record, which is only allowed for the last one.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editStart, "start", "", "Start time")
	editCmd.Flags().StringVar(&editEnd, "end", "", "End time")
	editCmd.Flags().StringVar(&editStartDate, "start-date", "", "Start date")
	editCmd.Flags().StringVar(&editEndDate, "end-date", "", "End date")
	editCmd.Flags().StringVar(&editImportant, "important", "", "Label text")
	editCmd.Flags().StringVar(&editNote, "note", "", "Free-form note")
}

// parseIndex parses a record index argument.
func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: invalid record index %q", errUsage, s)
	}
	return i, nil
}

type editField struct {
	flag  string
	value string
	apply func(*engine.Engine, int, string) error
}

func runEdit(cmd *cobra.Command, args []string) error {
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	all := []editField{
		{"start-date", editStartDate, (*engine.Engine).EditStartDate},
		{"start", editStart, (*engine.Engine).EditStart},
		{"end-date", editEndDate, (*engine.Engine).EditEndDate},
		{"end", editEnd, (*engine.Engine).EditEnd},
		{"important", editImportant, (*engine.Engine).EditImportant},
		{"note", editNote, (*engine.Engine).EditNote},
	}
	var edits []editField
	for _, e := range all {
		if cmd.Flags().Changed(e.flag) {
			edits = append(edits, e)
		}
	}
	if len(edits) == 0 {
		return fmt.Errorf("%w: nothing to edit, pass at least one field flag", errUsage)
	}

	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := applyEdits(a.Engine, i, edits); err != nil {
		return err
	}

	r, err := a.Engine.Record(i)
	if err != nil {
		return err
	}
	fmt.Printf("Record %d: %s %s – %s %s  %s\n", i, r.StartDate, r.Start, r.EndDate, r.End, r.TypeLabel())
	return nil
}

// applyEdits checks the index and the end guard before touching the record,
// so a rejected edit leaves every field unchanged.
func applyEdits(eng *engine.Engine, i int, edits []editField) error {
	if _, err := eng.Record(i); err != nil {
		return err
	}
	for _, e := range edits {
		if e.flag == "end" {
			if err := eng.CheckEnd(i, e.value); err != nil {
				return err
			}
		}
	}
	for _, e := range edits {
		if err := e.apply(eng, i, e.value); err != nil {
			return err
		}
	}
	return nil
}
