package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

var (
	startCategory string
	startLabel    string
)

var startCmd = &cobra.Command{
	Use:   "start <activity>",
	Short: "Switch to an activity (work, break, paused, game, outing, exercise, job, secret, sleep)",
	Long: `Closes the running interval and opens a new one for activity.

Work may carry a category; starting work on another category while working
opens a new interval. Starting the running daily category again re-stamps it.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&startCategory, "category", "", "Work category key (default from config)")
	startCmd.Flags().StringVar(&startLabel, "label", "", "Category label for work, record label for daily categories")
}

func runStart(cmd *cobra.Command, args []string) error {
	activity, err := model.ParseActivity(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	eng := a.Engine

	switch {
	case activity.IsDaily():
		err = eng.StartDaily(activity, startLabel)
	case activity == model.Work:
		category, label := startCategory, startLabel
		if category == "" {
			category = a.Config.Timer.DefaultCategory
			if label == "" {
				label = a.Config.Timer.DefaultCategoryLabel
			}
		}
		if category != "" && label == "" {
			label = category
		}
		err = eng.StartCategoryWork(category, label)
	default:
		err = eng.ChangeState(activity, "", "")
	}
	if err != nil {
		return err
	}

	fmt.Printf("Started %s at %s\n", describeCurrent(eng.State().Logs, eng.Current()), timecalc.TimeOfDay(eng.Now()))
	return nil
}

// describeCurrent names the running activity, with its label for work and
// daily categories.
func describeCurrent(logs []model.Record, current model.Activity) string {
	if len(logs) > 0 {
		if last := logs[len(logs)-1]; last.Open() && last.Type == current {
			if l := last.TypeLabel(); l != current.Label() {
				return fmt.Sprintf("%s (%s)", current.Label(), l)
			}
		}
	}
	return current.Label()
}
