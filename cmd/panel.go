package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/config"
	"github.com/Tiliavir/worktimer/internal/storage"
)

var panelCmd = &cobra.Command{
	Use:   "panel [id]",
	Short: "Show dashboard panels or toggle one open/collapsed",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPanel,
}

func runPanel(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store := storage.New(cfg.DataDir)

	if len(args) == 1 {
		collapsed, err := store.TogglePanel(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", args[0], panelState(collapsed))
		return nil
	}

	ids := append(append([]string{}, storage.CategoryPanels...), storage.Panels...)
	for _, id := range ids {
		collapsed, err := store.PanelCollapsed(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Printf("%-14s %s\n", id, panelState(collapsed))
	}
	return nil
}

func panelState(collapsed bool) string {
	if collapsed {
		return "collapsed"
	}
	return "open"
}
