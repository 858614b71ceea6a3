package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Delete a record (see wt list for indexes)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Engine.DeleteRecord(i); err != nil {
		return err
	}
	fmt.Printf("Deleted record %d. Now %s.\n", i, a.Engine.Current().Label())
	return nil
}
