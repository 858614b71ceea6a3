package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/engine"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all records and pause",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")
}

// promptYesNo writes prompt to w and reads one answer line from r. Only y
// and yes (any case) confirm.
func promptYesNo(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func runReset(cmd *cobra.Command, args []string) error {
	confirm := engine.ConfirmerFunc(func(prompt string) bool {
		return resetYes || promptYesNo(os.Stdin, os.Stdout, prompt)
	})

	a, err := openApp(os.Stderr, app.Options{Confirmer: confirm})
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Engine.Reset() {
		fmt.Println("Reset cancelled.")
		return nil
	}
	fmt.Println("All records deleted.")
	return nil
}
