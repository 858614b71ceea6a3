package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/report"
	"github.com/Tiliavir/worktimer/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all records as CSV",
	Long: `Writes every record as CSV with all values quoted and CRLF line endings.
Use --out - to write to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", report.DefaultCSVName, "Output file, - for stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	logs := a.Engine.State().Logs

	if exportOut == "-" {
		return report.WriteCSV(os.Stdout, logs, a.Engine.Now())
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, logs, a.Engine.Now()); err != nil {
		if errors.Is(err, report.ErrNoRecords) {
			return fmt.Errorf("nothing to export: %w", err)
		}
		return err
	}
	if err := storage.WriteFileAtomic(exportOut, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Printf("Exported %d records to %s\n", len(logs), exportOut)
	return nil
}
