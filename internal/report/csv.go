// Package report renders the activity log and its statistics for export.
package report

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

// ErrNoRecords is returned when there is nothing to export.
var ErrNoRecords = errors.New("no records to export")

// DefaultCSVName is the file name used when exporting to a file.
const DefaultCSVName = "work_timer_log.csv"

var csvHeader = []string{"No", "Start Date", "End Date", "Type", "Start", "End", "Total", "Important", "Note"}

// WriteCSV writes logs as CSV: every value quoted, rows separated by CRLF.
// Line breaks are removed from the free-text columns. Nothing is written
// when logs is empty.
func WriteCSV(w io.Writer, logs []model.Record, ref time.Time) error {
	if len(logs) == 0 {
		return ErrNoRecords
	}

	lines := make([]string, 0, len(logs)+1)
	lines = append(lines, csvLine(csvHeader))
	for i, r := range logs {
		total := ""
		if r.Start != "" && r.End != "" {
			total = timecalc.FormatDuration(timecalc.IntervalSeconds(r.Start, r.End, r.StartDate, r.EndDate, ref))
		}
		lines = append(lines, csvLine([]string{
			strconv.Itoa(i + 1),
			r.StartDate,
			r.EndDate,
			r.TypeLabel(),
			r.Start,
			r.End,
			total,
			stripNewlines(r.Important),
			stripNewlines(r.Note),
		}))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\r\n"))
	return err
}

func csvLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = csvQuote(f)
	}
	return strings.Join(quoted, ",")
}

// csvQuote always wraps s in quotes, doubling internal quotes.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r\n", "", "\n", "", "\r", "").Replace(s)
}
