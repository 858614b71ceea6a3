package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Tiliavir/worktimer/internal/engine"
	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

type summaryJSON struct {
	Status          model.Activity   `json:"status"`
	Totals          map[string]int64 `json:"totals_seconds"`
	ContinuousWork  int64            `json:"continuous_work_seconds"`
	RestEntitlement int64            `json:"rest_entitlement_seconds"`
	RemainingRest   int64            `json:"remaining_rest_seconds"`
}

// WriteSummary prints the statistics either as a fixed-width table ("md")
// or as JSON.
func WriteSummary(w io.Writer, st engine.Stats, format string) error {
	switch format {
	case "json":
		out := summaryJSON{
			Status:          st.Current,
			Totals:          map[string]int64{},
			ContinuousWork:  st.ContinuousWork,
			RestEntitlement: st.RestEntitlement,
			RemainingRest:   st.RemainingRest,
		}
		for _, a := range model.Activities {
			out.Totals[string(a)] = st.Total(a)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "md", "":
		fmt.Fprintf(w, "Status: %s\n", st.Current.Label())
		fmt.Fprintln(w, "--------------------------------")
		for _, a := range model.Activities {
			fmt.Fprintf(w, "%-20s%s\n", a.Label(), timecalc.FormatDuration(st.Total(a)))
		}
		fmt.Fprintln(w, "--------------------------------")
		fmt.Fprintf(w, "%-20s%s\n", "Continuous work", timecalc.FormatDuration(st.ContinuousWork))
		fmt.Fprintf(w, "%-20s%s\n", "Rest entitlement", timecalc.FormatDuration(st.RestEntitlement))
		_, err := fmt.Fprintf(w, "%-20s%s\n", "Remaining rest", timecalc.FormatDuration(st.RemainingRest))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
