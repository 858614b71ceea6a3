package remote

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

// PushResult holds counters for a push run.
type PushResult struct {
	Pushed  int
	Skipped int
	Errors  int
}

// PushOptions configures a push run.
type PushOptions struct {
	DryRun bool
	// Out receives one progress line per record; nil discards them.
	Out io.Writer
	// Location interprets the records' wall-clock times; nil means time.Local.
	Location *time.Location
}

// shouldSkip returns true if the record cannot become a session yet.
func shouldSkip(r model.Record) bool {
	return r.Open() || r.Start == "" || !r.Type.Valid()
}

// MapRecordToSession converts a closed record into a session row for userID.
// The record's wall-clock times are read in ref's location.
func MapRecordToSession(r model.Record, userID string, ref time.Time) model.Session {
	start := timecalc.ParseDateTime(r.StartDate, r.Start, ref)
	dur := timecalc.IntervalSeconds(r.Start, r.End, r.StartDate, r.EndDate, ref)
	return model.Session{
		UserID:      userID,
		Type:        r.Type,
		StartAt:     start.UTC(),
		EndAt:       start.Add(time.Duration(dur) * time.Second).UTC(),
		DurationSec: dur,
	}
}

// Push upserts every closed record as a session keyed by user and start
// instant, so pushing the same log twice does not duplicate rows.
func (s *Service) Push(ctx context.Context, logs []model.Record, opts PushOptions) (PushResult, error) {
	var result PushResult

	userID, err := s.userID()
	if err != nil {
		return result, err
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	ref := time.Now().In(loc)

	for i, r := range logs {
		if shouldSkip(r) {
			result.Skipped++
			continue
		}
		session := MapRecordToSession(r, userID, ref)
		if !opts.DryRun {
			if _, err := s.store.Upsert(ctx, session, ConflictUserStart); err != nil {
				fmt.Fprintf(out, "  ! Error pushing #%d %s: %v\n", i+1, r.TypeLabel(), err)
				result.Errors++
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				continue
			}
		}
		fmt.Fprintf(out, "  ✓ Pushed:   #%d %s %s %s (%s)\n",
			i+1, r.StartDate, r.Start, r.TypeLabel(), timecalc.FormatDuration(session.DurationSec))
		result.Pushed++
	}
	return result, nil
}
