package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

// Restore builds an engine from the snapshot in store and reconciles it: legacy
// record fields are migrated, an unknown state falls back to paused and an
// open last record decides the current state. A stored work stretch start is
// kept while still working.
func Restore(store Store, opts Options) (*Engine, error) {
	e := New(store, opts)
	if store == nil {
		return e, nil
	}
	snap, err := store.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	e.st = reconcile(snap, e.clock.Now())
	e.log.Debug("state restored",
		slog.String("state", string(e.st.Current)),
		slog.Int("records", len(e.st.Logs)))
	return e, nil
}

func migrateRecord(r model.Record, today string) model.Record {
	if r.StartDate == "" {
		r.StartDate = r.LegacyDate
	}
	if r.StartDate == "" {
		r.StartDate = today
	}
	if r.EndDate == "" && r.End != "" {
		r.EndDate = r.StartDate
	}
	r.LegacyDate = ""
	return r
}

func reconcile(snap model.Snapshot, now time.Time) State {
	today := timecalc.DateString(now)
	logs := make([]model.Record, len(snap.Logs))
	for i, r := range snap.Logs {
		logs[i] = migrateRecord(r, today)
	}

	current := snap.State
	if !current.Valid() || len(logs) == 0 {
		current = model.Paused
	}
	if n := len(logs); n > 0 && logs[n-1].Open() && logs[n-1].Type.Valid() {
		current = logs[n-1].Type
	}

	st := State{Current: current, Logs: logs}
	if current == model.Work {
		cs := workStretchStart(logs, now)
		if snap.ContStart != nil && !snap.ContStart.After(now) {
			cs = *snap.ContStart
		}
		st.ContStart = &cs
	}
	return st
}

// workStretchStart guesses where the running work stretch began for
// snapshots written without a stored stretch start: the start of the
// trailing chain of work records that share the open record's category.
// Without an open work record the stretch starts now.
func workStretchStart(logs []model.Record, now time.Time) time.Time {
	n := len(logs)
	if n == 0 || !logs[n-1].Open() || logs[n-1].Type != model.Work {
		return now
	}
	key := logs[n-1].CategoryKey
	first := n - 1
	for first > 0 {
		prev := logs[first-1]
		if prev.Type != model.Work || prev.CategoryKey != key {
			break
		}
		first--
	}
	start := timecalc.ParseDateTime(logs[first].StartDate, logs[first].Start, now)
	if start.After(now) {
		return now
	}
	return start
}
