package engine

import (
	"fmt"

	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

func (e *Engine) edit(i int, field string, c Change, apply func(r *model.Record) error) error {
	if i < 0 || i >= len(e.st.Logs) {
		return fmt.Errorf("edit %s of record %d: %w", field, i, ErrIndexOutOfRange)
	}
	if err := apply(&e.st.Logs[i]); err != nil {
		return fmt.Errorf("edit %s of record %d: %w", field, i, err)
	}
	e.commit(c)
	return nil
}

// EditStart sets the start time of record i from free-form input.
func (e *Engine) EditStart(i int, raw string) error {
	return e.edit(i, "start", LogChanged|StatsChanged, func(r *model.Record) error {
		r.Start = timecalc.NormalizeTimeInput(raw)
		return nil
	})
}

// EditEnd sets the end time of record i from free-form input. Clearing the
// end is only allowed on the last record and makes its type the current
// state, the same way Restore reads an open last record.
func (e *Engine) EditEnd(i int, raw string) error {
	v := timecalc.NormalizeTimeInput(raw)
	return e.edit(i, "end", LogChanged|StatsChanged, func(r *model.Record) error {
		if v == "" && i != len(e.st.Logs)-1 {
			return ErrOpenNotLast
		}
		r.End = v
		if v == "" {
			e.resume(r.Type)
		}
		return nil
	})
}

// CheckEnd reports whether EditEnd(i, raw) would be accepted.
func (e *Engine) CheckEnd(i int, raw string) error {
	if i < 0 || i >= len(e.st.Logs) {
		return fmt.Errorf("edit end of record %d: %w", i, ErrIndexOutOfRange)
	}
	if timecalc.NormalizeTimeInput(raw) == "" && i != len(e.st.Logs)-1 {
		return fmt.Errorf("edit end of record %d: %w", i, ErrOpenNotLast)
	}
	return nil
}

// resume switches Current to the type of a reopened record.
func (e *Engine) resume(a model.Activity) {
	if !a.Valid() || a == e.st.Current {
		return
	}
	e.st.Current = a
	if a == model.Work {
		now := e.clock.Now()
		e.st.ContStart = &now
	} else {
		e.st.ContStart = nil
	}
	e.st.Notified = false
}

// EditStartDate sets the start date of record i from free-form input.
func (e *Engine) EditStartDate(i int, raw string) error {
	v := timecalc.NormalizeDateInput(raw, e.clock.Now())
	return e.edit(i, "start date", LogChanged|StatsChanged, func(r *model.Record) error {
		r.StartDate = v
		return nil
	})
}

// EditEndDate sets the end date of record i from free-form input.
func (e *Engine) EditEndDate(i int, raw string) error {
	v := timecalc.NormalizeDateInput(raw, e.clock.Now())
	return e.edit(i, "end date", LogChanged|StatsChanged, func(r *model.Record) error {
		r.EndDate = v
		return nil
	})
}

// EditImportant replaces the important note of record i.
func (e *Engine) EditImportant(i int, text string) error {
	return e.edit(i, "important", LogChanged, func(r *model.Record) error {
		r.Important = text
		return nil
	})
}

// EditNote replaces the note of record i.
func (e *Engine) EditNote(i int, text string) error {
	return e.edit(i, "note", LogChanged, func(r *model.Record) error {
		r.Note = text
		return nil
	})
}
