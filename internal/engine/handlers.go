package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

const resetPrompt = "Really reset all records?"

// closeOpen stamps the open last record, if any, with now.
func (e *Engine) closeOpen(now time.Time) {
	n := len(e.st.Logs)
	if n == 0 || !e.st.Logs[n-1].Open() {
		return
	}
	e.st.Logs[n-1].End = timecalc.TimeOfDay(now)
	e.st.Logs[n-1].EndDate = timecalc.DateString(now)
}

func openRecord(now time.Time, a model.Activity) model.Record {
	return model.Record{
		StartDate: timecalc.DateString(now),
		Type:      a,
		Start:     timecalc.TimeOfDay(now),
	}
}

// ChangeState switches to newState, closing the open record and opening a
// new one. Switching to the current state does nothing, except for work
// with a category, which may be a category switch.
func (e *Engine) ChangeState(newState model.Activity, categoryKey, categoryLabel string) error {
	if !newState.Valid() {
		return fmt.Errorf("change state: %w: %q", model.ErrUnknownActivity, newState)
	}
	important := ""
	if newState == model.Work && categoryKey != "" {
		important = categoryLabel
	}
	if e.transition(newState, categoryKey, categoryLabel, important) {
		e.commit(LogChanged | StatsChanged)
	}
	return nil
}

// transition applies a state change without persisting it. It reports
// whether anything changed.
func (e *Engine) transition(newState model.Activity, categoryKey, categoryLabel, important string) bool {
	if e.st.Current == newState && !(newState == model.Work && categoryKey != "") {
		return false
	}

	now := e.clock.Now()
	e.closeOpen(now)

	rec := openRecord(now, newState)
	if newState == model.Work && categoryKey != "" {
		rec.CategoryKey = categoryKey
		rec.CategoryLabel = categoryLabel
	}
	rec.Important = important
	e.st.Logs = append(e.st.Logs, rec)
	prev := e.st.Current
	e.st.Current = newState

	if newState == model.Work {
		e.st.ContStart = &now
	} else {
		e.st.ContStart = nil
	}
	e.st.Notified = false

	e.log.Debug("state changed",
		slog.String("from", string(prev)),
		slog.String("to", string(newState)),
		slog.String("category", categoryKey))
	return true
}

// StartDaily switches to a daily category. When that category is already
// active, the running interval is closed and a fresh one of the same type
// opened, leaving the state untouched. New daily records are labelled with
// label, or the category name when label is empty.
func (e *Engine) StartDaily(key model.Activity, label string) error {
	if !key.IsDaily() {
		return fmt.Errorf("start daily: %w: %q", ErrNotDaily, key)
	}
	if label == "" {
		label = key.Label()
	}

	if e.st.Current == key && len(e.st.Logs) > 0 {
		now := e.clock.Now()
		e.closeOpen(now)
		rec := openRecord(now, key)
		rec.Important = label
		e.st.Logs = append(e.st.Logs, rec)
		e.commit(LogChanged | StatsChanged)
		return nil
	}

	if e.transition(key, "", "", label) {
		e.commit(LogChanged | StatsChanged)
	}
	return nil
}

// StartCategoryWork starts work on the given category.
func (e *Engine) StartCategoryWork(categoryKey, label string) error {
	return e.ChangeState(model.Work, categoryKey, label)
}

// PauseTimer switches to paused.
func (e *Engine) PauseTimer() error {
	return e.ChangeState(model.Paused, "", "")
}

// StartBreak switches to break.
func (e *Engine) StartBreak() error {
	return e.ChangeState(model.Break, "", "")
}

// LogWork records a checkpoint while working: the running work interval is
// closed and a new one opened for the same category. It reports whether a
// checkpoint was recorded.
func (e *Engine) LogWork() bool {
	if e.st.Current != model.Work || len(e.st.Logs) == 0 {
		return false
	}

	now := e.clock.Now()
	e.closeOpen(now)

	last := e.st.Logs[len(e.st.Logs)-1]
	label := last.CategoryLabel
	if label == "" {
		label = last.Important
	}
	rec := openRecord(now, model.Work)
	rec.CategoryKey = last.CategoryKey
	rec.CategoryLabel = label
	rec.Important = label
	e.st.Logs = append(e.st.Logs, rec)

	e.commit(LogChanged | StatsChanged)
	return true
}

// Reset clears every record after the Confirmer approves. It reports
// whether the reset happened.
func (e *Engine) Reset() bool {
	if !e.confirmer.Confirm(resetPrompt) {
		return false
	}
	e.st = State{Current: model.Paused}
	e.log.Debug("timer reset")
	e.commit(LogChanged | StatsChanged)
	return true
}

// DeleteRecord removes the record at index i. Removing the open last record
// or the final remaining record returns the engine to paused.
func (e *Engine) DeleteRecord(i int) error {
	if i < 0 || i >= len(e.st.Logs) {
		return fmt.Errorf("delete record %d: %w", i, ErrIndexOutOfRange)
	}
	wasLastOpen := i == len(e.st.Logs)-1 && e.st.Logs[i].Open()
	e.st.Logs = append(e.st.Logs[:i], e.st.Logs[i+1:]...)

	if wasLastOpen || len(e.st.Logs) == 0 {
		e.st.Current = model.Paused
		e.st.ContStart = nil
		e.st.Notified = false
	}
	e.commit(LogChanged | StatsChanged)
	return nil
}
