package engine

import (
	"log/slog"
	"time"

	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/timecalc"
)

// NotifyAfter is the continuous work, in seconds, after which the reminder
// fires.
const NotifyAfter = 25 * 60

const (
	notifyTitle = "Work Timer"
	notifyBody  = "You have been working for 25 minutes. Time for a break!"
)

// Stats is the derived view of a log at one instant. All values are seconds.
type Stats struct {
	At              time.Time
	Current         model.Activity
	Totals          map[model.Activity]int64
	ContinuousWork  int64
	RestEntitlement int64
	RemainingRest   int64
}

// Total returns the accumulated seconds for a.
func (s Stats) Total(a model.Activity) int64 {
	return s.Totals[a]
}

// RestEntitlement returns the break time earned by totalWork seconds of work:
// 12 minutes per hour, plus 30 minutes once past 100 minutes and another 30
// once past 4 hours.
func RestEntitlement(totalWork int64) int64 {
	if totalWork <= 0 {
		return 0
	}
	return totalWork*12/60 + 1800*(totalWork/6000) + 1800*(totalWork/14400)
}

// Aggregate folds logs into per-activity totals at now.
func Aggregate(logs []model.Record, current model.Activity, contStart *time.Time, now time.Time) Stats {
	st := Stats{
		At:      now,
		Current: current,
		Totals:  map[model.Activity]int64{},
	}
	for _, r := range logs {
		if r.Start == "" || !r.Type.Valid() {
			continue
		}
		var secs int64
		if r.Open() {
			secs = timecalc.ElapsedSeconds(r.Start, r.StartDate, now)
		} else {
			secs = timecalc.IntervalSeconds(r.Start, r.End, r.StartDate, r.EndDate, now)
		}
		st.Totals[r.Type] += secs
	}

	if current == model.Work && contStart != nil {
		if d := int64(now.Sub(*contStart) / time.Second); d > 0 {
			st.ContinuousWork = d
		}
	}

	st.RestEntitlement = RestEntitlement(st.Totals[model.Work])
	st.RemainingRest = max(0, st.RestEntitlement-st.Totals[model.Break])
	return st
}

// Stats returns the aggregation of the current state without side effects.
func (e *Engine) Stats() Stats {
	return Aggregate(e.st.Logs, e.st.Current, e.st.ContStart, e.clock.Now())
}

// Tick recomputes the stats and fires the continuous-work reminder once per
// work stretch.
func (e *Engine) Tick() Stats {
	st := e.Stats()
	if !e.st.Notified && st.ContinuousWork >= NotifyAfter {
		e.st.Notified = true
		e.log.Debug("continuous work reminder", slog.Int64("seconds", st.ContinuousWork))
		e.notifier.Notify(notifyTitle, notifyBody)
	}
	e.publish(StatsChanged)
	return st
}
