package engine_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worktimer/internal/engine"
	"github.com/Tiliavir/worktimer/internal/model"
)

func TestRestEntitlement(t *testing.T) {
	tests := []struct {
		work int64
		want int64
	}{
		{0, 0},
		{-10, 0},
		{60, 12},
		{5999, 1199},
		{6000, 3000},
		{12000, 2400 + 3600},
		{14400, 2880 + 3600 + 1800},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.RestEntitlement(tt.work), "work=%d", tt.work)
	}
}

func TestAggregate(t *testing.T) {
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	logs := []model.Record{
		{StartDate: "2026/02/27", EndDate: "2026/02/27", Type: model.Work, Start: "08:00:00", End: "09:40:00"},
		{StartDate: "2026/02/27", EndDate: "2026/02/27", Type: model.Break, Start: "09:40:00", End: "10:00:00"},
		{StartDate: "2026/02/27", EndDate: "2026/02/27", Type: model.Game, Start: "10:00:00", End: "10:30:00"},
		{StartDate: "2026/02/27", Type: model.Paused, Start: "", End: "10:40:00"},
		{StartDate: "2026/02/27", EndDate: "2026/02/27", Type: "nap", Start: "10:30:00", End: "11:00:00"},
		{StartDate: "2026/02/27", Type: model.Work, Start: "11:00:00"},
	}
	cs := time.Date(2026, 2, 27, 11, 0, 0, 0, time.UTC)

	st := engine.Aggregate(logs, model.Work, &cs, now)
	assert.Equal(t, int64(6000+3600), st.Total(model.Work))
	assert.Equal(t, int64(1200), st.Total(model.Break))
	assert.Equal(t, int64(1800), st.Total(model.Game))
	assert.Zero(t, st.Total(model.Paused))
	assert.Zero(t, st.Total("nap"))
	assert.Equal(t, int64(3600), st.ContinuousWork)
	assert.Equal(t, engine.RestEntitlement(9600), st.RestEntitlement)
	assert.Equal(t, st.RestEntitlement-1200, st.RemainingRest)

	st = engine.Aggregate(logs, model.Break, nil, now)
	assert.Zero(t, st.ContinuousWork)
}

func TestAggregateRemainingRestNeverNegative(t *testing.T) {
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	logs := []model.Record{
		{StartDate: "2026/02/27", EndDate: "2026/02/27", Type: model.Work, Start: "08:00:00", End: "09:40:00"},
		{StartDate: "2026/02/27", EndDate: "2026/02/27", Type: model.Break, Start: "09:40:00", End: "11:00:00"},
	}
	st := engine.Aggregate(logs, model.Paused, nil, now)
	assert.Equal(t, int64(3000), st.RestEntitlement)
	assert.Zero(t, st.RemainingRest)
}

func TestAggregateOpenRecordInFuture(t *testing.T) {
	now := time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)
	logs := []model.Record{{StartDate: "2026/02/27", Type: model.Break, Start: "09:00:00"}}
	st := engine.Aggregate(logs, model.Break, nil, now)
	assert.Zero(t, st.Total(model.Break))
}

func TestTickNotifiesOnce(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	var titles []string
	e := engine.New(nil, engine.Options{
		Clock:    clock,
		Logger:   quietLogger(),
		Notifier: engine.NotifierFunc(func(title, _ string) { titles = append(titles, title) }),
	})
	require.NoError(t, e.StartCategoryWork("dev", "Development"))

	clock.Advance(24 * time.Minute)
	st := e.Tick()
	assert.Equal(t, int64(24*60), st.ContinuousWork)
	assert.Empty(t, titles)

	clock.Advance(time.Minute)
	e.Tick()
	assert.Len(t, titles, 1)
	assert.True(t, e.State().Notified)

	clock.Advance(time.Minute)
	e.Tick()
	assert.Len(t, titles, 1)

	// A checkpoint keeps the stretch, so no second reminder.
	assert.True(t, e.LogWork())
	e.Tick()
	assert.Len(t, titles, 1)

	// A new stretch re-arms it.
	require.NoError(t, e.StartBreak())
	require.NoError(t, e.ChangeState(model.Work, "", ""))
	assert.False(t, e.State().Notified)
	clock.Advance(25 * time.Minute)
	e.Tick()
	assert.Len(t, titles, 2)
}

func TestTickWithoutWork(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	notified := false
	e := engine.New(nil, engine.Options{
		Clock:    clock,
		Logger:   quietLogger(),
		Notifier: engine.NotifierFunc(func(string, string) { notified = true }),
	})
	require.NoError(t, e.StartBreak())
	clock.Advance(time.Hour)
	st := e.Tick()
	assert.False(t, notified)
	assert.Equal(t, int64(3600), st.Total(model.Break))
	assert.Equal(t, model.Break, st.Current)
}
