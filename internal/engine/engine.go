// Package engine implements the timer state machine: a single current
// activity plus an append-only log of interval records, kept consistent
// across state changes, manual edits, deletions and restores.
//
// An Engine is not safe for concurrent use. Callers run handlers one at a
// time, the way UI events and timer ticks are delivered.
package engine

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Tiliavir/worktimer/internal/model"
)

var (
	ErrIndexOutOfRange = errors.New("record index out of range")
	ErrNotDaily        = errors.New("not a daily category")
	ErrOpenNotLast     = errors.New("only the last record may be left open")
)

// Store persists engine snapshots.
type Store interface {
	LoadSnapshot() (model.Snapshot, error)
	SaveSnapshot(model.Snapshot) error
}

// Notifier delivers the one-shot continuous-work reminder.
type Notifier interface {
	Notify(title, body string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, body string)

func (f NotifierFunc) Notify(title, body string) { f(title, body) }

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Change tells subscribers what needs redrawing.
type Change uint8

const (
	LogChanged Change = 1 << iota
	StatsChanged
)

// Has reports whether c includes f.
func (c Change) Has(f Change) bool { return c&f != 0 }

// State is the process-wide timer state. ContStart is set exactly when
// Current is work.
type State struct {
	Current   model.Activity
	Logs      []model.Record
	ContStart *time.Time
	Notified  bool
}

func (s State) clone() State {
	out := s
	out.Logs = append([]model.Record(nil), s.Logs...)
	if s.ContStart != nil {
		cs := *s.ContStart
		out.ContStart = &cs
	}
	return out
}

// Options configures an Engine. Zero values select the real clock, no
// notifications, a confirmer that always declines and slog.Default.
type Options struct {
	Clock     clockwork.Clock
	Notifier  Notifier
	Confirmer Confirmer
	Logger    *slog.Logger
}

// Engine owns the timer state and applies user events to it.
type Engine struct {
	st        State
	store     Store
	clock     clockwork.Clock
	notifier  Notifier
	confirmer Confirmer
	log       *slog.Logger

	subs    map[int]func(Change)
	nextSub int
}

// New returns an engine with an empty log in the paused state.
func New(store Store, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(string, string) {})
	}
	if opts.Confirmer == nil {
		opts.Confirmer = ConfirmerFunc(func(string) bool { return false })
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		st:        State{Current: model.Paused},
		store:     store,
		clock:     opts.Clock,
		notifier:  opts.Notifier,
		confirmer: opts.Confirmer,
		log:       opts.Logger,
		subs:      map[int]func(Change){},
	}
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.st.clone()
}

// Current returns the current activity.
func (e *Engine) Current() model.Activity {
	return e.st.Current
}

// Len returns the number of records in the log.
func (e *Engine) Len() int {
	return len(e.st.Logs)
}

// Record returns the record at index i.
func (e *Engine) Record(i int) (model.Record, error) {
	if i < 0 || i >= len(e.st.Logs) {
		return model.Record{}, ErrIndexOutOfRange
	}
	return e.st.Logs[i], nil
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// Subscribe registers fn to be called after every mutation and tick. The
// returned function removes the subscription.
func (e *Engine) Subscribe(fn func(Change)) func() {
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() { delete(e.subs, id) }
}

func (e *Engine) publish(c Change) {
	for _, fn := range e.subs {
		fn(c)
	}
}

// persist saves a snapshot. Failures are logged and otherwise ignored: the
// in-memory state stays authoritative until the next restore.
func (e *Engine) persist() {
	if e.store == nil {
		return
	}
	snap := model.Snapshot{
		Logs:  append([]model.Record(nil), e.st.Logs...),
		State: e.st.Current,
	}
	if e.st.ContStart != nil {
		cs := *e.st.ContStart
		snap.ContStart = &cs
	}
	if err := e.store.SaveSnapshot(snap); err != nil {
		e.log.Warn("saving snapshot failed", slog.Any("error", err))
	}
}

func (e *Engine) commit(c Change) {
	e.persist()
	e.publish(c)
}
