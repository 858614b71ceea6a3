package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownActivity is returned when a string does not name an Activity.
var ErrUnknownActivity = errors.New("unknown activity")

// Activity is the mutually exclusive state a user is in. Interval records
// carry the activity they were opened for.
type Activity string

const (
	Work     Activity = "work"
	Break    Activity = "break"
	Paused   Activity = "paused"
	Game     Activity = "game"
	Outing   Activity = "outing"
	Exercise Activity = "exercise"
	Job      Activity = "job"
	Secret   Activity = "secret"
	Sleep    Activity = "sleep"
)

// DailyKeys lists the daily categories in display order.
var DailyKeys = []Activity{Game, Outing, Exercise, Job, Secret, Sleep}

// Activities lists every activity in display order.
var Activities = append([]Activity{Work, Break, Paused}, DailyKeys...)

var labels = map[Activity]string{
	Work:     "Work",
	Break:    "Break",
	Paused:   "Paused",
	Game:     "Game",
	Outing:   "Outing",
	Exercise: "Exercise",
	Job:      "Job",
	Secret:   "Secret",
	Sleep:    "Sleep",
}

// IsDaily reports whether a is one of the daily categories.
func (a Activity) IsDaily() bool {
	switch a {
	case Game, Outing, Exercise, Job, Secret, Sleep:
		return true
	}
	return false
}

// Valid reports whether a is a known activity.
func (a Activity) Valid() bool {
	_, ok := labels[a]
	return ok
}

// Label returns the display label, or the raw value for unknown activities.
func (a Activity) Label() string {
	if l, ok := labels[a]; ok {
		return l
	}
	return string(a)
}

// ParseActivity converts s into an Activity.
func ParseActivity(s string) (Activity, error) {
	a := Activity(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownActivity, s)
	}
	return a, nil
}

// Record is one row of the activity log. Dates are YYYY/MM/DD and times
// HH:MM:SS in local wall-clock time; End and EndDate stay empty while the
// record is open.
type Record struct {
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	Type          Activity `json:"type"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	CategoryKey   string   `json:"categoryKey,omitempty"`
	CategoryLabel string   `json:"categoryLabel,omitempty"`
	Important     string   `json:"important"`
	Note          string   `json:"note"`

	// LegacyDate is the single date field of the older record shape. It is
	// only read, and cleared once migrated into StartDate.
	LegacyDate string `json:"date,omitempty"`
}

// Open reports whether the record has not been closed yet.
func (r Record) Open() bool {
	return r.End == ""
}

// TypeLabel returns the label shown for the record's type. Work records are
// labelled by their category.
func (r Record) TypeLabel() string {
	if r.Type == Work {
		if r.CategoryLabel != "" {
			return r.CategoryLabel
		}
		if r.Important != "" {
			return r.Important
		}
	}
	return r.Type.Label()
}

// Snapshot is the persisted part of the engine state.
// ContStart is nil when the snapshot predates it or nobody is working.
type Snapshot struct {
	Logs      []Record
	State     Activity
	ContStart *time.Time
}
