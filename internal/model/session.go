package model

import "time"

// Session is a closed interval as stored by the remote record store.
type Session struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Type        Activity  `json:"type"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	DurationSec int64     `json:"duration_sec"`
}

// SessionPatch holds the fields to change on an existing session. Nil
// fields are left untouched.
type SessionPatch struct {
	Type        *Activity  `json:"type,omitempty"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	DurationSec *int64     `json:"duration_sec,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p SessionPatch) Empty() bool {
	return p.Type == nil && p.StartAt == nil && p.EndAt == nil && p.DurationSec == nil
}
