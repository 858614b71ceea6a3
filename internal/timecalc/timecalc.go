package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006/01/02"
	timeLayout = "15:04:05"
)

// FormatDuration formats seconds as HH:MM:SS. Hours are not wrapped at 24;
// negative input formats as zero.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// TimeOfDay returns t's wall-clock time as HH:MM:SS.
func TimeOfDay(t time.Time) string {
	return t.Format(timeLayout)
}

// DateString returns t's calendar date as YYYY/MM/DD.
func DateString(t time.Time) string {
	return t.Format(dateLayout)
}

// atoiOr parses s as a decimal integer, returning def when s is not a
// number or is zero.
func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return def
	}
	return n
}

func part(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// ParseDateTime combines a YYYY/MM/DD date and an HH:MM:SS time into an
// instant in ref's location. An empty date means ref's date and an empty
// time means midnight. Unparseable components fall back to defaults
// (ref's year, month/day 1, hour/minute/second 0); it never fails.
func ParseDateTime(dateStr, timeStr string, ref time.Time) time.Time {
	if dateStr == "" {
		dateStr = DateString(ref)
	}
	if timeStr == "" {
		timeStr = "00:00:00"
	}

	d := strings.Split(strings.ReplaceAll(dateStr, "\\", "/"), "/")
	tp := strings.Split(timeStr, ":")

	y := atoiOr(part(d, 0), ref.Year())
	mo := atoiOr(part(d, 1), 1)
	day := atoiOr(part(d, 2), 1)
	h := atoiOr(part(tp, 0), 0)
	mi := atoiOr(part(tp, 1), 0)
	s := atoiOr(part(tp, 2), 0)

	return time.Date(y, time.Month(mo), day, h, mi, s, 0, ref.Location())
}

// IntervalSeconds returns the whole seconds between the start and end of an
// interval. Without an end date the interval is taken to end on the start
// date, rolling over to the next day when the end time precedes the start
// time. The result is never negative.
func IntervalSeconds(startTime, endTime, startDate, endDate string, ref time.Time) int64 {
	st := ParseDateTime(startDate, startTime, ref)
	ed := endDate
	if ed == "" {
		ed = startDate
	}
	et := ParseDateTime(ed, endTime, ref)
	if endDate == "" && et.Before(st) {
		et = et.Add(24 * time.Hour)
	}
	secs := int64(et.Sub(st) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// ElapsedSeconds returns the whole seconds from the start of an open
// interval until now, clamped to zero.
func ElapsedSeconds(startTime, startDate string, now time.Time) int64 {
	st := ParseDateTime(startDate, startTime, now)
	secs := int64(now.Sub(st) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

func digitGroups(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool { return r < '0' || r > '9' })
}

// pad2 zero-pads a digit group to two digits after dropping leading zeros.
// Groups of any length are kept as they are.
func pad2(s string) string {
	s = strings.TrimLeft(s, "0")
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}

// NormalizeTimeInput turns free-form user input into HH:MM:SS. Any run of
// non-digits separates groups, missing trailing groups become 00 and each
// group is zero-padded. Empty input stays empty.
func NormalizeTimeInput(raw string) string {
	if raw == "" {
		return ""
	}
	parts := digitGroups(raw)
	for len(parts) < 3 {
		parts = append(parts, "00")
	}
	return pad2(parts[0]) + ":" + pad2(parts[1]) + ":" + pad2(parts[2])
}

// NormalizeDateInput turns free-form user input into YYYY/MM/DD. Two-digit
// years are taken as 20YY; a missing month or day is 1. Input without any
// digits yields an empty string.
func NormalizeDateInput(raw string, ref time.Time) string {
	if raw == "" {
		return ""
	}
	parts := digitGroups(raw)
	if len(parts) == 0 {
		return ""
	}
	year := parts[0]
	if len(year) == 2 {
		year = "20" + year
	}
	y := atoiOr(year, ref.Year())
	m := atoiOr(part(parts, 1), 1)
	d := atoiOr(part(parts, 2), 1)
	return fmt.Sprintf("%d/%02d/%02d", y, m, d)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
