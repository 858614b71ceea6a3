package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/worktimer/internal/timecalc"
)

var ref = time.Date(2026, 2, 27, 10, 15, 30, 0, time.UTC)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
		{86399, "23:59:59"},
		{90000, "25:00:00"},
		{360000, "100:00:00"},
		{-5, "00:00:00"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTimeOfDayAndDateString(t *testing.T) {
	ts := time.Date(2026, 3, 4, 7, 8, 9, 0, time.UTC)
	if got := timecalc.TimeOfDay(ts); got != "07:08:09" {
		t.Errorf("TimeOfDay = %q, want %q", got, "07:08:09")
	}
	if got := timecalc.DateString(ts); got != "2026/03/04" {
		t.Errorf("DateString = %q, want %q", got, "2026/03/04")
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name string
		date string
		tod  string
		want time.Time
	}{
		{"full", "2026/02/27", "09:30:15", time.Date(2026, 2, 27, 9, 30, 15, 0, time.UTC)},
		{"backslash date", `2026\02\27`, "09:30:15", time.Date(2026, 2, 27, 9, 30, 15, 0, time.UTC)},
		{"empty date uses ref", "", "08:00:00", time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)},
		{"empty time is midnight", "2026/01/05", "", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"missing day", "2026/03", "01:02:03", time.Date(2026, 3, 1, 1, 2, 3, 0, time.UTC)},
		{"garbage month", "2026/xx/10", "12:00:00", time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)},
		{"empty month segment", "2026//10", "12:00:00", time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)},
		{"garbage time", "2026/02/27", "ab:cd", time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)},
		{"short time", "2026/02/27", "14", time.Date(2026, 2, 27, 14, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timecalc.ParseDateTime(tt.date, tt.tod, ref)
			if !got.Equal(tt.want) {
				t.Errorf("ParseDateTime(%q, %q) = %v, want %v", tt.date, tt.tod, got, tt.want)
			}
		})
	}
}

func TestIntervalSeconds(t *testing.T) {
	tests := []struct {
		name               string
		start, end         string
		startDate, endDate string
		want               int64
	}{
		{"same day", "09:00:00", "10:30:00", "2026/02/27", "2026/02/27", 5400},
		{"midnight rollover without end date", "23:50:00", "00:10:00", "2026/02/27", "", 1200},
		{"explicit end date across midnight", "23:50:00", "00:10:00", "2026/02/27", "2026/02/28", 1200},
		{"explicit same end date clamps to zero", "23:50:00", "00:10:00", "2026/02/27", "2026/02/27", 0},
		{"multi day", "08:00:00", "08:00:00", "2026/02/27", "2026/03/01", 2 * 86400},
		{"zero length", "12:00:00", "12:00:00", "2026/02/27", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timecalc.IntervalSeconds(tt.start, tt.end, tt.startDate, tt.endDate, ref)
			if got != tt.want {
				t.Errorf("IntervalSeconds = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestElapsedSeconds(t *testing.T) {
	if got := timecalc.ElapsedSeconds("10:00:00", "2026/02/27", ref); got != 930 {
		t.Errorf("ElapsedSeconds = %d, want 930", got)
	}
	if got := timecalc.ElapsedSeconds("11:00:00", "2026/02/27", ref); got != 0 {
		t.Errorf("ElapsedSeconds in the future = %d, want 0", got)
	}
}

func TestNormalizeTimeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"9", "09:00:00"},
		{"9:5", "09:05:00"},
		{"09:05:07", "09:05:07"},
		{"9.5.7", "09:05:07"},
		{"  12 34 56 ", "12:34:56"},
		{"1:2:3:4", "01:02:03"},
		{"abc", "00:00:00"},
		{"007:08", "07:08:00"},
		{"123:4", "123:04:00"},
		{"0:00:000", "00:00:00"},
		{"99999999999999999999", "99999999999999999999:00:00"},
		{"1:0000000000000000000007", "01:07:00"},
	}
	for _, tt := range tests {
		got := timecalc.NormalizeTimeInput(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeTimeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTimeInputIdempotent(t *testing.T) {
	inputs := []string{"", "9", "9:5", "12-34-56", "abc", "007:08", "123:4", "1:2:3:4", "99999999999999999999999"}
	for _, in := range inputs {
		once := timecalc.NormalizeTimeInput(in)
		twice := timecalc.NormalizeTimeInput(once)
		if once != twice {
			t.Errorf("NormalizeTimeInput not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeDateInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"---", ""},
		{"2026/2/7", "2026/02/07"},
		{"26 2 7", "2026/02/07"},
		{"2026-12", "2026/12/01"},
		{"2026", "2026/01/01"},
		{"0/3/4", "2026/03/04"},
		{"2026.00.00", "2026/01/01"},
	}
	for _, tt := range tests {
		got := timecalc.NormalizeDateInput(tt.in, ref)
		if got != tt.want {
			t.Errorf("NormalizeDateInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
	if got := timecalc.StartOfDay(b); !got.Equal(time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay = %v", got)
	}
}
