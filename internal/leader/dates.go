package leader

import "time"

// DefaultLookback is the number of calendar days walked back from the
// reference date, the reference day included.
const DefaultLookback = 5

// DateLayout is the trade-date format used by the upstream and the API
const DateLayout = "20060102"

// Candidate is one calendar day in the lookback window
type Candidate struct {
	Date    time.Time
	Weekend bool
}

// Candidates returns ref's calendar day and the lookback-1 days before it,
// most recent first. Weekends are included but flagged.
func Candidates(ref time.Time, lookback int) []Candidate {
	if lookback <= 0 {
		lookback = DefaultLookback
	}

	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	out := make([]Candidate, 0, lookback)
	for i := 0; i < lookback; i++ {
		d := day.AddDate(0, 0, -i)
		out = append(out, Candidate{Date: d, Weekend: IsWeekend(d)})
	}
	return out
}

// CandidateDates returns the weekday candidates in strictly descending order
func CandidateDates(ref time.Time, lookback int) []time.Time {
	var out []time.Time
	for _, c := range Candidates(ref, lookback) {
		if !c.Weekend {
			out = append(out, c.Date)
		}
	}
	return out
}

// IsWeekend reports whether t falls on Saturday or Sunday
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// FormatDate renders a trade date as YYYYMMDD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYYMMDD trade date in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}
