package workday

import (
	"fmt"
	"time"
)

const (
	// DefaultStartMinutes is 08:00 expressed as minutes since midnight.
	DefaultStartMinutes = 480
	// DefaultGraceMinutes is the lateness tolerance after the workday start.
	DefaultGraceMinutes = 15
	// DefaultAnnualLeaveQuota is the number of annual leave days per year.
	DefaultAnnualLeaveQuota = 12

	DateLayout = "2006-01-02"
)

// Policy is the single source of truth for lateness and the calendar day.
type Policy struct {
	StartMinutes     int
	GraceMinutes     int
	AnnualLeaveQuota int
	Location         *time.Location
}

// Default returns the 08:00 start / 15 minute grace policy in UTC.
func Default() Policy {
	return Policy{
		StartMinutes:     DefaultStartMinutes,
		GraceMinutes:     DefaultGraceMinutes,
		AnnualLeaveQuota: DefaultAnnualLeaveQuota,
		Location:         time.UTC,
	}
}

// LateThresholdMinutes returns the last minute of the day that still counts as on time.
func (p Policy) LateThresholdMinutes() int {
	return p.StartMinutes + p.GraceMinutes
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// In converts t into the policy location.
func (p Policy) In(t time.Time) time.Time {
	return t.In(p.location())
}

// MinutesSinceMidnight returns the whole minutes elapsed since local midnight.
func (p Policy) MinutesSinceMidnight(t time.Time) int {
	local := p.In(t)
	return local.Hour()*60 + local.Minute()
}

// CalendarDay truncates t to midnight of its local day. The result is in UTC
// so it compares and stores cleanly as a DATE.
func (p Policy) CalendarDay(t time.Time) time.Time {
	local := p.In(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// IsLate reports whether a check-in at t is after the grace period.
// A check-in exactly at the threshold minute is on time.
func (p Policy) IsLate(t time.Time) bool {
	return p.MinutesSinceMidnight(t) > p.LateThresholdMinutes()
}

// Validate rejects policies that cannot describe a workday.
func (p Policy) Validate() error {
	if p.StartMinutes < 0 || p.StartMinutes >= 24*60 {
		return fmt.Errorf("workday start must be within the day, got %d minutes", p.StartMinutes)
	}
	if p.GraceMinutes < 0 {
		return fmt.Errorf("grace period must not be negative, got %d", p.GraceMinutes)
	}
	if p.AnnualLeaveQuota < 0 {
		return fmt.Errorf("annual leave quota must not be negative, got %d", p.AnnualLeaveQuota)
	}
	return nil
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes renders a whole number of minutes as "<H>h <M>m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// DaysInclusive counts calendar days between two dates, both ends included.
func DaysInclusive(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
