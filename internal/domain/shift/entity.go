package shift

import (
	"fmt"
	"time"

	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
)

// TimeOfDay is a wall-clock time without a date, in seconds after midnight.
type TimeOfDay int

const day = TimeOfDay(24 * 60 * 60)

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// ParseTimeOfDay parses "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(validator.TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
}

func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

func (t TimeOfDay) String() string {
	s := int(t % day)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}

// On returns the instant t falls on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(t.Duration())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type ShiftDefinition struct {
	Name      string
	StartTime TimeOfDay
	EndTime   TimeOfDay
}

// Overnight reports whether the shift ends on the day after it starts.
func (s ShiftDefinition) Overnight() bool {
	return s.EndTime <= s.StartTime
}

// StartOn returns the shift start on the given day.
func (s ShiftDefinition) StartOn(date time.Time) time.Time {
	return s.StartTime.On(date)
}

// EndAfter returns the shift end for a shift started on the day of date.
func (s ShiftDefinition) EndAfter(date time.Time) time.Time {
	end := s.EndTime.On(date)
	if s.Overnight() {
		end = s.EndTime.On(date.AddDate(0, 0, 1))
	}
	return end
}
