package entity

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	// DateKeyLayout is the 6-digit day-month-year key of the slot catalog.
	DateKeyLayout = "020106"
	// TimeLabelLayout parses labels like "9:30 PM".
	TimeLabelLayout = "3:04 PM"
	// ExpDateLayout formats a meeting's expiry date.
	ExpDateLayout = "02-01-2006"
)

var ErrEmptyCatalog = errors.New("availability catalog is empty")

// ParseDateKey parses a DDMMYY date key. The key must be exactly six
// digits; time.Parse alone would accept single-digit days.
func ParseDateKey(key string) (time.Time, error) {
	if len(key) != 6 {
		return time.Time{}, fmt.Errorf("date key %q: want 6 digits (DDMMYY)", key)
	}
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("date key %q: %w", key, err)
	}
	return t, nil
}

// ParseTimeLabel parses a clock label such as "9:30 PM".
func ParseTimeLabel(label string) (time.Time, error) {
	t, err := time.Parse(TimeLabelLayout, label)
	if err != nil {
		return time.Time{}, fmt.Errorf("time label %q: %w", label, err)
	}
	return t, nil
}

// ScheduleKey is the canonical slot identity used to correlate an attendee's
// booking with an external calendar event.
func ScheduleKey(dateKey, timeLabel string) string {
	return dateKey + "-" + timeLabel
}

// SlotFor builds the stored slot shape {dateKey: [timeLabel]}.
func SlotFor(dateKey, timeLabel string) SlotChoice {
	return SlotChoice{dateKey: []string{timeLabel}}
}

// First returns the chosen (dateKey, timeLabel) pair of a slot choice.
func (s SlotChoice) First() (dateKey, timeLabel string, ok bool) {
	for k, labels := range s {
		if len(labels) == 0 {
			return "", "", false
		}
		return k, labels[0], true
	}
	return "", "", false
}

// ScheduleKey returns the canonical identity of the chosen slot.
func (s SlotChoice) ScheduleKey() (string, bool) {
	dateKey, timeLabel, ok := s.First()
	if !ok {
		return "", false
	}
	return ScheduleKey(dateKey, timeLabel), true
}

// Offers reports whether the catalog contains the requested slot: the date
// key must be present and the label a member of that date's sequence.
func (c EventCatalog) Offers(dateKey, timeLabel string) bool {
	labels, ok := c[dateKey]
	if !ok {
		return false
	}
	for _, l := range labels {
		if l == timeLabel {
			return true
		}
	}
	return false
}

// Validate checks that the catalog is non-empty and every key and label is
// well formed.
func (c EventCatalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}
	for key, labels := range c {
		if _, err := ParseDateKey(key); err != nil {
			return err
		}
		if len(labels) == 0 {
			return fmt.Errorf("date key %q offers no time slots", key)
		}
		for _, label := range labels {
			if _, err := ParseTimeLabel(label); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExpDate returns the chronologically latest date key formatted DD-MM-YYYY.
// Date keys are compared as parsed dates, not as strings.
func (c EventCatalog) ExpDate() (string, error) {
	if len(c) == 0 {
		return "", ErrEmptyCatalog
	}
	var latest time.Time
	for key := range c {
		t, err := ParseDateKey(key)
		if err != nil {
			return "", err
		}
		if t.After(latest) {
			latest = t
		}
	}
	return latest.Format(ExpDateLayout), nil
}

// SlotStart resolves a (dateKey, timeLabel) slot to its start time.
func SlotStart(dateKey, timeLabel string) (time.Time, error) {
	day, err := ParseDateKey(dateKey)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := ParseTimeLabel(timeLabel)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

// DurationMinutes parses a meeting's duration field (minutes as a numeric
// string).
func DurationMinutes(duration string) (int, error) {
	n, err := strconv.Atoi(duration)
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", duration, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("duration %q: must be positive", duration)
	}
	return n, nil
}
