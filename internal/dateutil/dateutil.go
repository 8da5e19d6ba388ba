// Package dateutil provides the date and clock parsing helpers shared by the
// campus client and the room availability engine. The legacy backend reports
// dates as ISO strings with an optional time component and durations as
// "HH:MM" clock strings.
package dateutil

import (
	"fmt"
	"strings"
	"time"
)

const isoDateLayout = "2006-01-02"

// FormatISODate renders only the date component of an instant.
func FormatISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// ParseISODate parses a value whose first ten characters form an ISO date.
// Any trailing time component is discarded, so round-tripping through
// FormatISODate preserves the date exactly.
func ParseISODate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < len(isoDateLayout) {
		return time.Time{}, fmt.Errorf("dateutil: %q is not an ISO date", value)
	}
	t, err := time.ParseInLocation(isoDateLayout, trimmed[:len(isoDateLayout)], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("dateutil: parse %q: %w", value, err)
	}
	return t, nil
}

// CombineDateTime builds an instant from an ISO date string and an "HH:MM"
// or "HH:MM:SS" clock string, both as reported by the backend.
func CombineDateTime(date, clock string) (time.Time, error) {
	day, err := ParseISODate(date)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := ParseClockDuration(clock)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(offset), nil
}

// ParseClockDuration converts an "HH:MM" or "HH:MM:SS" clock string into a
// duration from midnight.
func ParseClockDuration(clock string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("dateutil: %q is not a HH:MM clock value", clock)
	}

	var hours, minutes int
	if _, err := fmt.Sscanf(parts[0], "%d", &hours); err != nil || hours < 0 {
		return 0, fmt.Errorf("dateutil: %q is not a HH:MM clock value", clock)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &minutes); err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("dateutil: %q is not a HH:MM clock value", clock)
	}

	duration := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if len(parts) == 3 {
		var seconds int
		if _, err := fmt.Sscanf(parts[2], "%d", &seconds); err != nil || seconds < 0 || seconds > 59 {
			return 0, fmt.Errorf("dateutil: %q is not a HH:MM clock value", clock)
		}
		duration += time.Duration(seconds) * time.Second
	}
	return duration, nil
}
