// Package rooms computes room availability from the raw per-day occupancy
// records of the campus backend. Everything here is a pure function of its
// inputs; all intermediate state is query-scoped, so the engine is safe to
// call from any number of goroutines.
package rooms

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/dateutil"
)

// GapTolerance is the maximum gap between two raw timeslots that still
// merges them into one opening. Backend timeslot boundaries do not align
// exactly, so short gaps are considered continuous.
const GapTolerance = 15 * time.Minute

// validRoomPattern matches real room codes such as G215 or W003. Virtual
// locations ("Online") and malformed basement codes do not match.
var validRoomPattern = regexp.MustCompile(`^[A-Z][0-9E]\d{2,3}$`)

// IsValidRoom reports whether name looks like a physical room code.
func IsValidRoom(name string) bool {
	return validRoomPattern.MatchString(name)
}

// Openings flattens the raw records for the query date and folds them into
// merged per-room openings.
//
// The fold is a greedy single pass: each incoming timeslot extends the first
// existing opening of the same room whose interval overlaps after expanding
// both sides by GapTolerance, regardless of the opening's usage type. Input
// order decides which opening absorbs which, but the final unions are
// unaffected because the scan is per room.
func Openings(days []Day, date time.Time) ([]Opening, error) {
	prefix := dateutil.FormatISODate(date)

	var openings []Opening
	for _, day := range days {
		if !strings.HasPrefix(day.Date, prefix) {
			continue
		}
		for _, roomType := range day.Types {
			for _, slot := range orderedSlots(roomType.Slots) {
				from, err := dateutil.CombineDateTime(day.Date, slot.From)
				if err != nil {
					return nil, fmt.Errorf("rooms: timeslot start: %w", err)
				}
				until, err := dateutil.CombineDateTime(day.Date, slot.Until)
				if err != nil {
					return nil, fmt.Errorf("rooms: timeslot end: %w", err)
				}
				for _, entry := range slot.Rooms {
					openings = merge(openings, Opening{
						Room:     entry.Room,
						Type:     roomType.Name,
						From:     from,
						Until:    until,
						Capacity: entry.Capacity,
					})
				}
			}
		}
	}
	return openings, nil
}

// merge extends the first tolerant-overlapping opening of the same room, or
// appends a new one.
func merge(openings []Opening, incoming Opening) []Opening {
	for i := range openings {
		existing := &openings[i]
		if existing.Room != incoming.Room {
			continue
		}
		overlaps := !incoming.From.After(existing.Until.Add(GapTolerance)) &&
			!incoming.Until.Before(existing.From.Add(-GapTolerance))
		if !overlaps {
			continue
		}
		if incoming.From.Before(existing.From) {
			existing.From = incoming.From
		}
		if incoming.Until.After(existing.Until) {
			existing.Until = incoming.Until
		}
		return openings
	}
	return append(openings, incoming)
}

// orderedSlots returns the timeslots in ascending slot number order so the
// greedy fold is deterministic.
func orderedSlots(slots map[string]Timeslot) []Timeslot {
	keys := make([]string, 0, len(slots))
	for key := range slots {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})

	ordered := make([]Timeslot, 0, len(keys))
	for _, key := range keys {
		ordered = append(ordered, slots[key])
	}
	return ordered
}

// Search returns the openings that contain the requested window completely,
// restricted to the given building. The building filter AllRooms matches
// every room; otherwise the room code must start with the building letter
// followed by digits only, so the ALL-ROOMS sentinel never matches a
// specific building. Results are sorted lexicographically by room code.
func Search(days []Day, begin, end time.Time, building string) ([]Opening, error) {
	openings, err := Openings(days, begin)
	if err != nil {
		return nil, err
	}

	var buildingPattern *regexp.Regexp
	if building != AllRooms {
		buildingPattern, err = regexp.Compile(`(?i)^` + regexp.QuoteMeta(building) + `\d+$`)
		if err != nil {
			return nil, fmt.Errorf("rooms: building filter: %w", err)
		}
	}

	matches := make([]Opening, 0, len(openings))
	for _, opening := range openings {
		if buildingPattern != nil && !buildingPattern.MatchString(opening.Room) {
			continue
		}
		if begin.Before(opening.From) || end.After(opening.Until) {
			continue
		}
		matches = append(matches, opening)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Room < matches[j].Room
	})
	return matches, nil
}

// Filter is a convenience wrapper over Search: the window begins at the
// given clock time on date and lasts for duration, given as "HH:MM".
func Filter(days []Day, date time.Time, clock, building, duration string) ([]Opening, error) {
	offset, err := dateutil.ParseClockDuration(clock)
	if err != nil {
		return nil, err
	}
	length, err := dateutil.ParseClockDuration(duration)
	if err != nil {
		return nil, err
	}

	begin, err := dateutil.ParseISODate(dateutil.FormatISODate(date))
	if err != nil {
		return nil, err
	}
	begin = begin.Add(offset)
	return Search(days, begin, begin.Add(length), building)
}
