package rooms

import (
	"encoding/json"
	"fmt"
	"time"
)

// AllRooms is the sentinel room name meaning "every room of this type". The
// backend encodes it as the literal number 0 in a slot's room list; it is
// normalized to this marker during decoding. The same literal doubles as the
// match-everything building filter.
const AllRooms = "Alle"

// Day is one raw per-day occupancy record as returned by the backend's free
// rooms endpoint.
type Day struct {
	// Date is an ISO date, possibly with a trailing time component.
	Date  string     `json:"datum"`
	Types []RoomType `json:"rtypes"`
}

// RoomType groups the timeslots of one room usage category (lecture, lab,
// PC pool, ...).
type RoomType struct {
	Name string `json:"raumtyp"`
	// Slots is keyed by the backend's slot number.
	Slots map[string]Timeslot `json:"stunden"`
}

// Timeslot is one raw per-timeslot record with clock-only bounds.
type Timeslot struct {
	From  string      `json:"von"`
	Until string      `json:"bis"`
	Rooms []RoomEntry `json:"raeume"`
}

// RoomEntry is one room available during a timeslot. The backend encodes it
// as a positional array [room, building, floor, capacity] where room is
// either a string code or the literal 0 meaning every room of the type.
type RoomEntry struct {
	Room     string
	Capacity int
}

// UnmarshalJSON decodes the positional array shape.
func (e *RoomEntry) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("rooms: room entry is not an array: %w", err)
	}
	if len(fields) < 2 {
		return fmt.Errorf("rooms: room entry has %d fields, expected at least 2", len(fields))
	}

	var room string
	if err := json.Unmarshal(fields[0], &room); err != nil {
		var numeric int
		if err := json.Unmarshal(fields[0], &numeric); err != nil || numeric != 0 {
			return fmt.Errorf("rooms: unexpected room code %s", fields[0])
		}
		room = AllRooms
	}

	var capacity int
	if err := json.Unmarshal(fields[len(fields)-1], &capacity); err != nil || capacity < 0 {
		return fmt.Errorf("rooms: unexpected capacity %s", fields[len(fields)-1])
	}

	e.Room = room
	e.Capacity = capacity
	return nil
}

// Opening is a merged contiguous interval during which a room is free for a
// given usage type. Openings are derived per query and never persisted.
type Opening struct {
	Room     string
	Type     string
	From     time.Time
	Until    time.Time
	Capacity int
}
