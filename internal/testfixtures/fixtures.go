package testfixtures

import "fmt"

// FreeRoomsPayload returns a raw free-rooms payload for the given ISO date,
// shaped exactly like the backend's JSON: nested per-type, per-timeslot,
// per-room records with positional room entries.
func FreeRoomsPayload(date string) string {
	return fmt.Sprintf(`[
		{
			"datum": "%s",
			"rtypes": [
				{
					"raumtyp": "Seminarraum",
					"stunden": {
						"1": {"von": "08:00", "bis": "09:30", "raeume": [["G215", "G", 2, 40], ["W003", "W", 0, 30]]},
						"2": {"von": "09:45", "bis": "11:15", "raeume": [["G215", "G", 2, 40]]}
					}
				},
				{
					"raumtyp": "PC-Pool",
					"stunden": {
						"1": {"von": "11:30", "bis": "13:00", "raeume": [[0, "G", 0, 0]]}
					}
				}
			]
		}
	]`, date)
}
