package campus

// TimetableEntry is one lecture or exercise slot in the personal timetable.
type TimetableEntry struct {
	Date      string `json:"datum"`
	StartTime string `json:"von"`
	EndTime   string `json:"bis"`
	Title     string `json:"fach"`
	ShortName string `json:"veranstaltung"`
	Room      string `json:"raum"`
	Lecturer  string `json:"dozent"`
	Goal      string `json:"ziel"`
	Contents  string `json:"inhalt"`
}

// Timetable is the per-day personal timetable. A student without a
// configured timetable gets the zero value, which is empty but valid.
type Timetable struct {
	Entries []TimetableEntry `json:"timetable"`
}

// Exam is one scheduled examination.
type Exam struct {
	Title     string   `json:"titel"`
	Type      string   `json:"pruefungs_art"`
	Rooms     string   `json:"exam_rooms"`
	Seat      string   `json:"exam_seat"`
	Date      string   `json:"exam_ts"`
	Enrolled  string   `json:"anm_ts"`
	Aids      []string `json:"hilfsmittel"`
}

// Grade is one graded course result.
type Grade struct {
	Title   string `json:"titel"`
	Grade   string `json:"note"`
	ECTS    string `json:"ects"`
	Attempt string `json:"anrech"`
	Mode    string `json:"frwpf"`
}

// Lecturer is one entry of the lecturer directory.
type Lecturer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"vorname"`
	Title     string `json:"titel"`
	Room      string `json:"raum"`
	Email     string `json:"email"`
	Function  string `json:"funktion"`
	Hours     string `json:"sprechstunde"`
}

// PersonalData is the student's master data record.
type PersonalData struct {
	Name                string `json:"name"`
	FirstName           string `json:"vorname"`
	MatriculationNumber string `json:"mtknr"`
	LibraryNumber       string `json:"bibnr"`
	StudyProgram        string `json:"fachrich"`
	StudyGroup          string `json:"stgru"`
	Email               string `json:"fhmail"`
}

// NewsItem is one entry of the campus news feed.
type NewsItem struct {
	Title  string `json:"title"`
	Teaser string `json:"teaser"`
	URL    string `json:"href"`
	Date   string `json:"date"`
}
