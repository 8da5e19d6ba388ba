// Package campus exposes the authenticated domain operations of the legacy
// backend. Every call runs inside the session manager's retry envelope; the
// per-endpoint error overrides in this package are backend quirks that must
// be reproduced exactly, not bugs.
package campus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/api"
	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/logging"
	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/rooms"
	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/session"
)

// Backend error messages that specific endpoints treat as empty results.
const (
	msgQueryNotPossible = "Query not possible"
	msgNoExamData       = "No exam data available"
)

// SessionRunner is the session manager capability the client depends on.
type SessionRunner interface {
	CallWithSession(ctx context.Context, op session.Operation) (any, error)
}

// Requester is the anonymous API client capability the client depends on.
type Requester interface {
	Request(ctx context.Context, params map[string]string) (api.Envelope, error)
}

// Client performs authenticated calls against the campus backend.
type Client struct {
	sessions SessionRunner
	backend  Requester
	logger   *slog.Logger
}

// NewClient constructs an authenticated client.
func NewClient(sessions SessionRunner, backend Requester) *Client {
	return NewClientWithLogger(sessions, backend, nil)
}

// NewClientWithLogger constructs an authenticated client with a specified
// logger.
func NewClientWithLogger(sessions SessionRunner, backend Requester, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{sessions: sessions, backend: backend, logger: logger}
}

func (c *Client) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = c.logger
	}
	pairs := []any{"service", "CampusClient", "operation", operation}
	pairs = append(pairs, attrs...)
	return logger.With(pairs...)
}

// request merges the session token into params and performs the call inside
// the session manager's retry envelope, returning the normalized payload.
func (c *Client) request(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	result, err := c.sessions.CallWithSession(ctx, func(ctx context.Context, token string) (any, error) {
		merged := make(map[string]string, len(params)+1)
		for key, value := range params {
			merged[key] = value
		}
		merged["session"] = token

		envelope, err := c.backend.Request(ctx, merged)
		if err != nil {
			return nil, err
		}
		return envelope.Data, nil
	})
	if err != nil {
		return nil, err
	}
	payload, _ := result.(json.RawMessage)
	return payload, nil
}

func dateParams(method string, date time.Time) map[string]string {
	return map[string]string{
		"service": "thiapp",
		"method":  method,
		"format":  "json",
		"day":     strconv.Itoa(date.Day()),
		"month":   strconv.Itoa(int(date.Month())),
		"year":    strconv.Itoa(date.Year()),
	}
}

func params(method string) map[string]string {
	return map[string]string{
		"service": "thiapp",
		"method":  method,
		"format":  "json",
	}
}

// isBackendMessage reports whether err is a backend failure carrying exactly
// the given message.
func isBackendMessage(err error, message string) bool {
	var apiErr *api.APIError
	return errors.As(err, &apiErr) && apiErr.Message() == message
}

// GetTimetable fetches the personal timetable for the given day.
//
// Two quirks: a backend "Query not possible" means no timetable is
// configured and yields an empty result, and detailed mode occasionally
// produces malformed JSON on the backend side, in which case the call is
// silently repeated without details and the degradation is logged as a
// warning. Detailed mode is best-effort.
func (c *Client) GetTimetable(ctx context.Context, date time.Time, detailed bool) (Timetable, error) {
	p := dateParams("stundenplan", date)
	p["details"] = boolParam(detailed)

	payload, err := c.request(ctx, p)
	if err != nil {
		if isBackendMessage(err, msgQueryNotPossible) {
			return Timetable{}, nil
		}
		var parseErr *api.ParseError
		if detailed && errors.As(err, &parseErr) {
			c.loggerWith(ctx, "GetTimetable").WarnContext(ctx, "detailed timetable unavailable, falling back to plain mode", "error", err)
			return c.GetTimetable(ctx, date, false)
		}
		return Timetable{}, err
	}

	var timetable Timetable
	if err := json.Unmarshal(payload, &timetable); err != nil {
		return Timetable{}, fmt.Errorf("campus: decode timetable: %w", err)
	}
	return timetable, nil
}

func boolParam(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

// GetExams fetches the scheduled exams. The backend reports an empty exam
// list as an error; both known messages map to an empty result.
func (c *Client) GetExams(ctx context.Context) ([]Exam, error) {
	payload, err := c.request(ctx, params("pruefungen"))
	if err != nil {
		if isBackendMessage(err, msgNoExamData) || isBackendMessage(err, msgQueryNotPossible) {
			return []Exam{}, nil
		}
		return nil, err
	}

	var exams []Exam
	if err := json.Unmarshal(payload, &exams); err != nil {
		return nil, fmt.Errorf("campus: exam data is not array-shaped: %w", err)
	}
	return exams, nil
}

// GetGrades fetches the graded course results.
func (c *Client) GetGrades(ctx context.Context) ([]Grade, error) {
	payload, err := c.request(ctx, params("noten"))
	if err != nil {
		return nil, err
	}

	var grades []Grade
	if err := json.Unmarshal(payload, &grades); err != nil {
		return nil, fmt.Errorf("campus: decode grades: %w", err)
	}
	return grades, nil
}

// GetFreeRooms fetches the raw per-day room occupancy records for the given
// day. The rooms package turns them into merged availability openings.
func (c *Client) GetFreeRooms(ctx context.Context, date time.Time) ([]rooms.Day, error) {
	payload, err := c.request(ctx, dateParams("rooms", date))
	if err != nil {
		return nil, err
	}

	var days []rooms.Day
	if err := json.Unmarshal(payload, &days); err != nil {
		return nil, fmt.Errorf("campus: decode room data: %w", err)
	}
	return days, nil
}

// GetLecturers fetches the lecturer directory pages from and to, passed
// through to the backend as name range bounds.
func (c *Client) GetLecturers(ctx context.Context, from, to string) ([]Lecturer, error) {
	p := params("dozenten")
	p["from"] = from
	p["to"] = to

	payload, err := c.request(ctx, p)
	if err != nil {
		return nil, err
	}

	var lecturers []Lecturer
	if err := json.Unmarshal(payload, &lecturers); err != nil {
		return nil, fmt.Errorf("campus: decode lecturers: %w", err)
	}
	return lecturers, nil
}

// GetPersonalData fetches the student's master data record.
func (c *Client) GetPersonalData(ctx context.Context) (PersonalData, error) {
	payload, err := c.request(ctx, params("persdata"))
	if err != nil {
		return PersonalData{}, err
	}

	var data PersonalData
	if err := json.Unmarshal(payload, &data); err != nil {
		return PersonalData{}, fmt.Errorf("campus: decode personal data: %w", err)
	}
	return data, nil
}

// GetNews fetches the campus news feed.
func (c *Client) GetNews(ctx context.Context) ([]NewsItem, error) {
	payload, err := c.request(ctx, params("news"))
	if err != nil {
		return nil, err
	}

	var items []NewsItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("campus: decode news: %w", err)
	}
	return items, nil
}
