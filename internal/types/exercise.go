package types

import (
	"encoding/json"
	"time"
)

// DateDisplayFormat is the normalized human-readable day string used in
// responses, e.g. "Wed Jan 23 2019". It is derived solely from
// year/month/day; all comparisons happen on the structured date value,
// never on this string.
const DateDisplayFormat = "Mon Jan 02 2006"

// Exercise is one logged activity record belonging to a user. LoggedOn is
// day precision, normalized to midnight UTC.
type Exercise struct {
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	LoggedOn    time.Time `json:"-"`
}

// EnrichedExercise is the add-exercise response: the persisted entry joined
// with the owning user. ID is the user's id, matching the original API shape.
type EnrichedExercise struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date" example:"Wed Jan 23 2019"`
}

// LogEntry is a single row of a user's exercise log.
type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date" example:"Wed Jan 23 2019"`
}

// ExerciseLog is the get-log response. Count is the length of Log after
// filtering, not the total number of stored entries.
type ExerciseLog struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

// LogFilter holds the parsed, optional query filters for get-log. A nil
// field means the filter was absent or unparseable and must be skipped
// (the documented lenient-filter policy).
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit *int
}

// AddExerciseRequest represents the expected JSON body for logging an
// exercise. Duration is a json.Number so the raw token reaches the service
// untouched; the service owns the integer coercion and its error.
type AddExerciseRequest struct {
	UserID      string      `json:"userId"`
	Description string      `json:"description"`
	Duration    json.Number `json:"duration"`
	Date        string      `json:"date,omitempty"`
}
