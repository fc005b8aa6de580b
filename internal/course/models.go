package course

import (
	"encoding/json"
	"time"
)

// Course is a saved route plan. Markers and polylines are kept as the
// client sent them.
type Course struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Markers     json.RawMessage `json:"markers"`
	Polylines   json.RawMessage `json:"polylines"`
	UserID      string          `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateRequest struct {
	Title     string          `json:"title"`
	Markers   json.RawMessage `json:"markers"`
	Polylines json.RawMessage `json:"polylines"`
}

// UpdateRequest changes only the fields that are present.
type UpdateRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Markers     json.RawMessage `json:"markers"`
	Polylines   json.RawMessage `json:"polylines"`
}

const (
	EventCreated = "course.created"
	EventUpdated = "course.updated"
	EventDeleted = "course.deleted"
)
