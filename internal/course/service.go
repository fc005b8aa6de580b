package course

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hongjunna/toporider/internal/db"
	"github.com/hongjunna/toporider/internal/stream"
	"github.com/jackc/pgx/v5"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrInvalidCourse  = errors.New("invalid course")
)

var emptyList = json.RawMessage("[]")

// Publisher receives course change events.
type Publisher interface {
	Publish(ev stream.Event)
}

type Service struct {
	db     db.Querier
	events Publisher
}

// NewService builds the course store. events may be nil.
func NewService(db db.Querier, events Publisher) *Service {
	return &Service{db: db, events: events}
}

func (s *Service) Create(ctx context.Context, req CreateRequest, userID string) (Course, error) {
	if req.Title == "" {
		return Course{}, fmt.Errorf("%w: title required", ErrInvalidCourse)
	}
	markers, err := jsonList(req.Markers, "markers")
	if err != nil {
		return Course{}, err
	}
	polylines, err := jsonList(req.Polylines, "polylines")
	if err != nil {
		return Course{}, err
	}

	c := Course{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Markers:   markers,
		Polylines: polylines,
		UserID:    userID,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO courses (id, title, description, markers_json, polylines_json, user_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, c.ID, c.Title, c.Description, c.Markers, c.Polylines, c.UserID)
	if err := row.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return Course{}, fmt.Errorf("insert course: %w", err)
	}

	s.publish(EventCreated, c.ID, c.Title)
	return c, nil
}

// List returns live courses, newest first.
func (s *Service) List(ctx context.Context) ([]Course, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, description, markers_json, polylines_json, user_id, created_at, updated_at
		FROM courses WHERE NOT is_deleted
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (s *Service) Get(ctx context.Context, id string) (Course, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, description, markers_json, polylines_json, user_id, created_at, updated_at
		FROM courses WHERE id=$1 AND NOT is_deleted
	`, id)
	c, err := scanCourse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Course{}, ErrCourseNotFound
	}
	if err != nil {
		return Course{}, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, patch UpdateRequest) (Course, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if patch.Title != nil {
		if *patch.Title == "" {
			return Course{}, fmt.Errorf("%w: title must not be empty", ErrInvalidCourse)
		}
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if present(patch.Markers) {
		if c.Markers, err = jsonList(patch.Markers, "markers"); err != nil {
			return Course{}, err
		}
	}
	if present(patch.Polylines) {
		if c.Polylines, err = jsonList(patch.Polylines, "polylines"); err != nil {
			return Course{}, err
		}
	}

	row := s.db.QueryRow(ctx, `
		UPDATE courses
		SET title=$2, description=$3, markers_json=$4, polylines_json=$5, updated_at=now()
		WHERE id=$1 AND NOT is_deleted
		RETURNING updated_at
	`, c.ID, c.Title, c.Description, c.Markers, c.Polylines)
	if err := row.Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, ErrCourseNotFound
		}
		return Course{}, fmt.Errorf("update course: %w", err)
	}

	s.publish(EventUpdated, c.ID, c.Title)
	return c, nil
}

// Delete marks the course deleted; the row is kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE courses SET is_deleted=TRUE, updated_at=now()
		WHERE id=$1 AND NOT is_deleted
	`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}

	s.publish(EventDeleted, id, "")
	return nil
}

func (s *Service) publish(kind, id, title string) {
	if s.events == nil {
		return
	}
	s.events.Publish(stream.Event{Type: kind, CourseID: id, Title: title})
	log.Printf("course %s: %s", kind, id)
}

func scanCourse(row pgx.Row) (Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Markers, &c.Polylines, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// jsonList accepts a JSON array; absent input becomes [].
func jsonList(raw json.RawMessage, field string) (json.RawMessage, error) {
	if !present(raw) {
		return emptyList, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] != '[' || !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: %s must be a JSON array", ErrInvalidCourse, field)
	}
	return json.RawMessage(trimmed), nil
}
