package course

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hongjunna/toporider/internal/auth"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newCourseApp(svc *Service) *fiber.App {
	app := fiber.New()
	fakeAuth := func(c *fiber.Ctx) error {
		c.Locals(auth.LocalUserID, "rider-1")
		return c.Next()
	}
	RegisterRoutes(app.Group("/courses"), svc, fakeAuth)
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return body
}

func TestCourseHandlersCreate(t *testing.T) {
	mock := newMock(t)
	app := newCourseApp(NewService(mock, nil))
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO courses`).
		WithArgs(pgxmock.AnyArg(), "Han river", "", json.RawMessage(`[]`), json.RawMessage(`[]`), "rider-1").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(`{"title":"Han river","markers":[],"polylines":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["status"] != "success" || body["title"] != "Han river" || body["course_id"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCourseHandlersCreateValidation(t *testing.T) {
	app := newCourseApp(NewService(newMock(t), nil))

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(`{"markers":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(`{bad`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", resp.StatusCode)
	}
}

func TestCourseHandlersListAndGet(t *testing.T) {
	mock := newMock(t)
	app := newCourseApp(NewService(mock, nil))
	now := time.Now()

	mock.ExpectQuery(`SELECT id, title`).WillReturnRows(courseRow("c-1", "Loop", now))
	mock.ExpectQuery(`SELECT id, title`).WithArgs("c-1").WillReturnRows(courseRow("c-1", "Loop", now))
	mock.ExpectQuery(`SELECT id, title`).WithArgs("c-2").WillReturnError(pgx.ErrNoRows)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/courses", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var list []Course
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil || len(list) != 1 || list[0].Title != "Loop" {
		t.Fatalf("unexpected list: %+v (%v)", list, err)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/courses/c-1", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var one Course
	if err := json.NewDecoder(resp.Body).Decode(&one); err != nil || one.ID != "c-1" {
		t.Fatalf("unexpected course: %+v (%v)", one, err)
	}
	if string(one.Markers) != `[{"lat":37.5,"lng":127}]` {
		t.Fatalf("markers not passed through: %s", one.Markers)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/courses/c-2", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCourseHandlersUpdate(t *testing.T) {
	mock := newMock(t)
	app := newCourseApp(NewService(mock, nil))
	now := time.Now()

	mock.ExpectQuery(`SELECT id, title`).WithArgs("c-1").WillReturnRows(courseRow("c-1", "Loop", now))
	mock.ExpectQuery(`UPDATE courses\s+SET title`).
		WithArgs("c-1", "Loop 2", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	req := httptest.NewRequest(http.MethodPut, "/courses/c-1", strings.NewReader(`{"title":"Loop 2"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	course, _ := body["course"].(map[string]any)
	if body["status"] != "success" || course["title"] != "Loop 2" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCourseHandlersDelete(t *testing.T) {
	mock := newMock(t)
	app := newCourseApp(NewService(mock, nil))

	mock.ExpectExec(`UPDATE courses SET is_deleted=TRUE`).WithArgs("c-1").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE courses SET is_deleted=TRUE`).WithArgs("c-9").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`UPDATE courses SET is_deleted=TRUE`).WithArgs("c-5").WillReturnError(errors.New("db down"))

	resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/courses/c-1", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["deleted_id"] != "c-1" || body["message"] != "Soft deleted" {
		t.Fatalf("unexpected body: %v", body)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/courses/c-9", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/courses/c-5", nil))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestCourseHandlersRequireAuth(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/courses"), NewService(newMock(t), nil), auth.JWTMiddleware(auth.NewService("secret")))

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestUnavailable(t *testing.T) {
	app := fiber.New()
	app.Use("/courses", Unavailable)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/courses", nil))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}
