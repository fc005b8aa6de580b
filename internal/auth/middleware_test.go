package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func newPrivateApp(svc *Service) *fiber.App {
	app := fiber.New()
	app.Get("/private", JWTMiddleware(svc), func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		return c.SendString(UserID(c))
	})
	return app
}

func TestJWTMiddleware(t *testing.T) {
	svc := NewService("secret")
	app := newPrivateApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for missing token")
	}

	token, err := svc.Issue("user-1", AccessTokenTTL)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok, got %d", resp.StatusCode)
	}
}

func TestJWTMiddlewareRejects(t *testing.T) {
	svc := NewService("secret")
	app := newPrivateApp(svc)

	other, _ := NewService("other").Issue("user-1", AccessTokenTTL)
	expired, _ := svc.Issue("user-1", -time.Minute)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"wrong scheme":    "Basic abc",
		"wrong secret":    "Bearer " + other,
		"expired":         "Bearer " + expired,
		"unsigned":        "Bearer " + none,
		"garbage":         "Bearer not-a-token",
		"bearer only"    : "Bearer",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", header)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected unauthorized, got %d", name, resp.StatusCode)
		}
	}
}

func TestValidateParseError(t *testing.T) {
	orig := parseMiddlewareClaimsFn
	defer func() { parseMiddlewareClaimsFn = orig }()
	parseMiddlewareClaimsFn = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
		return nil, errors.New("boom")
	}

	if _, err := NewService("secret").Validate("x"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateMissingUserID(t *testing.T) {
	svc := NewService("secret")
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestIssueRequiresUser(t *testing.T) {
	if _, err := NewService("secret").Issue("", AccessTokenTTL); err == nil {
		t.Fatalf("expected error")
	}
}

func TestVerifyRoute(t *testing.T) {
	svc := NewService("secret")
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), svc)

	token, _ := svc.Issue("rider-7", AccessTokenTTL)
	req := httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok, got %d", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["user_id"] != "rider-7" {
		t.Fatalf("unexpected body: %v", body)
	}
}
