package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) (*echo.Echo, *Service) {
	t.Helper()
	svc := NewService(NewMemStore(), testKey, zerolog.Nop())
	e := echo.New()
	NewHandler(svc, nil).RegisterRoutes(e.Group("/api/v1"))
	return e, svc
}

func TestLoginEndpoint_Success(t *testing.T) {
	e, _ := newTestServer(t)

	body := `{"email":"e.reed@stanford.edu","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"e.reed@stanford.edu"`) {
		t.Errorf("expected session in response, got %s", rec.Body.String())
	}
}

func TestLoginEndpoint_Failure(t *testing.T) {
	e, svc := newTestServer(t)

	body := `{"email":"e.reed@stanford.edu","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.IsAuthenticated() {
		t.Error("failed login must not establish a session")
	}
}

func TestSessionEndpoint(t *testing.T) {
	e, svc := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", rec.Code)
	}

	svc.Login("a@b.c", "password123")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after login, got %d", rec.Code)
	}
}

func TestLogoutEndpoint(t *testing.T) {
	e, svc := newTestServer(t)
	svc.Login("a@b.c", "password123")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.IsAuthenticated() {
		t.Error("expected session cleared")
	}
}

func TestRequireSession(t *testing.T) {
	svc := NewService(NewMemStore(), testKey, zerolog.Nop())
	svc.Login("a@b.c", "password123")
	token := svc.Current().Token

	e := echo.New()
	g := e.Group("/api/v1", RequireSession(svc, func(c echo.Context) bool {
		return strings.HasPrefix(c.Path(), "/api/v1/auth")
	}))
	g.GET("/worklist", func(c echo.Context) error {
		if email, _ := c.Get("user_email").(string); email != "a@b.c" {
			t.Errorf("expected user_email on context, got %q", email)
		}
		return c.NoContent(http.StatusOK)
	})
	g.GET("/auth/session", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// No token.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/worklist", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	// Bad token.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/worklist", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad token, got %d", rec.Code)
	}

	// Valid token.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/worklist", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", rec.Code)
	}

	// Skipped route.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected skipper to exempt auth routes, got %d", rec.Code)
	}
}
