package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/chayapol-b/jobfair-booking/internal/utils"
)

const testSecret = "unit-test-secret"

// invoke runs the given middleware chain against a GET request carrying
// the supplied Authorization header and returns the recorder plus the
// context values the terminal handler observed.
func invoke(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	seen := map[string]interface{}{}
	h := func(c echo.Context) error {
		seen["user_id"] = c.Get("user_id")
		seen["role"] = c.Get("role")
		return c.NoContent(http.StatusOK)
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	if err := h(c); err != nil {
		t.Fatalf("middleware chain returned error: %v", err)
	}
	return rec, seen
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "USER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}

	rec, seen := invoke(t, "Bearer "+at.Token, JWTAuth(testSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if sub, ok := seen["user_id"].(float64); !ok || uint64(sub) != 7 {
		t.Errorf("user_id in context = %v, want 7", seen["user_id"])
	}
	if seen["role"] != "USER" {
		t.Errorf("role in context = %v, want USER", seen["role"])
	}
}

func TestJWTAuthRejections(t *testing.T) {
	forged, err := utils.NewAccessToken("other-secret", 7, "USER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}
	stale, err := utils.NewAccessToken(testSecret, 7, "USER", -1)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + forged.Token},
		{"expired token", "Bearer " + stale.Token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := invoke(t, tc.header, JWTAuth(testSecret))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokenFor := func(role string) string {
		at, err := utils.NewAccessToken(testSecret, 7, role, 15)
		if err != nil {
			t.Fatalf("NewAccessToken failed: %v", err)
		}
		return "Bearer " + at.Token
	}

	cases := []struct {
		name    string
		role    string
		allowed []string
		want    int
	}{
		{"admin on admin route", "ADMIN", []string{"ADMIN"}, http.StatusOK},
		{"user on admin route", "USER", []string{"ADMIN"}, http.StatusForbidden},
		{"user on shared route", "USER", []string{"USER", "ADMIN"}, http.StatusOK},
		{"unknown role", "GUEST", []string{"USER", "ADMIN"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := invoke(t, tokenFor(tc.role), JWTAuth(testSecret), RequireRole(tc.allowed...))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
