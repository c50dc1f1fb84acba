package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chayapol-b/jobfair-booking/internal/model"
)

// stubTokenStore implements TokenStore with function fields so each
// test declares only the behavior it needs.
type stubTokenStore struct {
	storeRefresh     func(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	validateRefresh  func(ctx context.Context, tokenHash string) (uint64, error)
	revokeByHash     func(ctx context.Context, tokenHash string) error
	revokeAllForUser func(ctx context.Context, userID uint64) (int64, error)
}

func (s *stubTokenStore) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	return s.storeRefresh(ctx, userID, tokenHash, exp)
}
func (s *stubTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	return s.validateRefresh(ctx, tokenHash)
}
func (s *stubTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	return s.revokeByHash(ctx, tokenHash)
}
func (s *stubTokenStore) RevokeAllForUser(ctx context.Context, userID uint64) (int64, error) {
	return s.revokeAllForUser(ctx, userID)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	var revokedFor uint64
	h := &AuthHandler{Tokens: &stubTokenStore{
		revokeAllForUser: func(ctx context.Context, userID uint64) (int64, error) {
			revokedFor = userID
			return 3, nil
		},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7))
	c.Set("role", model.RoleUser)

	if err := h.LogoutAll(c); err != nil {
		t.Fatalf("LogoutAll returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if revokedFor != 7 {
		t.Errorf("revoked sessions for user %d, want 7", revokedFor)
	}

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			SessionsRevoked int64 `json:"sessions_revoked"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v", err)
	}
	if !env.Success || env.Data.SessionsRevoked != 3 {
		t.Errorf("envelope = %+v, want success with 3 sessions revoked", env)
	}
}

func TestLogoutAllRequiresIdentity(t *testing.T) {
	called := false
	h := &AuthHandler{Tokens: &stubTokenStore{
		revokeAllForUser: func(ctx context.Context, userID uint64) (int64, error) {
			called = true
			return 0, nil
		},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.LogoutAll(c); err != nil {
		t.Fatalf("LogoutAll returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("sessions were revoked for an unauthenticated request")
	}
}
