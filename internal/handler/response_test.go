package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/chayapol-b/jobfair-booking/internal/model"
)

func testContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequester(t *testing.T) {
	cases := []struct {
		name    string
		userID  interface{}
		role    interface{}
		wantID  uint64
		wantErr bool
	}{
		{"float64 claim", float64(7), model.RoleUser, 7, false},
		{"string claim", "42", model.RoleAdmin, 42, false},
		{"uint64 claim", uint64(9), model.RoleUser, 9, false},
		{"missing user_id", nil, model.RoleUser, 0, true},
		{"non-numeric string", "abc", model.RoleUser, 0, true},
		{"missing role", float64(7), nil, 0, true},
		{"unknown role", float64(7), "SUPERUSER", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testContext("/")
			if tc.userID != nil {
				c.Set("user_id", tc.userID)
			}
			if tc.role != nil {
				c.Set("role", tc.role)
			}
			id, err := requester(c)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("requester() = %+v, want error", id)
				}
				return
			}
			if err != nil {
				t.Fatalf("requester() failed: %v", err)
			}
			if id.ID != tc.wantID {
				t.Errorf("requester id = %d, want %d", id.ID, tc.wantID)
			}
		})
	}
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		name       string
		target     string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/", 25, 0},
		{"second page", "/?page=2", 25, 25},
		{"custom limit", "/?page=3&limit=10", 10, 20},
		{"zero page clamps to first", "/?page=0", 25, 0},
		{"negative limit falls back", "/?limit=-5", 25, 0},
		{"oversized limit falls back", "/?limit=500", 25, 0},
		{"garbage values fall back", "/?page=x&limit=y", 25, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset := pageParams(testContext(tc.target))
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Errorf("pageParams(%s) = (%d, %d), want (%d, %d)",
					tc.target, limit, offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}
