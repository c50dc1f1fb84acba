package booking_test

import (
	"testing"

	"github.com/chayapol-b/jobfair-booking/internal/booking"
	"github.com/chayapol-b/jobfair-booking/internal/model"
)

func TestCanModify(t *testing.T) {
	record := &model.Booking{ID: 10, UserID: 7, ParentID: 1}

	cases := []struct {
		name      string
		requester booking.Identity
		want      bool
	}{
		{"owner may modify", booking.Identity{ID: 7, Role: model.RoleUser}, true},
		{"other user may not", booking.Identity{ID: 8, Role: model.RoleUser}, false},
		{"admin may modify anyone's", booking.Identity{ID: 99, Role: model.RoleAdmin}, true},
		{"admin owner may modify", booking.Identity{ID: 7, Role: model.RoleAdmin}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := booking.CanModify(tc.requester, record); got != tc.want {
				t.Errorf("CanModify(%+v) = %v, want %v", tc.requester, got, tc.want)
			}
		})
	}
}

func TestScopeList(t *testing.T) {
	cases := []struct {
		name         string
		requester    booking.Identity
		parentFilter uint64
		want         booking.ListScope
	}{
		{
			"user sees only own bookings",
			booking.Identity{ID: 7, Role: model.RoleUser}, 0,
			booking.ListScope{UserID: 7},
		},
		{
			"parent filter is ignored for users",
			booking.Identity{ID: 7, Role: model.RoleUser}, 3,
			booking.ListScope{UserID: 7},
		},
		{
			"admin sees everything",
			booking.Identity{ID: 1, Role: model.RoleAdmin}, 0,
			booking.ListScope{All: true},
		},
		{
			"admin may filter by parent",
			booking.Identity{ID: 1, Role: model.RoleAdmin}, 3,
			booking.ListScope{ParentID: 3},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := booking.ScopeList(tc.requester, tc.parentFilter); got != tc.want {
				t.Errorf("ScopeList(%+v, %d) = %+v, want %+v", tc.requester, tc.parentFilter, got, tc.want)
			}
		})
	}
}
