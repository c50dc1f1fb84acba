package booking

import "github.com/chayapol-b/jobfair-booking/internal/model"

// guard.go decides who may read and mutate existing bookings.  The
// decisions are pure functions over the requester and the record, so
// handlers stay free of ownership logic.
//
// Handlers must check existence before authorization: a request for a
// booking that does not exist is answered with not-found, never with
// unauthorized, regardless of who asks.

// CanModify reports whether the requester may update or delete the
// booking.  The owner and any admin may; everyone else may not.
func CanModify(requester Identity, b *model.Booking) bool {
	if requester.IsAdmin() {
		return true
	}
	return b.UserID == requester.ID
}

// ListScope is the filter a listing request must apply.  It is a scope
// decision made once per request, not a per-record check.
type ListScope struct {
	All      bool   // admin without filter: every booking of the kind
	UserID   uint64 // non-admin: only this user's bookings
	ParentID uint64 // admin with explicit parent filter
}

// ScopeList decides the listing scope for the requester.  Non-admin
// users always see only their own bookings; the parent filter is an
// admin-only capability and is ignored for everyone else.
func ScopeList(requester Identity, parentFilter uint64) ListScope {
	if !requester.IsAdmin() {
		return ListScope{UserID: requester.ID}
	}
	if parentFilter != 0 {
		return ListScope{ParentID: parentFilter}
	}
	return ListScope{All: true}
}
