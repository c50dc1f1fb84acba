package model

import "time"

// Booking is a user's reserved time slot against a parent resource.
// Two kinds exist with identical shape and rules: appointments
// (parent Company, table `appointments`) and reservations (parent
// Jobfair, table `reservations`).  The kind is carried by the
// repository a record was loaded from, not by the record itself.
//
// UserID and ParentID are immutable after creation; only Date may be
// changed through an update.
type Booking struct {
    ID        uint64    // primary key
    UserID    uint64    // owner of the booking
    ParentID  uint64    // company_id or jobfair_id depending on kind
    Date      time.Time // the booked instant, stored in UTC
    CreatedAt time.Time
    UpdatedAt time.Time
}

// ParentSummary is the descriptive slice of a parent resource that is
// embedded into booking responses, mirroring what applicants need to
// see next to their slot (name, where, how to call).
type ParentSummary struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Address     string `json:"address"`
    Tel         string `json:"tel,omitempty"`
    Website     string `json:"website,omitempty"`
    Description string `json:"description,omitempty"`
}
