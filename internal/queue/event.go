// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when an appointment or reservation is
// successfully admitted. It contains enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type BookingCreatedEvent struct {
	Kind       string `json:"kind"` // "appointment" or "reservation"
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	ParentID   uint64 `json:"parent_id"`
	ParentName string `json:"parent_name"`
	Date       string `json:"date"`
	CreatedAt  string `json:"created_at"`
}
