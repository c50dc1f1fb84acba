package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chayapol-b/jobfair-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking id does not exist in the
// kind's table.
var ErrBookingNotFound = errors.New("booking not found")

// BookingKind describes one of the two parallel booking collections.
// Appointments and reservations share a shape and all rules; they differ
// only in table name and which parent column they reference.  A single
// BookingRepo bound to a kind replaces what would otherwise be two
// copy-pasted repositories.
type BookingKind struct {
	Name         string // singular noun used in messages ("appointment")
	Table        string // backing table ("appointments")
	ParentColumn string // FK column referencing the parent ("company_id")
	DateColumn   string // column holding the booked instant ("appt_date")
}

// The two kinds in the system.  The per-user quota is counted within a
// kind, never across kinds.
var (
	AppointmentKind = BookingKind{Name: "appointment", Table: "appointments", ParentColumn: "company_id", DateColumn: "appt_date"}
	ReservationKind = BookingKind{Name: "reservation", Table: "reservations", ParentColumn: "jobfair_id", DateColumn: "resv_date"}
)

// BookingRepo provides CRUD operations for one booking kind.  All
// timestamp fields are assumed to be stored in UTC.  Queries interpolate
// only the table and column names from the kind, never user input.
type BookingRepo struct {
	db   *sql.DB
	kind BookingKind
}

// NewBookingRepo returns a BookingRepo bound to the given database and kind.
func NewBookingRepo(db *sql.DB, kind BookingKind) *BookingRepo {
	return &BookingRepo{db: db, kind: kind}
}

// Kind returns the kind this repository serves.
func (r *BookingRepo) Kind() BookingKind { return r.kind }

// DB exposes the underlying handle so the admission engine can run the
// count-and-insert pair inside one transaction.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CountByUserTx counts bookings of this kind owned by the user within an
// existing transaction.  The admission engine calls it right before
// CreateTx so both sides of the quota check share one transaction.
func (r *BookingRepo) CountByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) (int, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = ?", r.kind.Table)
	var n int
	err := tx.QueryRowContext(ctx, q, userID).Scan(&n)
	return n, err
}

// CreateTx inserts a booking within the scope of an existing transaction
// and populates the generated ID and timestamp fields on the record.
// The caller must commit or rollback the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	ins := fmt.Sprintf("INSERT INTO %s (user_id, %s, %s) VALUES (?, ?, ?)",
		r.kind.Table, r.kind.ParentColumn, r.kind.DateColumn)
	res, err := tx.ExecContext(ctx, ins, b.UserID, b.ParentID, b.Date.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	sel := fmt.Sprintf("SELECT user_id, %s, %s, created_at, updated_at FROM %s WHERE id = ?",
		r.kind.ParentColumn, r.kind.DateColumn, r.kind.Table)
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.UserID, &b.ParentID, &b.Date, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID fetches one booking by id, returning ErrBookingNotFound when
// the id does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	q := fmt.Sprintf("SELECT id, user_id, %s, %s, created_at, updated_at FROM %s WHERE id = ?",
		r.kind.ParentColumn, r.kind.DateColumn, r.kind.Table)
	var b model.Booking
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.UserID, &b.ParentID, &b.Date, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByUser returns all bookings of this kind owned by the given user,
// newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	q := fmt.Sprintf(`SELECT id, user_id, %s, %s, created_at, updated_at
	                  FROM %s WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		r.kind.ParentColumn, r.kind.DateColumn, r.kind.Table)
	return r.queryBookings(ctx, q, userID)
}

// ListAll returns every booking of this kind, newest first.  Only admins
// see an unscoped list; the guard decides which listing applies.
func (r *BookingRepo) ListAll(ctx context.Context) ([]*model.Booking, error) {
	q := fmt.Sprintf(`SELECT id, user_id, %s, %s, created_at, updated_at
	                  FROM %s ORDER BY created_at DESC, id DESC`,
		r.kind.ParentColumn, r.kind.DateColumn, r.kind.Table)
	return r.queryBookings(ctx, q)
}

// ListByParent returns every booking of this kind referencing the given
// parent, newest first.
func (r *BookingRepo) ListByParent(ctx context.Context, parentID uint64) ([]*model.Booking, error) {
	q := fmt.Sprintf(`SELECT id, user_id, %s, %s, created_at, updated_at
	                  FROM %s WHERE %s = ? ORDER BY created_at DESC, id DESC`,
		r.kind.ParentColumn, r.kind.DateColumn, r.kind.Table, r.kind.ParentColumn)
	return r.queryBookings(ctx, q, parentID)
}

func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...interface{}) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Booking, 0)
	for rows.Next() {
		b := new(model.Booking)
		if err := rows.Scan(&b.ID, &b.UserID, &b.ParentID, &b.Date, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDate moves a booking to a new instant.  User and parent are
// immutable, so the date is the only mutable column.  Returns the
// refreshed record or ErrBookingNotFound.
func (r *BookingRepo) UpdateDate(ctx context.Context, id uint64, date time.Time) (*model.Booking, error) {
	q := fmt.Sprintf("UPDATE %s SET %s = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", r.kind.Table, r.kind.DateColumn)
	if _, err := r.db.ExecContext(ctx, q, date.UTC(), id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes one booking.  Deleting an id that does not exist
// returns ErrBookingNotFound rather than succeeding silently.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.kind.Table)
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
