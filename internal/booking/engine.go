// Package booking holds the admission and authorization rules for
// bookings, separated from HTTP handling and SQL so the rules can be
// exercised directly in tests.  An Engine instance serves exactly one
// booking kind (appointments or reservations); the quota is therefore
// counted within that kind only.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chayapol-b/jobfair-booking/internal/model"
)

// Identity is the resolved requester extracted from the access token.
type Identity struct {
	ID   uint64
	Role string
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (i Identity) IsAdmin() bool { return i.Role == model.RoleAdmin }

// Window is the fixed admission window.  Both bounds are inclusive and
// compared as absolute instants, not calendar days: a date equal to
// either bound is admitted.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// String renders the window bounds for rejection messages.
func (w Window) String() string {
	const layout = "Jan 2, 2006 15:04:05 MST"
	return fmt.Sprintf("%s to %s", w.Start.UTC().Format(layout), w.End.UTC().Format(layout))
}

// ErrParentNotFound is returned by Submit when the target parent
// resource does not exist.  Parent resolvers must translate their own
// not-found sentinels into this one.
var ErrParentNotFound = errors.New("parent resource not found")

// OutOfWindowError rejects a date outside the admission window.  The
// message states the exact bounds so the caller knows what would be
// accepted.
type OutOfWindowError struct {
	Kind   string
	Window Window
}

func (e *OutOfWindowError) Error() string {
	return fmt.Sprintf("%s date must be within %s", e.Kind, e.Window)
}

// QuotaExceededError rejects a submission from a non-admin user who
// already holds the maximum number of bookings of this kind.
type QuotaExceededError struct {
	Kind   string
	UserID uint64
	Count  int
	Limit  int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("user %d has already made %d %ss (limit %d)", e.UserID, e.Count, e.Kind, e.Limit)
}

// ParentResolver looks up a parent resource (company or job fair) and
// returns the descriptive summary embedded into booking responses.
// Implementations return ErrParentNotFound when the id does not exist.
type ParentResolver interface {
	Resolve(ctx context.Context, id uint64) (*model.ParentSummary, error)
}

// ParentResolverFunc adapts a function to the ParentResolver interface.
type ParentResolverFunc func(ctx context.Context, id uint64) (*model.ParentSummary, error)

func (f ParentResolverFunc) Resolve(ctx context.Context, id uint64) (*model.ParentSummary, error) {
	return f(ctx, id)
}

// Tx is the slice of sql.Tx the engine needs.  *sql.Tx satisfies it;
// tests substitute lightweight fakes.
type Tx interface {
	Commit() error
	Rollback() error
}

// Store is the persistence surface the engine drives.  Count and Create
// run inside the transaction opened by Begin so the quota check and the
// insert observe the same state.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	CountByUser(ctx context.Context, tx Tx, userID uint64) (int, error)
	Create(ctx context.Context, tx Tx, b *model.Booking) error
}

// Engine decides ADMIT or REJECT for booking submissions of one kind.
//
// Submissions are serialized per user: the count-then-insert pair is a
// check-then-act sequence, and without serialization two concurrent
// submissions from the same near-quota user could both pass the count.
// A per-user mutex plus running both store calls in one transaction
// keeps the quota invariant under concurrent requests.
type Engine struct {
	kind    string
	parents ParentResolver
	store   Store
	window  Window
	limit   int

	locks sync.Map // userID -> *sync.Mutex, grows with distinct users
}

// NewEngine constructs an admission engine.  The window bounds and the
// per-user limit come from configuration, never from literals.
func NewEngine(kind string, parents ParentResolver, store Store, window Window, limit int) *Engine {
	if parents == nil || store == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{kind: kind, parents: parents, store: store, window: window, limit: limit}
}

// Window returns the configured admission window.
func (e *Engine) Window() Window { return e.window }

func (e *Engine) userLock(userID uint64) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Submit runs the admission pipeline for a booking request:
//
//  1. the parent must exist (ErrParentNotFound),
//  2. the date must fall inside the window (OutOfWindowError),
//  3. a non-admin requester must be below the per-kind quota
//     (QuotaExceededError); admins have no ceiling,
//  4. the booking is persisted and returned together with the parent
//     summary for embedding.
//
// Nothing stops a user from booking the same parent and date twice;
// the original system never enforced such a uniqueness rule and this
// implementation keeps that behavior.
func (e *Engine) Submit(ctx context.Context, requester Identity, parentID uint64, date time.Time) (*model.Booking, *model.ParentSummary, error) {
	parent, err := e.parents.Resolve(ctx, parentID)
	if err != nil {
		return nil, nil, err
	}
	if !e.window.Contains(date) {
		return nil, nil, &OutOfWindowError{Kind: e.kind, Window: e.window}
	}

	mu := e.userLock(requester.ID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	count, err := e.store.CountByUser(ctx, tx, requester.ID)
	if err != nil {
		return nil, nil, err
	}
	if !requester.IsAdmin() && count >= e.limit {
		return nil, nil, &QuotaExceededError{Kind: e.kind, UserID: requester.ID, Count: count, Limit: e.limit}
	}

	b := &model.Booking{
		UserID:   requester.ID,
		ParentID: parentID,
		Date:     date.UTC(),
	}
	if err := e.store.Create(ctx, tx, b); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	committed = true
	return b, parent, nil
}

// ValidateDate applies the window rule alone.  Updates use it so a
// booking cannot be moved outside the window after creation.
func (e *Engine) ValidateDate(date time.Time) error {
	if !e.window.Contains(date) {
		return &OutOfWindowError{Kind: e.kind, Window: e.window}
	}
	return nil
}
